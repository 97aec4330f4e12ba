package catalog

import (
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// Row is the Parquet form of a Record.
type Row struct {
	ID      int32   `parquet:"id"`
	Name    string  `parquet:"name"`
	Key     string  `parquet:"key"`
	X       float64 `parquet:"x"`
	Y       float64 `parquet:"y"`
	Z       float64 `parquet:"z"`
	XMin    float64 `parquet:"x_min"`
	XMax    float64 `parquet:"x_max"`
	YMin    float64 `parquet:"y_min"`
	YMax    float64 `parquet:"y_max"`
	ZMin    float64 `parquet:"z_min"`
	ZMax    float64 `parquet:"z_max"`
	RA      float64 `parquet:"ra"`
	Dec     float64 `parquet:"dec"`
	VApp    float64 `parquet:"v_app"`
	FSum    float64 `parquet:"f_sum"`
	ErrFSum float64 `parquet:"err_f_sum"`
	ErrX    float64 `parquet:"err_x"`
	ErrY    float64 `parquet:"err_y"`
	ErrZ    float64 `parquet:"err_z"`
	KinPA   float64 `parquet:"kin_pa"`
	W50     float64 `parquet:"w50"`
	RMS     float64 `parquet:"rms"`
	NPix    int32   `parquet:"n_pix"`
}

// RowOf converts a record to its Parquet row.
func RowOf(r Record) Row {
	return Row{
		ID:      int32(r.ID),
		Name:    r.Name,
		Key:     r.Key,
		X:       r.X,
		Y:       r.Y,
		Z:       r.Z,
		XMin:    r.XMin,
		XMax:    r.XMax,
		YMin:    r.YMin,
		YMax:    r.YMax,
		ZMin:    r.ZMin,
		ZMax:    r.ZMax,
		RA:      r.RA,
		Dec:     r.Dec,
		VApp:    r.VApp,
		FSum:    r.FSum,
		ErrFSum: r.ErrFSum,
		ErrX:    r.ErrX,
		ErrY:    r.ErrY,
		ErrZ:    r.ErrZ,
		KinPA:   r.KinPA,
		W50:     r.W50,
		RMS:     r.RMS,
		NPix:    int32(r.NPix),
	}
}

// WriteParquet writes one row per record to path.
func WriteParquet(path string, c *Catalog) error {
	rows := make([]Row, len(c.Records))
	for i, r := range c.Records {
		rows[i] = RowOf(r)
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	return nil
}

// ReadParquet reads rows written by WriteParquet.
func ReadParquet(path string) ([]Row, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return rows, nil
}
