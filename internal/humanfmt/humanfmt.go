// Package humanfmt formats byte counts for log output.
package humanfmt

import "fmt"

// Binary (IEC) units for bytes.
const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
	TiB = 1024 * GiB
)

// Bytes formats a byte count using IEC binary units, e.g. "1.23 GiB".
func Bytes(b int64) string {
	if b < 0 {
		return fmt.Sprintf("%d B", b)
	}

	switch {
	case b >= TiB:
		return fmt.Sprintf("%.2f TiB", float64(b)/TiB)
	case b >= GiB:
		return fmt.Sprintf("%.2f GiB", float64(b)/GiB)
	case b >= MiB:
		return fmt.Sprintf("%.2f MiB", float64(b)/MiB)
	case b >= KiB:
		return fmt.Sprintf("%.2f KiB", float64(b)/KiB)
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// Memory formats b the way the converter reports cube memory: one
// decimal in GB, MB or kB, with 1024-based units.
func Memory(b int64) string {
	v := float64(b)
	switch {
	case b >= GiB:
		return fmt.Sprintf("%.1f GB", v/GiB)
	case b >= MiB:
		return fmt.Sprintf("%.1f MB", v/MiB)
	default:
		return fmt.Sprintf("%.1f kB", v/KiB)
	}
}
