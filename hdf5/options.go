package hdf5

// FileOption configures file creation.
type FileOption func(*fileOptions)

type fileOptions struct {
	offsetSize int
	lengthSize int
}

func defaultFileOptions() *fileOptions {
	return &fileOptions{
		offsetSize: 8,
		lengthSize: 8,
	}
}

// WithOffsetSize sets the width of file addresses (2, 4 or 8 bytes).
func WithOffsetSize(size int) FileOption {
	return func(o *fileOptions) {
		if size == 2 || size == 4 || size == 8 {
			o.offsetSize = size
		}
	}
}

// WithLengthSize sets the width of lengths (2, 4 or 8 bytes).
func WithLengthSize(size int) FileOption {
	return func(o *fileOptions) {
		if size == 2 || size == 4 || size == 8 {
			o.lengthSize = size
		}
	}
}

// DatasetOption configures dataset creation.
type DatasetOption func(*datasetOptions)

type attrDef struct {
	name  string
	value any
}

type datasetOptions struct {
	stringSize int
	attributes []attrDef
}

// WithStringSize sets the fixed element size, terminator included, of a
// string dataset. Without it the longest string plus one is used.
func WithStringSize(n int) DatasetOption {
	return func(o *datasetOptions) {
		o.stringSize = n
	}
}

// WithAttribute attaches an attribute to the dataset. The value can be a
// scalar or slice of any integer or float type, or a string or []string.
func WithAttribute(name string, value any) DatasetOption {
	return func(o *datasetOptions) {
		o.attributes = append(o.attributes, attrDef{name: name, value: value})
	}
}
