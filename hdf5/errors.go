// Package hdf5 writes and reads the subset of HDF5 used by sofia2hdf5:
// version 3 superblocks, version 2 object headers, compact groups,
// contiguous datasets and attributes of integer, float and fixed-length
// string type.
package hdf5

import "errors"

var (
	ErrNotHDF5     = errors.New("not an HDF5 file")
	ErrNotFound    = errors.New("object not found")
	ErrNotDataset  = errors.New("object is not a dataset")
	ErrNotGroup    = errors.New("object is not a group")
	ErrExists      = errors.New("name already exists")
	ErrReadOnly    = errors.New("file is not writable")
	ErrClosed      = errors.New("file is closed")
	ErrUnsupported = errors.New("unsupported feature")
)
