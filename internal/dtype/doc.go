// Package dtype maps between Go values and the fixed-point, floating-point
// and fixed-length string HDF5 datatypes.
//
// [FromGoType] picks a datatype in host byte order, [Encode] turns a Go
// value or slice into raw element bytes, and [Decode] turns raw bytes back
// into int64, uint64, float64 or string slices.
package dtype
