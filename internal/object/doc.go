// Package object reads and writes version 2 HDF5 object headers.
//
// A header is the "OHDR" signature, a version byte, flags, the size of
// chunk #0, the header messages and a lookup3 checksum over everything
// before it. Messages are stored without creation order or timestamps:
//
//	0  1  message type
//	1  2  size of message data
//	3  1  message flags
//	4  n  message data
//
// Unused space at the end of the chunk is filled with one NIL message,
// so a chunk can never be padded by fewer than four bytes.
//
// Continuation blocks and version 1 headers are not produced by the
// writer and are rejected by [Read] with [ErrUnsupportedVersion].
package object
