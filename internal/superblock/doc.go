// Package superblock reads and writes version 2 and 3 HDF5 superblocks.
//
//	0      8  signature
//	8      1  version
//	9      1  size of offsets (O)
//	10     1  size of lengths
//	11     1  file consistency flags
//	12     O  base address
//	12+O   O  superblock extension address
//	12+2O  O  end of file address
//	12+3O  O  root group object header address
//	12+4O  4  lookup3 checksum
//
// The signature is searched at 0, 512, 1024 and 2048 bytes. Version 0
// and 1 superblocks are reported as [ErrUnsupportedVersion].
package superblock
