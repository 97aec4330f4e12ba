// Package endian reports the host byte order.
package endian

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// Big is true on big-endian hosts.
var Big = cpu.IsBigEndian

// Native is the host byte order.
var Native binary.ByteOrder = nativeOrder()

func nativeOrder() binary.ByteOrder {
	if Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
