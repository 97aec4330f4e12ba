// Package alloc hands out file addresses for HDF5 writing.
//
// Allocation is append-only: every block is placed at the current end of
// file, which then advances. Nothing is ever reused; a relocated object
// header simply leaves its old bytes behind.
package alloc

import (
	"fmt"
	"sync"
)

// Allocator tracks the end-of-file address of a file being written.
type Allocator struct {
	mu       sync.Mutex
	base     uint64
	eof      uint64
	blocks   []Block
	largest  uint64
	reserved uint64
}

// Block is one allocation.
type Block struct {
	Addr uint64
	Size uint64
}

// Stats summarises the allocations made so far.
type Stats struct {
	Allocations  int
	BytesAlloc   uint64
	LargestAlloc uint64
}

// New returns an allocator whose first block starts at base.
func New(base uint64) *Allocator {
	return &Allocator{base: base, eof: base}
}

// Alloc reserves size bytes at end of file and returns their address.
// A zero-size request returns the current end of file and records nothing.
func (a *Allocator) Alloc(size uint64) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	addr := a.eof
	if size == 0 {
		return addr
	}
	a.eof += size
	a.reserved += size
	if size > a.largest {
		a.largest = size
	}
	a.blocks = append(a.blocks, Block{Addr: addr, Size: size})
	return addr
}

// EOFAddr returns the address the next allocation will receive.
func (a *Allocator) EOFAddr() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.eof
}

// Stats returns allocation statistics.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Stats{Allocations: len(a.blocks), BytesAlloc: a.reserved, LargestAlloc: a.largest}
}

// Validate checks that every block lies in [base, eof) and that blocks
// never overlap. Blocks are handed out in address order, so it is enough
// to compare neighbours.
func (a *Allocator) Validate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	prevEnd := a.base
	for _, b := range a.blocks {
		if b.Addr < prevEnd {
			return fmt.Errorf("block at 0x%x overlaps previous block ending at 0x%x", b.Addr, prevEnd)
		}
		prevEnd = b.Addr + b.Size
	}
	if prevEnd > a.eof {
		return fmt.Errorf("block ending at 0x%x extends past EOF 0x%x", prevEnd, a.eof)
	}
	return nil
}
