// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmap maps hardware register windows into the process
// address space. Unlike a general-purpose file mapping, a register
// window has no short-access semantics: every read and write must lie
// fully inside the window, and partial transfers are errors.
package mmap // import "github.com/go-bcast/sditx/internal/mmap"

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

var errClosed = errors.New("mmap: closed")

// Region is a memory-mapped register window. The caller owns the
// region and must Close it; regions are not finalized.
type Region struct {
	mem []byte // full page-aligned mapping, nil for wrapped slices
	win []byte // register window inside mem
}

// Map maps span bytes of f starting at the physical address base,
// read-write and shared. The base address does not need to be page
// aligned: the mapping is widened down to the enclosing page
// boundary and the window adjusted inside it.
func Map(f *os.File, base int64, span int) (*Region, error) {
	pg := int64(unix.Getpagesize())
	beg := base &^ (pg - 1)
	off := int(base - beg)

	mem, err := unix.Mmap(
		int(f.Fd()),
		beg, off+span,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
	if err != nil {
		return nil, fmt.Errorf("mmap: could not map 0x%x+0x%x: %w", base, span, err)
	}
	return &Region{mem: mem, win: mem[off : off+span]}, nil
}

// RegionFrom wraps an already mapped byte slice. Close on the
// returned region releases nothing.
func RegionFrom(data []byte) *Region {
	return &Region{win: data}
}

// Close unmaps the window.
func (rg *Region) Close() error {
	if rg == nil {
		return os.ErrInvalid
	}

	mem := rg.mem
	rg.mem = nil
	rg.win = nil
	if mem == nil {
		return nil
	}
	return unix.Munmap(mem)
}

// Len returns the span of the window.
func (rg *Region) Len() int {
	if rg == nil {
		return 0
	}
	return len(rg.win)
}

// ReadAt implements the io.ReaderAt interface. The read must lie
// fully inside the window.
func (rg *Region) ReadAt(p []byte, off int64) (int, error) {
	if rg == nil {
		return 0, os.ErrInvalid
	}
	if rg.win == nil {
		return 0, errClosed
	}
	if off < 0 || off+int64(len(p)) > int64(len(rg.win)) {
		return 0, fmt.Errorf("mmap: read [0x%x, 0x%x) outside window", off, off+int64(len(p)))
	}
	return copy(p, rg.win[off:]), nil
}

// WriteAt implements the io.WriterAt interface. The write must lie
// fully inside the window.
func (rg *Region) WriteAt(p []byte, off int64) (int, error) {
	if rg == nil {
		return 0, os.ErrInvalid
	}
	if rg.win == nil {
		return 0, errClosed
	}
	if off < 0 || off+int64(len(p)) > int64(len(rg.win)) {
		return 0, fmt.Errorf("mmap: write [0x%x, 0x%x) outside window", off, off+int64(len(p)))
	}
	return copy(rg.win[off:], p), nil
}

var (
	_ io.ReaderAt = (*Region)(nil)
	_ io.WriterAt = (*Region)(nil)
	_ io.Closer   = (*Region)(nil)
)
