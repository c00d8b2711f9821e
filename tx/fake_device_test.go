// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/go-bcast/sditx/tx/internal/regs"
)

type regWrite struct {
	off int64
	v   uint32
}

// fakeRW is an in-memory register window. Reads are served from a
// buffer the test seeds, writes are recorded in program order. It is
// safe for concurrent use, like the real window.
type fakeRW struct {
	mu   sync.Mutex
	rbuf [regs.SPAN]byte
	log  []regWrite
}

func (f *fakeRW) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > regs.SPAN {
		return 0, fmt.Errorf("read [0x%x, 0x%x) out of window", off, off+int64(len(p)))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(p, f.rbuf[off:])
	return len(p), nil
}

func (f *fakeRW) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > regs.SPAN {
		return 0, fmt.Errorf("write [0x%x, 0x%x) out of window", off, off+int64(len(p)))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log = append(f.log, regWrite{off, binary.LittleEndian.Uint32(p)})
	return len(p), nil
}

func (f *fakeRW) setReg(off int64, v uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	binary.LittleEndian.PutUint32(f.rbuf[off:], v)
}

// writeIndex returns the index of the first recorded write matching
// the given offset and value, or -1.
func (f *fakeRW) writeIndex(off int64, v uint32) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.log {
		if w.off == off && w.v == v {
			return i
		}
	}
	return -1
}

// lastWrite returns the value of the last recorded write to off.
func (f *fakeRW) lastWrite(off int64) (uint32, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.log) - 1; i >= 0; i-- {
		if f.log[i].off == off {
			return f.log[i].v, true
		}
	}
	return 0, false
}

// numWrites returns the number of recorded writes.
func (f *fakeRW) numWrites() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.log)
}

type fakeBridge struct {
	inputs  []string
	outputs []string
	ons     int
	offs    int

	errSetInput error
	errEnable   error
}

func (brg *fakeBridge) SetInput(width, height, format uint32) error {
	if brg.errSetInput != nil {
		return brg.errSetInput
	}
	brg.inputs = append(brg.inputs, fmt.Sprintf("%dx%d/%d", width, height, format))
	return nil
}

func (brg *fakeBridge) SetOutput(width, height, format uint32) error {
	brg.outputs = append(brg.outputs, fmt.Sprintf("%dx%d/%d", width, height, format))
	return nil
}

func (brg *fakeBridge) Enable() error {
	if brg.errEnable != nil {
		return brg.errEnable
	}
	brg.ons++
	return nil
}

func (brg *fakeBridge) Disable() error {
	brg.offs++
	return nil
}

// newFakeDevice assembles a device over an in-memory register window,
// bypassing /dev/mem.
func newFakeDevice(opts ...Option) (*Device, *fakeRW) {
	cfg := config{
		msg:   log.New(io.Discard, "tx: ", 0),
		modes: stdModes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	rw := new(fakeRW)
	dev := &Device{
		msg:   cfg.msg,
		brg:   cfg.brg,
		rck:   cfg.rck,
		modes: cfg.modes,
		cfg:   defaultParams(),
	}
	dev.bind(rw)
	return dev, rw
}
