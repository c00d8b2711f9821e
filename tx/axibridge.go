// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/go-bcast/sditx/internal/mmap"
)

// Register map of the AXI scaler bridge.
const (
	brgSpan = 0x100

	brgInSize  = 0x00
	brgOutSize = 0x04
	brgInFmt   = 0x08
	brgOutFmt  = 0x0C
	brgEnable  = 0x10
)

// AXIBridge drives the upstream scaler core through its own AXI-Lite
// register window. Geometries are packed as width | height<<16.
type AXIBridge struct {
	fd *os.File
	rg *mmap.Region
	rw rwer
}

// NewAXIBridge opens the scaler register window at base through the
// given memory device.
func NewAXIBridge(devmem string, base int64) (*AXIBridge, error) {
	fd, err := os.OpenFile(devmem, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("tx: could not open %q: %w", devmem, err)
	}

	rg, err := mmap.Map(fd, base, brgSpan)
	if err != nil {
		_ = fd.Close()
		return nil, fmt.Errorf("tx: could not map bridge registers: %w", err)
	}

	brg := &AXIBridge{fd: fd, rg: rg, rw: rg}
	return brg, nil
}

func (brg *AXIBridge) write(off int64, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := brg.rw.WriteAt(buf[:], off)
	if err != nil {
		return fmt.Errorf("tx: could not write bridge register 0x%x: %w", off, err)
	}
	return nil
}

func (brg *AXIBridge) SetInput(width, height, format uint32) error {
	err := brg.write(brgInSize, width|height<<16)
	if err != nil {
		return err
	}
	return brg.write(brgInFmt, format)
}

func (brg *AXIBridge) SetOutput(width, height, format uint32) error {
	err := brg.write(brgOutSize, width|height<<16)
	if err != nil {
		return err
	}
	return brg.write(brgOutFmt, format)
}

func (brg *AXIBridge) Enable() error {
	return brg.write(brgEnable, 1)
}

func (brg *AXIBridge) Disable() error {
	return brg.write(brgEnable, 0)
}

// Close releases the register window.
func (brg *AXIBridge) Close() error {
	err1 := brg.rg.Close()
	err2 := brg.fd.Close()
	switch {
	case err1 != nil:
		return fmt.Errorf("tx: could not unmap bridge registers: %w", err1)
	case err2 != nil:
		return fmt.Errorf("tx: could not close memory device: %w", err2)
	}
	return nil
}

var _ Bridge = (*AXIBridge)(nil)
