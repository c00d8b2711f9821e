// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-bcast/sditx/tx/internal/regs"
)

type rwer interface {
	io.ReaderAt
	io.WriterAt
}

type reg32 struct {
	r func() uint32
	w func(v uint32)
}

func newReg32(dev *Device, rw rwer, offset int64) reg32 {
	return reg32{
		r: func() uint32 {
			return dev.readU32(rw, offset)
		},
		w: func(v uint32) {
			dev.writeU32(rw, offset, v)
		},
	}
}

// readReg and writeReg use per-call buffers: the fault monitor reads
// registers concurrently with the control path.
func readReg(r io.ReaderAt, off int64) (uint32, error) {
	var buf [4]byte
	_, err := r.ReadAt(buf[:], off)
	if err != nil {
		return 0, fmt.Errorf("tx: could not read register 0x%x: %w", off, err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func writeReg(w io.WriterAt, off int64, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.WriteAt(buf[:], off)
	if err != nil {
		return fmt.Errorf("tx: could not write register 0x%x: %w", off, err)
	}
	return nil
}

func (dev *Device) readU32(r io.ReaderAt, off int64) uint32 {
	if dev.err != nil {
		return 0
	}
	var v uint32
	v, dev.err = readReg(r, off)
	return v
}

func (dev *Device) writeU32(w io.WriterAt, off int64, v uint32) {
	if dev.err != nil {
		return
	}
	dev.err = writeReg(w, off, v)
}

// pins groups the endpoint registers by block.
type pins struct {
	status struct {
		version   reg32
		irq       reg32
		locked    reg32
		overflow  reg32
		underflow reg32
		stream    reg32
		fifoLvl   reg32
		bridge    reg32
	}

	ctrl struct {
		core   reg32
		vid    reg32 // stream formatter
		irqEna reg32
		irqClr reg32
		irqMsk reg32
		sdiEna reg32 // SDI bridge output
		mode   reg32
		frac   reg32
		format reg32
	}

	stc struct {
		reset reg32
		ctrl  reg32
		fsync reg32

		hactive reg32
		hfporch reg32
		hsync   reg32
		hbporch reg32

		vactive reg32
		vfporch reg32
		vsync   reg32
		vbporch reg32

		pol    reg32
		pixclk reg32
	}
}

func (dev *Device) bind(rw rwer) {
	dev.rw = rw

	dev.regs.status.version = newReg32(dev, rw, regs.VERSION)
	dev.regs.status.irq = newReg32(dev, rw, regs.IRQ_STATUS)
	dev.regs.status.locked = newReg32(dev, rw, regs.VID_LOCKED)
	dev.regs.status.overflow = newReg32(dev, rw, regs.VID_OVERFLOW)
	dev.regs.status.underflow = newReg32(dev, rw, regs.VID_UNDERFLOW)
	dev.regs.status.stream = newReg32(dev, rw, regs.VID_STATUS)
	dev.regs.status.fifoLvl = newReg32(dev, rw, regs.VID_FIFO_READ_LEVEL)
	dev.regs.status.bridge = newReg32(dev, rw, regs.SDI_BRIDGE_STATUS)

	dev.regs.ctrl.core = newReg32(dev, rw, regs.CORE_ENABLE)
	dev.regs.ctrl.vid = newReg32(dev, rw, regs.VID_ENABLE)
	dev.regs.ctrl.irqEna = newReg32(dev, rw, regs.IRQ_ENABLE)
	dev.regs.ctrl.irqClr = newReg32(dev, rw, regs.IRQ_CLEAR)
	dev.regs.ctrl.irqMsk = newReg32(dev, rw, regs.IRQ_MASK)
	dev.regs.ctrl.sdiEna = newReg32(dev, rw, regs.SDI_BRIDGE_ENABLE)
	dev.regs.ctrl.mode = newReg32(dev, rw, regs.SDI_MODE)
	dev.regs.ctrl.frac = newReg32(dev, rw, regs.SDI_IS_FRAC)
	dev.regs.ctrl.format = newReg32(dev, rw, regs.SDI_FORMAT)

	dev.regs.stc.reset = newReg32(dev, rw, regs.STC_RESET)
	dev.regs.stc.ctrl = newReg32(dev, rw, regs.STC_CTRL)
	dev.regs.stc.fsync = newReg32(dev, rw, regs.STC_FSYNC)
	dev.regs.stc.hactive = newReg32(dev, rw, regs.STC_HACTIVE)
	dev.regs.stc.hfporch = newReg32(dev, rw, regs.STC_HFPORCH)
	dev.regs.stc.hsync = newReg32(dev, rw, regs.STC_HSYNC)
	dev.regs.stc.hbporch = newReg32(dev, rw, regs.STC_HBPORCH)
	dev.regs.stc.vactive = newReg32(dev, rw, regs.STC_VACTIVE)
	dev.regs.stc.vfporch = newReg32(dev, rw, regs.STC_VFPORCH)
	dev.regs.stc.vsync = newReg32(dev, rw, regs.STC_VSYNC)
	dev.regs.stc.vbporch = newReg32(dev, rw, regs.STC_VBPORCH)
	dev.regs.stc.pol = newReg32(dev, rw, regs.STC_POLARITY)
	dev.regs.stc.pixclk = newReg32(dev, rw, regs.STC_PIXCLK)
}
