// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import (
	"time"

	"github.com/go-bcast/sditx/tx/internal/regs"
)

// Fault identifies a transport condition reported by the endpoint core.
type Fault uint8

const (
	// FaultLock signals a video lock transition.
	FaultLock Fault = iota
	// FaultOverflow signals the video FIFO overran.
	FaultOverflow
	// FaultUnderflow signals the video FIFO starved.
	FaultUnderflow

	nFaults
)

func (f Fault) String() string {
	switch f {
	case FaultLock:
		return "lock"
	case FaultOverflow:
		return "overflow"
	case FaultUnderflow:
		return "underflow"
	}
	return "fault-?"
}

// faultScan inspects an interrupt status word and returns the asserted
// conditions and the exact bit set to acknowledge. Bits that were not
// asserted are never cleared.
func faultScan(status uint32) (faults []Fault, clear uint32) {
	if status&regs.IRQ_VID_LOCKED != 0 {
		faults = append(faults, FaultLock)
		clear |= regs.IRQ_VID_LOCKED
	}
	if status&regs.IRQ_VID_OVERFLOW != 0 {
		faults = append(faults, FaultOverflow)
		clear |= regs.IRQ_VID_OVERFLOW
	}
	if status&regs.IRQ_VID_UNDERFLOW != 0 {
		faults = append(faults, FaultUnderflow)
		clear |= regs.IRQ_VID_UNDERFLOW
	}
	return faults, clear
}

// warnEvery is the floor between two log lines for the same condition.
const warnEvery = 1 * time.Second

// HandleIRQ services one interrupt from the endpoint core: it reads
// the status word, acknowledges exactly the asserted bits, bumps the
// fault counters and reports each condition through the rate-limited
// log. HandleIRQ runs off the sticky control-path error so it can be
// driven concurrently with the control path.
func (dev *Device) HandleIRQ() error {
	status, err := readReg(dev.rw, regs.IRQ_STATUS)
	if err != nil {
		return err
	}
	if status == 0 {
		return nil
	}

	faults, clear := faultScan(status)
	err = writeReg(dev.rw, regs.IRQ_CLEAR, clear)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, f := range faults {
		n := dev.faults[f].Add(1)

		if f == FaultLock {
			locked, err := readReg(dev.rw, regs.VID_LOCKED)
			if err != nil {
				return err
			}
			dev.locked.Store(locked != 0)
		}

		if now.Sub(dev.lastWarn[f]) < warnEvery {
			continue
		}
		dev.lastWarn[f] = now

		switch f {
		case FaultLock:
			switch {
			case dev.locked.Load():
				dev.msg.Printf("video stream locked (count=%d)", n)
			default:
				dev.msg.Printf("video stream lost lock (count=%d)", n)
			}
		default:
			dev.msg.Printf("video fifo %v (count=%d)", f, n)
		}
	}
	return nil
}

// FaultCount returns how many times the given condition fired since
// the device was opened.
func (dev *Device) FaultCount(f Fault) uint64 {
	if f >= nFaults {
		return 0
	}
	return dev.faults[f].Load()
}
