// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-bcast/sditx/internal/mmap"
	"github.com/go-bcast/sditx/tx/internal/regs"
)

// State is the operating state of a transmit device.
type State uint8

const (
	// StateDisabled: opened, output off, no timing staged.
	StateDisabled State = iota
	// StateConfiguring: a video timing is programmed, commit pending.
	StateConfiguring
	// StateEnabled: the transmit datapath is on.
	StateEnabled
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateConfiguring:
		return "configuring"
	case StateEnabled:
		return "enabled"
	}
	return "state-?"
}

// ErrNotConfigured is returned when the datapath is enabled before a
// video timing was programmed.
var ErrNotConfigured = errors.New("tx: no video timing configured")

// Snapshot is the active video geometry published for the audio
// subsystem to poll.
type Snapshot struct {
	Width      uint32 `json:"width"`
	Height     uint32 `json:"height"`
	Refresh    uint32 `json:"refresh"`
	Interlaced bool   `json:"interlaced"`
	Flags      uint32 `json:"flags"`
}

// Device controls one SDI transmit endpoint through its memory-mapped
// register window.
//
// The control path (SetTiming, Enable, Disable, Status, Close) is not
// safe for concurrent use. HandleIRQ and FaultCount may run
// concurrently with it: they touch only the status and clear
// registers, with their own buffers, and the fault state is atomic.
// HandleIRQ itself is not reentrant.
type Device struct {
	msg *log.Logger

	mem struct {
		fd *os.File
		rg *mmap.Region
	}

	err error
	rw  rwer

	regs pins

	cfg   params
	brg   Bridge
	rck   *Reclocker
	modes []VideoMode

	state  State
	locked atomic.Bool

	faults   [nFaults]atomic.Uint64
	lastWarn [nFaults]time.Time

	video struct {
		timing DisplayTiming
		nt     NativeTiming
		snap   Snapshot
		ok     bool
	}
}

// NewDevice opens the endpoint register window through the given
// memory device (typically /dev/mem) and quiesces its interrupts.
func NewDevice(devmem string, opts ...Option) (*Device, error) {
	cfg := config{
		msg:   log.New(os.Stdout, "tx: ", 0),
		modes: stdModes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	fd, err := os.OpenFile(devmem, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("tx: could not open %q: %w", devmem, err)
	}
	defer func() {
		if err != nil {
			_ = fd.Close()
		}
	}()

	rg, err := mmap.Map(fd, regs.BASE, regs.SPAN)
	if err != nil {
		return nil, fmt.Errorf("tx: could not map registers: %w", err)
	}
	defer func() {
		if err != nil {
			_ = rg.Close()
		}
	}()

	dev := &Device{
		msg:   cfg.msg,
		brg:   cfg.brg,
		rck:   cfg.rck,
		modes: cfg.modes,
		cfg:   defaultParams(),
	}
	dev.mem.fd = fd
	dev.mem.rg = rg
	dev.bind(rg)

	dev.regs.ctrl.irqEna.w(0)
	if dev.err != nil {
		err = dev.err
		return nil, fmt.Errorf("tx: could not quiesce interrupts: %w", err)
	}

	return dev, nil
}

// SetParam stages the value of a transmit parameter. Staged values
// take effect on the next SetTiming pass.
func (dev *Device) SetParam(k Param, v uint32) error {
	return dev.cfg.set(k, v)
}

// GetParam returns the staged value of a transmit parameter.
func (dev *Device) GetParam(k Param) (uint32, error) {
	return dev.cfg.get(k)
}

// SetTiming programs the endpoint for a new video timing: the bridge
// is reconfigured and enabled, fault interrupts armed, the timing
// generator reset and loaded, and the mode registers written. The
// output itself stays off until Enable commits.
//
// When the geometry and refresh rate match a canonical SDI mode, the
// canonical timing replaces the caller's.
func (dev *Device) SetTiming(t DisplayTiming) error {
	if dev.err != nil {
		return dev.err
	}

	h := t.VActive
	if t.Interlaced {
		h *= 2
	}
	if err := dev.pushBridge(t.HActive, h); err != nil {
		return err
	}

	if m, ok := lookupMode(dev.modes, t.HActive, h, t.Refresh, t.Interlaced); ok {
		dev.msg.Printf("using canonical timing %q", m.Name)
		t = m.Timing
	}

	// The mask register selects the conditions allowed to raise the
	// line, the enable register is a single on/off bit.
	dev.regs.ctrl.irqClr.w(regs.IRQ_VID_LOCKED | regs.IRQ_EN_MASK)
	dev.regs.ctrl.irqMsk.w(regs.IRQ_EN_MASK)
	dev.regs.ctrl.irqEna.w(1)

	dev.stcReset()

	dev.regs.ctrl.mode.w(encodeMode(dev.cfg.mode()))
	dev.regs.ctrl.frac.w(encodeFrac(dev.cfg.frac()))
	dev.regs.ctrl.format.w(dev.cfg.streams())

	nt := Translate(t)
	dev.stcApply(nt)
	if dev.err != nil {
		return dev.err
	}

	dev.video.timing = t
	dev.video.nt = nt
	dev.video.snap = Snapshot{
		Width:      t.HActive,
		Height:     h,
		Refresh:    t.Refresh,
		Interlaced: t.Interlaced,
		Flags:      nt.Flags,
	}
	dev.video.ok = true
	dev.state = StateConfiguring
	return nil
}

func (dev *Device) pushBridge(width, height uint32) error {
	if dev.brg == nil {
		return ErrBridgeUnavailable
	}

	err := dev.brg.SetInput(width, height, dev.cfg.v[ParamInFmt])
	if err != nil {
		return fmt.Errorf("tx: could not set bridge input: %w", err)
	}

	err = dev.brg.SetOutput(dev.cfg.v[ParamWidthOut], dev.cfg.v[ParamHeightOut], dev.cfg.v[ParamOutFmt])
	if err != nil {
		return fmt.Errorf("tx: could not set bridge output: %w", err)
	}

	err = dev.brg.Enable()
	if err != nil {
		return fmt.Errorf("tx: could not enable bridge: %w", err)
	}
	return nil
}

// ActiveTiming returns the programmed video timing, if any.
func (dev *Device) ActiveTiming() (DisplayTiming, bool) {
	return dev.video.timing, dev.video.ok
}

// AudioSnapshot returns the geometry snapshot of the programmed video
// stream.
func (dev *Device) AudioSnapshot() (Snapshot, bool) {
	return dev.video.snap, dev.video.ok
}

// Enable commits the programmed configuration and turns the transmit
// datapath on: endpoint core first, then the SDI bridge output, the
// timing generator, its frame sync, and the stream formatter last.
// Enabling the formatter before the timing generator runs corrupts
// the output.
func (dev *Device) Enable() error {
	if dev.err != nil {
		return dev.err
	}
	switch dev.state {
	case StateDisabled:
		return ErrNotConfigured
	case StateEnabled:
		return fmt.Errorf("tx: device already enabled")
	}

	dev.regs.ctrl.core.w(1)
	dev.regs.ctrl.sdiEna.w(1)
	dev.stcEnable()
	dev.stcFsync(true)
	dev.regs.ctrl.vid.w(1)
	if dev.err != nil {
		return dev.err
	}

	if dev.rck != nil {
		if err := dev.rck.Tune(dev.cfg.mode()); err != nil {
			return err
		}
	}

	dev.state = StateEnabled
	dev.msg.Printf(
		"transmit on: mode=%v streams=%d pixclk=%d Hz",
		dev.cfg.mode(), dev.cfg.v[ParamDataStreams], dev.video.nt.PixelClock,
	)
	return nil
}

// Disable tears the transmit datapath down in the reverse dependency
// order: bridge first, then interrupts and core, the stream
// formatter, the SDI bridge output, and the timing generator last.
// Disable on a device that is already off is a no-op.
func (dev *Device) Disable() error {
	if dev.state == StateDisabled {
		return nil
	}
	if dev.err != nil {
		return dev.err
	}

	if dev.brg != nil {
		if err := dev.brg.Disable(); err != nil {
			dev.msg.Printf("could not disable bridge: %+v", err)
		}
	}
	if dev.rck != nil {
		if err := dev.rck.Mute(); err != nil {
			dev.msg.Printf("could not mute cable driver: %+v", err)
		}
	}

	dev.regs.ctrl.core.w(0)
	dev.regs.ctrl.irqEna.w(0)
	dev.regs.ctrl.vid.w(0)
	dev.regs.ctrl.sdiEna.w(0)
	dev.stcFsync(false)
	dev.stcDisable()
	if dev.err != nil {
		return dev.err
	}

	dev.state = StateDisabled
	dev.msg.Printf("transmit off")
	return nil
}

// Status is a snapshot of the endpoint core status block.
type Status struct {
	State     State  `json:"state"`
	Locked    bool   `json:"locked"`
	Stream    uint32 `json:"stream"`
	FifoLevel uint32 `json:"fifo-level"`
	Bridge    uint32 `json:"bridge"`
	Overflow  uint64 `json:"overflow"`
	Underflow uint64 `json:"underflow"`
}

// Status reads the endpoint status block.
func (dev *Device) Status() (Status, error) {
	sta := Status{
		State:     dev.state,
		Locked:    dev.regs.status.locked.r() != 0,
		Stream:    dev.regs.status.stream.r(),
		FifoLevel: dev.regs.status.fifoLvl.r(),
		Bridge:    dev.regs.status.bridge.r(),
		Overflow:  dev.faults[FaultOverflow].Load(),
		Underflow: dev.faults[FaultUnderflow].Load(),
	}
	if dev.err != nil {
		return Status{}, dev.err
	}
	dev.locked.Store(sta.Locked)
	return sta, nil
}

// Version reads the hardware version register.
func (dev *Device) Version() (uint32, error) {
	v := dev.regs.status.version.r()
	if dev.err != nil {
		return 0, dev.err
	}
	return v, nil
}

// State returns the current operating state.
func (dev *Device) State() State {
	return dev.state
}

// Close stops the datapath if needed and releases the register
// window. Close is safe to call after a partial bring-up. The device
// is unusable afterwards.
func (dev *Device) Close() error {
	if err := dev.Disable(); err != nil {
		dev.msg.Printf("could not disable device: %+v", err)
	}

	dev.err = nil
	dev.regs.ctrl.irqEna.w(0)

	err1 := dev.mem.rg.Close()
	err2 := dev.mem.fd.Close()
	switch {
	case err1 != nil:
		return fmt.Errorf("tx: could not unmap registers: %w", err1)
	case err2 != nil:
		return fmt.Errorf("tx: could not close memory device: %w", err2)
	}
	return nil
}
