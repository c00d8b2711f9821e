// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import (
	"fmt"

	"github.com/go-daq/smbus"
)

// Cable-driver register map.
const (
	reclkRegSlew = 0x00
	reclkRegEna  = 0x01
)

// Slew-rate codes per rate class.
const (
	reclkSlewSD = 0x0
	reclkSlewHD = 0x1
	reclkSlewMG = 0x2 // 6G and above
)

// Reclocker drives the SMBus-attached cable driver that reclocks the
// serial output. The slew rate must follow the SDI rate class.
type Reclocker struct {
	conn *smbus.Conn
	addr uint8
}

// NewReclocker opens the cable driver on the given SMBus bus and
// address.
func NewReclocker(bus int, addr uint8) (*Reclocker, error) {
	conn, err := smbus.Open(bus, addr)
	if err != nil {
		return nil, fmt.Errorf("tx: could not open cable driver on bus %d: %w", bus, err)
	}
	return &Reclocker{conn: conn, addr: addr}, nil
}

// Tune programs the slew rate for the given rate class and enables the
// output.
func (rck *Reclocker) Tune(mode Mode) error {
	var slew uint8
	switch mode {
	case ModeSD:
		slew = reclkSlewSD
	case ModeHD, Mode3GA, Mode3GB:
		slew = reclkSlewHD
	case Mode6G, Mode12G:
		slew = reclkSlewMG
	default:
		return fmt.Errorf("tx: no cable driver tuning for mode %v", mode)
	}
	err := rck.conn.WriteReg(rck.addr, reclkRegSlew, slew)
	if err != nil {
		return fmt.Errorf("tx: could not tune cable driver for %v: %w", mode, err)
	}
	err = rck.conn.WriteReg(rck.addr, reclkRegEna, 1)
	if err != nil {
		return fmt.Errorf("tx: could not enable cable driver: %w", err)
	}
	return nil
}

// Mute disables the cable driver output.
func (rck *Reclocker) Mute() error {
	err := rck.conn.WriteReg(rck.addr, reclkRegEna, 0)
	if err != nil {
		return fmt.Errorf("tx: could not mute cable driver: %w", err)
	}
	return nil
}

// Close releases the SMBus connection.
func (rck *Reclocker) Close() error {
	return rck.conn.Close()
}
