// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regs holds the register map of the SDI transmit endpoint core.
package regs // import "github.com/go-bcast/sditx/tx/internal/regs"

// AXI-Lite window of the endpoint core.
const (
	BASE = 0x8000_0000
	SPAN = 0x1000
)

// Read-only status block.
const (
	VERSION             = 0x00
	IRQ_STATUS          = 0x04
	VID_LOCKED          = 0x08
	VID_OVERFLOW        = 0x0C
	VID_UNDERFLOW       = 0x10
	VID_STATUS          = 0x14
	VID_FIFO_READ_LEVEL = 0x18
	SDI_BRIDGE_STATUS   = 0x1C
)

// Write-only control block.
const (
	CORE_ENABLE       = 0x00
	VID_ENABLE        = 0x04
	IRQ_ENABLE        = 0x08
	IRQ_CLEAR         = 0x0C
	IRQ_MASK          = 0x10
	SDI_BRIDGE_ENABLE = 0x14
	SDI_MODE          = 0x18
	SDI_IS_FRAC       = 0x1C
	SDI_FORMAT        = 0x20
)

// Timing-generator block.
const (
	STC_RESET    = 0x80
	STC_CTRL     = 0x84
	STC_FSYNC    = 0x88
	STC_HACTIVE  = 0x8C
	STC_HFPORCH  = 0x90
	STC_HSYNC    = 0x94
	STC_HBPORCH  = 0x98
	STC_VACTIVE  = 0x9C
	STC_VFPORCH  = 0xA0
	STC_VSYNC    = 0xA4
	STC_VBPORCH  = 0xA8
	STC_POLARITY = 0xAC
	STC_PIXCLK   = 0xB0
)

// Interrupt status/enable bits.
const (
	IRQ_VID_LOCKED    = 1 << 0
	IRQ_VID_OVERFLOW  = 1 << 1
	IRQ_VID_UNDERFLOW = 1 << 2

	// Programmed into IRQ_MASK to select the conditions that raise
	// the line; IRQ_ENABLE is a single on/off bit. Lock is expected
	// to toggle during bring-up and is left out on purpose.
	IRQ_EN_MASK = IRQ_VID_OVERFLOW | IRQ_VID_UNDERFLOW
)

// Timing-generator polarity/interlace flags.
const (
	STC_POL_INTERLACED = 1 << 0
	STC_POL_HSYNC_LOW  = 1 << 1
	STC_POL_VSYNC_LOW  = 1 << 2
)

// SDI mode register codes. The encoding is not sequential in the
// rate-class order.
const (
	MODE_CODE_HD  = 0x0
	MODE_CODE_SD  = 0x1
	MODE_CODE_3GA = 0x2
	MODE_CODE_6G  = 0x4
	MODE_CODE_12G = 0x5
)
