// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import "github.com/go-bcast/sditx/tx/internal/regs"

// Mode is the operating rate class of the SDI link.
type Mode uint32

const (
	ModeHD Mode = iota
	ModeSD
	Mode3GA
	Mode3GB
	Mode6G
	Mode12G
)

func (m Mode) String() string {
	switch m {
	case ModeHD:
		return "HD"
	case ModeSD:
		return "SD"
	case Mode3GA:
		return "3GA"
	case Mode3GB:
		return "3GB"
	case Mode6G:
		return "6G"
	case Mode12G:
		return "12G"
	}
	return "INVALID"
}

// encodeMode returns the mode register code for the given rate class.
// The register encoding does not follow the rate-class order, and 3GB
// programs the same code as HD, as observed on silicon.
// Unknown classes fall back to the HD code.
func encodeMode(m Mode) uint32 {
	switch m {
	case ModeSD:
		return regs.MODE_CODE_SD
	case ModeHD:
		return regs.MODE_CODE_HD
	case Mode3GA:
		return regs.MODE_CODE_3GA
	case Mode6G:
		return regs.MODE_CODE_6G
	case Mode12G:
		return regs.MODE_CODE_12G
	default:
		return regs.MODE_CODE_HD
	}
}

// encodeFrac returns the fractional-rate register code: 1 for
// fractional frame rates (29.97, 59.94, ...), 0 for integer ones.
func encodeFrac(frac bool) uint32 {
	if frac {
		return 0x1
	}
	return 0x0
}
