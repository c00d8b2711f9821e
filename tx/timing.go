// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import "github.com/go-bcast/sditx/tx/internal/regs"

// The transport datapath is fixed at 2 pixels per clock: horizontal
// timings are programmed in clock units, not pixel units.
const pixPerClk = 2

// DisplayTiming is a negotiated display timing, in pixel/line units.
//
// For interlaced timings the vertical active, porches and sync length
// are per-field, while VTotal records the line count of the full
// frame.
type DisplayTiming struct {
	HActive     uint32 `json:"hactive"`
	HFrontPorch uint32 `json:"hfront"`
	HSyncLen    uint32 `json:"hsync"`
	HBackPorch  uint32 `json:"hback"`
	HTotal      uint32 `json:"htotal"`

	VActive     uint32 `json:"vactive"`
	VFrontPorch uint32 `json:"vfront"`
	VSyncLen    uint32 `json:"vsync"`
	VBackPorch  uint32 `json:"vback"`
	VTotal      uint32 `json:"vtotal"`

	Clock   uint32 `json:"clock"`   // pixel clock, in kHz
	Refresh uint32 `json:"refresh"` // in Hz

	Interlaced bool `json:"interlaced"`
	HSyncPos   bool `json:"hsync-pos"`
	VSyncPos   bool `json:"vsync-pos"`
}

// hblank returns the horizontal blanking budget, in pixels.
func (t DisplayTiming) hblank() uint32 {
	return t.HFrontPorch + t.HSyncLen + t.HBackPorch
}

// vsyncEnd returns the line on which vertical sync ends.
func (t DisplayTiming) vsyncEnd() uint32 {
	return t.VActive + t.VFrontPorch + t.VSyncLen
}

// NativeTiming is a display timing in the units the timing generator
// is programmed with: horizontal fields in clock units, vertical
// fields in lines, pixel clock in Hz.
type NativeTiming struct {
	HActive     uint32
	HFrontPorch uint32
	HSyncLen    uint32
	HBackPorch  uint32

	VActive     uint32
	VFrontPorch uint32
	VSyncLen    uint32
	VBackPorch  uint32

	Flags      uint32
	PixelClock uint64 // in Hz
}

// hblank returns the horizontal blanking total, in clock units.
func (t NativeTiming) hblank() uint32 {
	return t.HFrontPorch + t.HSyncLen + t.HBackPorch
}

// Translate converts a display timing into the native parameters of
// the timing generator.
//
// Translate performs no bounds validation: horizontal fields are
// assumed pre-aligned to the 2 pixel-per-clock datapath, and a
// degenerate timing with zero blanking is the caller's problem.
// After translation the native horizontal blanking total, scaled back
// to pixel units, is never less than the source blanking budget: the
// front porch is widened until the budget is covered. Equality is not
// guaranteed for odd-porch inputs.
func Translate(mode DisplayTiming) NativeTiming {
	var nt NativeTiming

	nt.HActive = mode.HActive / pixPerClk
	nt.HFrontPorch = mode.HFrontPorch / pixPerClk
	nt.HSyncLen = mode.HSyncLen / pixPerClk
	nt.HBackPorch = mode.HBackPorch / pixPerClk

	nt.VActive = mode.VActive
	nt.VFrontPorch = mode.VFrontPorch
	nt.VSyncLen = mode.VSyncLen

	switch {
	case mode.Interlaced:
		// VTotal counts the full frame, the generator wants the
		// back porch of the first field.
		switch mode.VTotal {
		case 1125:
			nt.VBackPorch = 562 - mode.vsyncEnd()
		case 625:
			nt.VBackPorch = 312 - mode.vsyncEnd()
		case 525:
			nt.VBackPorch = 262 - mode.vsyncEnd()
		default:
			nt.VBackPorch = mode.VTotal - mode.vsyncEnd()
		}
	default:
		nt.VBackPorch = mode.VTotal - mode.vsyncEnd()
	}

	if mode.Interlaced {
		nt.Flags |= regs.STC_POL_INTERLACED
	}
	if mode.HSyncPos {
		nt.Flags |= regs.STC_POL_HSYNC_LOW
	}
	if mode.VSyncPos {
		nt.Flags |= regs.STC_POL_VSYNC_LOW
	}

	// Integer division of the three blanking components loses up to
	// one clock each. Widen the front porch until the native blanking
	// covers the source budget.
	blank := mode.hblank()
	for nt.hblank()*pixPerClk < blank {
		nt.HFrontPorch++
	}

	nt.PixelClock = uint64(mode.Clock) * 1000

	return nt
}
