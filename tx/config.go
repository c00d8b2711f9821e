// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import (
	"errors"
	"fmt"
	"log"
)

// Param names a tunable transmit parameter.
type Param uint8

const (
	// ParamSDIMode selects the SDI rate class (Mode).
	ParamSDIMode Param = iota
	// ParamDataStreams is the number of SDI data streams.
	ParamDataStreams
	// Param420In flags 4:2:0 chroma on the input side.
	Param420In
	// Param420Out flags 4:2:0 chroma on the output side.
	Param420Out
	// ParamFracRate flags a fractional (1000/1001) frame rate.
	ParamFracRate
	// ParamWidthOut is the output width in pixels.
	ParamWidthOut
	// ParamHeightOut is the output height in lines.
	ParamHeightOut
	// ParamInFmt is the opaque input media bus format code.
	ParamInFmt
	// ParamOutFmt is the opaque output media bus format code.
	ParamOutFmt

	nParams
)

// ParamByName maps the wire-level parameter names to Params.
var ParamByName = map[string]Param{
	"sdi_mode":        ParamSDIMode,
	"sdi_data_stream": ParamDataStreams,
	"sdi_420_in":      Param420In,
	"sdi_420_out":     Param420Out,
	"is_frac":         ParamFracRate,
	"width_out":       ParamWidthOut,
	"height_out":      ParamHeightOut,
	"in_fmt":          ParamInFmt,
	"out_fmt":         ParamOutFmt,
}

func (p Param) String() string {
	for k, v := range ParamByName {
		if v == p {
			return k
		}
	}
	return fmt.Sprintf("Param(%d)", uint8(p))
}

// RangeError reports a parameter value outside its admissible range.
type RangeError struct {
	Param Param
	Value uint32
	Min   uint32
	Max   uint32
}

func (e *RangeError) Error() string {
	return fmt.Sprintf(
		"tx: value %d out of range [%d, %d] for parameter %q",
		e.Value, e.Min, e.Max, e.Param,
	)
}

// ErrUnknownParam is returned when a parameter name or index is not known.
var ErrUnknownParam = errors.New("tx: unknown parameter")

type paramRange struct {
	min uint32
	max uint32
}

var paramRanges = [nParams]paramRange{
	ParamSDIMode:     {0, 5},
	ParamDataStreams: {2, 8},
	Param420In:       {0, 1},
	Param420Out:      {0, 1},
	ParamFracRate:    {0, 1},
	ParamWidthOut:    {2, 4096},
	ParamHeightOut:   {2, 4096},
	ParamInFmt:       {0, 16384},
	ParamOutFmt:      {0, 16384},
}

// params holds the staged transmit parameters. Values are validated on
// the way in, so reads never fail.
type params struct {
	v [nParams]uint32
}

func defaultParams() params {
	var p params
	p.v[ParamSDIMode] = uint32(ModeHD)
	p.v[ParamDataStreams] = 2
	p.v[ParamWidthOut] = 1920
	p.v[ParamHeightOut] = 1080
	return p
}

func (p *params) set(k Param, v uint32) error {
	if k >= nParams {
		return fmt.Errorf("%w: %d", ErrUnknownParam, k)
	}
	r := paramRanges[k]
	if v < r.min || v > r.max {
		return &RangeError{Param: k, Value: v, Min: r.min, Max: r.max}
	}
	// Only 2, 4 and 8 data streams are physically meaningful.
	if k == ParamDataStreams && v != 2 && v != 4 && v != 8 {
		return &RangeError{Param: k, Value: v, Min: r.min, Max: r.max}
	}
	p.v[k] = v
	return nil
}

func (p *params) get(k Param) (uint32, error) {
	if k >= nParams {
		return 0, fmt.Errorf("%w: %d", ErrUnknownParam, k)
	}
	return p.v[k], nil
}

func (p *params) mode() Mode  { return Mode(p.v[ParamSDIMode]) }
func (p *params) frac() bool  { return p.v[ParamFracRate] != 0 }
func (p *params) is420() bool { return p.v[Param420Out] != 0 }

func (p *params) streams() uint32 {
	n := p.v[ParamDataStreams]
	if p.mode() == Mode3GB {
		// 3G-B carries stream pairs.
		n /= 2
	}
	return n
}

type config struct {
	msg   *log.Logger
	brg   Bridge
	rck   *Reclocker
	modes []VideoMode
}

// Option configures a transmit device.
type Option func(*config)

// WithLogger sets the logger the device reports through.
func WithLogger(msg *log.Logger) Option {
	return func(cfg *config) {
		cfg.msg = msg
	}
}

// WithBridge attaches the downstream SDI bridge the device drives
// during bring-up and tear-down.
func WithBridge(brg Bridge) Option {
	return func(cfg *config) {
		cfg.brg = brg
	}
}

// WithModes overrides the canonical mode table.
func WithModes(modes []VideoMode) Option {
	return func(cfg *config) {
		cfg.modes = modes
	}
}

// WithReclocker attaches a cable-driver reclocker to retune on rate
// class changes.
func WithReclocker(rck *Reclocker) Option {
	return func(cfg *config) {
		cfg.rck = rck
	}
}
