// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import (
	"errors"
	"fmt"
	"testing"
)

func TestParams(t *testing.T) {
	for _, tc := range []struct {
		param Param
		value uint32
		err   error
	}{
		{ParamWidthOut, 1, &RangeError{ParamWidthOut, 1, 2, 4096}},
		{ParamWidthOut, 2, nil},
		{ParamWidthOut, 4096, nil},
		{ParamWidthOut, 4097, &RangeError{ParamWidthOut, 4097, 2, 4096}},
		{ParamHeightOut, 1, &RangeError{ParamHeightOut, 1, 2, 4096}},
		{ParamHeightOut, 2160, nil},
		{ParamSDIMode, 5, nil},
		{ParamSDIMode, 6, &RangeError{ParamSDIMode, 6, 0, 5}},
		{ParamDataStreams, 2, nil},
		{ParamDataStreams, 3, &RangeError{ParamDataStreams, 3, 2, 8}},
		{ParamDataStreams, 4, nil},
		{ParamDataStreams, 7, &RangeError{ParamDataStreams, 7, 2, 8}},
		{ParamDataStreams, 8, nil},
		{ParamDataStreams, 9, &RangeError{ParamDataStreams, 9, 2, 8}},
		{Param420In, 1, nil},
		{Param420In, 2, &RangeError{Param420In, 2, 0, 1}},
		{ParamFracRate, 0, nil},
		{ParamInFmt, 16384, nil},
		{ParamOutFmt, 16385, &RangeError{ParamOutFmt, 16385, 0, 16384}},
		{Param(200), 1, ErrUnknownParam},
	} {
		t.Run(fmt.Sprintf("%v=%d", tc.param, tc.value), func(t *testing.T) {
			cfg := defaultParams()
			err := cfg.set(tc.param, tc.value)
			switch {
			case tc.err == nil:
				if err != nil {
					t.Fatalf("could not set parameter: %+v", err)
				}
				v, err := cfg.get(tc.param)
				if err != nil {
					t.Fatalf("could not get parameter: %+v", err)
				}
				if v != tc.value {
					t.Fatalf("invalid value: got=%d, want=%d", v, tc.value)
				}
			default:
				if err == nil {
					t.Fatalf("expected an error, got nil")
				}
				var rerr *RangeError
				switch {
				case errors.Is(tc.err, ErrUnknownParam):
					if !errors.Is(err, ErrUnknownParam) {
						t.Fatalf("invalid error: got=%+v, want=%+v", err, tc.err)
					}
				case errors.As(err, &rerr):
					if want := tc.err.(*RangeError); *rerr != *want {
						t.Fatalf("invalid error:\ngot= %+v\nwant=%+v", rerr, want)
					}
				default:
					t.Fatalf("invalid error type: %+v", err)
				}
			}
		})
	}
}

func TestParamsRejectKeepsValue(t *testing.T) {
	cfg := defaultParams()
	if err := cfg.set(ParamWidthOut, 1280); err != nil {
		t.Fatalf("could not set parameter: %+v", err)
	}

	err := cfg.set(ParamWidthOut, 4097)
	var rerr *RangeError
	if !errors.As(err, &rerr) {
		t.Fatalf("invalid error type: %+v", err)
	}
	if got, want := rerr.Param, ParamWidthOut; got != want {
		t.Fatalf("invalid param in error: got=%v, want=%v", got, want)
	}
	if got, want := rerr.Value, uint32(4097); got != want {
		t.Fatalf("invalid value in error: got=%d, want=%d", got, want)
	}

	v, err := cfg.get(ParamWidthOut)
	if err != nil {
		t.Fatalf("could not get parameter: %+v", err)
	}
	if got, want := v, uint32(1280); got != want {
		t.Fatalf("stored value changed on rejected set: got=%d, want=%d", got, want)
	}
}

func TestParamDefaults(t *testing.T) {
	cfg := defaultParams()
	for _, tc := range []struct {
		param Param
		want  uint32
	}{
		{ParamSDIMode, uint32(ModeHD)},
		{ParamDataStreams, 2},
		{ParamWidthOut, 1920},
		{ParamHeightOut, 1080},
		{ParamFracRate, 0},
		{Param420In, 0},
		{Param420Out, 0},
	} {
		v, err := cfg.get(tc.param)
		if err != nil {
			t.Fatalf("could not get %v: %+v", tc.param, err)
		}
		if v != tc.want {
			t.Fatalf("invalid default for %v: got=%d, want=%d", tc.param, v, tc.want)
		}
	}
}

func TestParamNames(t *testing.T) {
	if got, want := len(ParamByName), int(nParams); got != want {
		t.Fatalf("invalid number of parameter names: got=%d, want=%d", got, want)
	}
	for name, p := range ParamByName {
		if got := p.String(); got != name {
			t.Fatalf("invalid name for %d: got=%q, want=%q", uint8(p), got, name)
		}
	}
}
