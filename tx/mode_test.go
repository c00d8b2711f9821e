// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import (
	"testing"

	"github.com/go-bcast/sditx/tx/internal/regs"
)

func TestEncodeMode(t *testing.T) {
	for _, tc := range []struct {
		mode Mode
		want uint32
	}{
		{ModeSD, regs.MODE_CODE_SD},
		{ModeHD, regs.MODE_CODE_HD},
		{Mode3GA, regs.MODE_CODE_3GA},
		// 3G-B programs the HD code.
		{Mode3GB, regs.MODE_CODE_HD},
		{Mode6G, regs.MODE_CODE_6G},
		{Mode12G, regs.MODE_CODE_12G},
		{Mode(42), regs.MODE_CODE_HD},
	} {
		t.Run(tc.mode.String(), func(t *testing.T) {
			got := encodeMode(tc.mode)
			if got != tc.want {
				t.Fatalf("invalid mode code for %v: got=0x%x, want=0x%x",
					tc.mode, got, tc.want,
				)
			}
		})
	}
}

func TestEncodeFrac(t *testing.T) {
	if got, want := encodeFrac(true), uint32(1); got != want {
		t.Fatalf("invalid frac code: got=%d, want=%d", got, want)
	}
	if got, want := encodeFrac(false), uint32(0); got != want {
		t.Fatalf("invalid frac code: got=%d, want=%d", got, want)
	}
}

func TestModeString(t *testing.T) {
	for _, tc := range []struct {
		mode Mode
		want string
	}{
		{ModeHD, "HD"},
		{ModeSD, "SD"},
		{Mode3GA, "3GA"},
		{Mode3GB, "3GB"},
		{Mode6G, "6G"},
		{Mode12G, "12G"},
		{Mode(42), "INVALID"},
	} {
		if got := tc.mode.String(); got != tc.want {
			t.Fatalf("invalid name for mode %d: got=%q, want=%q",
				uint32(tc.mode), got, tc.want,
			)
		}
	}
}

func TestLookupMode(t *testing.T) {
	m, ok := lookupMode(stdModes, 1920, 1080, 60, false)
	if !ok {
		t.Fatalf("could not find 1080p60")
	}
	if got, want := m.Rate, Mode3GA; got != want {
		t.Fatalf("invalid rate class: got=%v, want=%v", got, want)
	}

	m, ok = lookupMode(stdModes, 1920, 1080, 60, true)
	if !ok {
		t.Fatalf("could not find 1080i60")
	}
	if got, want := m.Rate, ModeHD; got != want {
		t.Fatalf("invalid rate class: got=%v, want=%v", got, want)
	}
	if got, want := m.Timing.VActive, uint32(540); got != want {
		t.Fatalf("invalid field height: got=%d, want=%d", got, want)
	}

	_, ok = lookupMode(stdModes, 1921, 1080, 60, false)
	if ok {
		t.Fatalf("unexpected match for 1921x1080")
	}
}
