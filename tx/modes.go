// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

// VideoMode is a canonical SDI mode: a display geometry and refresh
// rate with the facility-approved timing and rate class behind it.
type VideoMode struct {
	Name    string
	Rate    Mode
	Width   uint32
	Height  uint32
	Refresh uint32

	Timing DisplayTiming
}

// stdModes is the table of canonical SDI timings. When a negotiated
// output geometry and refresh matches an entry, the entry's timing
// wins over the caller's.
var stdModes = []VideoMode{
	{
		Name: "720x480i60", Rate: ModeSD, Width: 720, Height: 480, Refresh: 60,
		Timing: DisplayTiming{
			HActive: 720, HFrontPorch: 19, HSyncLen: 62, HBackPorch: 57, HTotal: 858,
			VActive: 240, VFrontPorch: 4, VSyncLen: 3, VBackPorch: 15, VTotal: 525,
			Clock: 13500, Refresh: 60, Interlaced: true,
		},
	},
	{
		Name: "720x576i50", Rate: ModeSD, Width: 720, Height: 576, Refresh: 50,
		Timing: DisplayTiming{
			HActive: 720, HFrontPorch: 12, HSyncLen: 63, HBackPorch: 69, HTotal: 864,
			VActive: 288, VFrontPorch: 2, VSyncLen: 3, VBackPorch: 19, VTotal: 625,
			Clock: 13500, Refresh: 50, Interlaced: true,
		},
	},
	{
		Name: "1280x720p50", Rate: ModeHD, Width: 1280, Height: 720, Refresh: 50,
		Timing: DisplayTiming{
			HActive: 1280, HFrontPorch: 440, HSyncLen: 40, HBackPorch: 220, HTotal: 1980,
			VActive: 720, VFrontPorch: 5, VSyncLen: 5, VBackPorch: 20, VTotal: 750,
			Clock: 74250, Refresh: 50, HSyncPos: true, VSyncPos: true,
		},
	},
	{
		Name: "1280x720p60", Rate: ModeHD, Width: 1280, Height: 720, Refresh: 60,
		Timing: DisplayTiming{
			HActive: 1280, HFrontPorch: 110, HSyncLen: 40, HBackPorch: 220, HTotal: 1650,
			VActive: 720, VFrontPorch: 5, VSyncLen: 5, VBackPorch: 20, VTotal: 750,
			Clock: 74250, Refresh: 60, HSyncPos: true, VSyncPos: true,
		},
	},
	{
		Name: "1920x1080i50", Rate: ModeHD, Width: 1920, Height: 1080, Refresh: 50,
		Timing: DisplayTiming{
			HActive: 1920, HFrontPorch: 528, HSyncLen: 44, HBackPorch: 148, HTotal: 2640,
			VActive: 540, VFrontPorch: 2, VSyncLen: 5, VBackPorch: 15, VTotal: 1125,
			Clock: 74250, Refresh: 50, Interlaced: true, HSyncPos: true, VSyncPos: true,
		},
	},
	{
		Name: "1920x1080i60", Rate: ModeHD, Width: 1920, Height: 1080, Refresh: 60,
		Timing: DisplayTiming{
			HActive: 1920, HFrontPorch: 88, HSyncLen: 44, HBackPorch: 148, HTotal: 2200,
			VActive: 540, VFrontPorch: 2, VSyncLen: 5, VBackPorch: 15, VTotal: 1125,
			Clock: 74250, Refresh: 60, Interlaced: true, HSyncPos: true, VSyncPos: true,
		},
	},
	{
		Name: "1920x1080p24", Rate: ModeHD, Width: 1920, Height: 1080, Refresh: 24,
		Timing: DisplayTiming{
			HActive: 1920, HFrontPorch: 638, HSyncLen: 44, HBackPorch: 148, HTotal: 2750,
			VActive: 1080, VFrontPorch: 4, VSyncLen: 5, VBackPorch: 36, VTotal: 1125,
			Clock: 74250, Refresh: 24, HSyncPos: true, VSyncPos: true,
		},
	},
	{
		Name: "1920x1080p25", Rate: ModeHD, Width: 1920, Height: 1080, Refresh: 25,
		Timing: DisplayTiming{
			HActive: 1920, HFrontPorch: 528, HSyncLen: 44, HBackPorch: 148, HTotal: 2640,
			VActive: 1080, VFrontPorch: 4, VSyncLen: 5, VBackPorch: 36, VTotal: 1125,
			Clock: 74250, Refresh: 25, HSyncPos: true, VSyncPos: true,
		},
	},
	{
		Name: "1920x1080p30", Rate: ModeHD, Width: 1920, Height: 1080, Refresh: 30,
		Timing: DisplayTiming{
			HActive: 1920, HFrontPorch: 88, HSyncLen: 44, HBackPorch: 148, HTotal: 2200,
			VActive: 1080, VFrontPorch: 4, VSyncLen: 5, VBackPorch: 36, VTotal: 1125,
			Clock: 74250, Refresh: 30, HSyncPos: true, VSyncPos: true,
		},
	},
	{
		Name: "1920x1080p50", Rate: Mode3GA, Width: 1920, Height: 1080, Refresh: 50,
		Timing: DisplayTiming{
			HActive: 1920, HFrontPorch: 528, HSyncLen: 44, HBackPorch: 148, HTotal: 2640,
			VActive: 1080, VFrontPorch: 4, VSyncLen: 5, VBackPorch: 36, VTotal: 1125,
			Clock: 148500, Refresh: 50, HSyncPos: true, VSyncPos: true,
		},
	},
	{
		Name: "1920x1080p60", Rate: Mode3GA, Width: 1920, Height: 1080, Refresh: 60,
		Timing: DisplayTiming{
			HActive: 1920, HFrontPorch: 88, HSyncLen: 44, HBackPorch: 148, HTotal: 2200,
			VActive: 1080, VFrontPorch: 4, VSyncLen: 5, VBackPorch: 36, VTotal: 1125,
			Clock: 148500, Refresh: 60, HSyncPos: true, VSyncPos: true,
		},
	},
	{
		Name: "3840x2160p25", Rate: Mode6G, Width: 3840, Height: 2160, Refresh: 25,
		Timing: DisplayTiming{
			HActive: 3840, HFrontPorch: 1056, HSyncLen: 88, HBackPorch: 296, HTotal: 5280,
			VActive: 2160, VFrontPorch: 8, VSyncLen: 10, VBackPorch: 72, VTotal: 2250,
			Clock: 297000, Refresh: 25, HSyncPos: true, VSyncPos: true,
		},
	},
	{
		Name: "3840x2160p30", Rate: Mode6G, Width: 3840, Height: 2160, Refresh: 30,
		Timing: DisplayTiming{
			HActive: 3840, HFrontPorch: 176, HSyncLen: 88, HBackPorch: 296, HTotal: 4400,
			VActive: 2160, VFrontPorch: 8, VSyncLen: 10, VBackPorch: 72, VTotal: 2250,
			Clock: 297000, Refresh: 30, HSyncPos: true, VSyncPos: true,
		},
	},
	{
		Name: "3840x2160p50", Rate: Mode12G, Width: 3840, Height: 2160, Refresh: 50,
		Timing: DisplayTiming{
			HActive: 3840, HFrontPorch: 1056, HSyncLen: 88, HBackPorch: 296, HTotal: 5280,
			VActive: 2160, VFrontPorch: 8, VSyncLen: 10, VBackPorch: 72, VTotal: 2250,
			Clock: 594000, Refresh: 50, HSyncPos: true, VSyncPos: true,
		},
	},
	{
		Name: "3840x2160p60", Rate: Mode12G, Width: 3840, Height: 2160, Refresh: 60,
		Timing: DisplayTiming{
			HActive: 3840, HFrontPorch: 176, HSyncLen: 88, HBackPorch: 296, HTotal: 4400,
			VActive: 2160, VFrontPorch: 8, VSyncLen: 10, VBackPorch: 72, VTotal: 2250,
			Clock: 594000, Refresh: 60, HSyncPos: true, VSyncPos: true,
		},
	},
}

// StdModes returns a copy of the canonical SDI mode table.
func StdModes() []VideoMode {
	modes := make([]VideoMode, len(stdModes))
	copy(modes, stdModes)
	return modes
}

// ModeByName returns the canonical mode with the given name.
func ModeByName(modes []VideoMode, name string) (VideoMode, bool) {
	for _, m := range modes {
		if m.Name == name {
			return m, true
		}
	}
	return VideoMode{}, false
}

func lookupMode(modes []VideoMode, w, h, refresh uint32, ilace bool) (VideoMode, bool) {
	for _, m := range modes {
		if m.Width == w && m.Height == h && m.Refresh == refresh &&
			m.Timing.Interlaced == ilace {
			return m, true
		}
	}
	return VideoMode{}, false
}
