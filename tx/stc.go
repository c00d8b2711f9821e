// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

// Timing-generator sub-block helpers.

func (dev *Device) stcReset() {
	dev.regs.stc.reset.w(1)
}

// stcApply loads a native timing into the signal-configuration
// registers of the timing generator.
func (dev *Device) stcApply(nt NativeTiming) {
	dev.regs.stc.hactive.w(nt.HActive)
	dev.regs.stc.hfporch.w(nt.HFrontPorch)
	dev.regs.stc.hsync.w(nt.HSyncLen)
	dev.regs.stc.hbporch.w(nt.HBackPorch)

	dev.regs.stc.vactive.w(nt.VActive)
	dev.regs.stc.vfporch.w(nt.VFrontPorch)
	dev.regs.stc.vsync.w(nt.VSyncLen)
	dev.regs.stc.vbporch.w(nt.VBackPorch)

	dev.regs.stc.pol.w(nt.Flags)
	dev.regs.stc.pixclk.w(uint32(nt.PixelClock / 1000))
}

func (dev *Device) stcEnable() {
	dev.regs.stc.ctrl.w(1)
}

func (dev *Device) stcDisable() {
	dev.regs.stc.ctrl.w(0)
}

func (dev *Device) stcFsync(on bool) {
	var v uint32
	if on {
		v = 1
	}
	dev.regs.stc.fsync.w(v)
}
