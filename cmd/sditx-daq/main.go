// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sditx-daq exposes an SDI transmit endpoint as a TDAQ
// process, so a run-control server can sequence it together with the
// rest of the broadcast chain.
package main // import "github.com/go-bcast/sditx/cmd/sditx-daq"

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"

	"github.com/go-bcast/sditx/tx"
)

func main() {
	cmd := flags.New()

	node := &txnode{
		devmem:  "/dev/mem",
		brgBase: 0x8001_0000,
	}

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", node.OnConfig)
	srv.CmdHandle("/init", node.OnInit)
	srv.CmdHandle("/reset", node.OnReset)
	srv.CmdHandle("/start", node.OnStart)
	srv.CmdHandle("/stop", node.OnStop)
	srv.CmdHandle("/quit", node.OnQuit)

	srv.RunHandle(node.run)

	err := srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

type txnode struct {
	devmem  string
	brgBase int64

	brg *tx.AXIBridge
	dev *tx.Device

	mode   string
	params []param
}

type param struct {
	name  string
	value uint32
}

func (node *txnode) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")

	dec := tdaq.NewDecoder(bytes.NewReader(req.Body))
	node.mode = dec.ReadStr()
	n := int(dec.ReadU32())

	node.params = node.params[:0]
	for i := 0; i < n; i++ {
		name := dec.ReadStr()
		value := dec.ReadU32()
		node.params = append(node.params, param{name, value})
	}

	ctx.Msg.Infof("configured: mode=%q params=%d", node.mode, n)
	return nil
}

func (node *txnode) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")

	if node.dev != nil {
		return nil
	}

	brg, err := tx.NewAXIBridge(node.devmem, node.brgBase)
	if err != nil {
		ctx.Msg.Errorf("could not open scaler bridge: %+v", err)
		return err
	}

	dev, err := tx.NewDevice(node.devmem, tx.WithBridge(brg))
	if err != nil {
		_ = brg.Close()
		ctx.Msg.Errorf("could not open transmit device: %+v", err)
		return err
	}

	node.brg = brg
	node.dev = dev

	v, err := dev.Version()
	if err != nil {
		return err
	}
	ctx.Msg.Infof("transmit endpoint version 0x%x", v)
	return nil
}

func (node *txnode) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	if node.dev == nil {
		return nil
	}
	return node.dev.Disable()
}

func (node *txnode) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	if node.dev == nil {
		return fmt.Errorf("sditx-daq: device not initialized")
	}

	for _, p := range node.params {
		k, ok := tx.ParamByName[p.name]
		if !ok {
			return fmt.Errorf("sditx-daq: unknown parameter %q", p.name)
		}
		err := node.dev.SetParam(k, p.value)
		if err != nil {
			return err
		}
	}

	m, ok := tx.ModeByName(tx.StdModes(), node.mode)
	if !ok {
		return fmt.Errorf("sditx-daq: unknown video mode %q", node.mode)
	}

	err := node.dev.SetTiming(m.Timing)
	if err != nil {
		return err
	}

	err = node.dev.Enable()
	if err != nil {
		return err
	}

	ctx.Msg.Infof("transmitting %q", node.mode)
	return nil
}

func (node *txnode) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /stop command...")
	if node.dev == nil {
		return nil
	}
	return node.dev.Disable()
}

func (node *txnode) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	if node.dev == nil {
		return nil
	}

	err := node.dev.Close()
	if err != nil {
		ctx.Msg.Errorf("could not close transmit device: %+v", err)
	}
	if node.brg != nil {
		if err := node.brg.Close(); err != nil {
			ctx.Msg.Errorf("could not close scaler bridge: %+v", err)
		}
	}
	node.dev = nil
	node.brg = nil
	return err
}

// run polls the interrupt status while the endpoint transmits, so
// overflow and underflow faults are serviced and counted.
func (node *txnode) run(ctx tdaq.Context) error {
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Ctx.Done():
			return nil
		case <-tick.C:
			if node.dev == nil || node.dev.State() != tx.StateEnabled {
				continue
			}
			if err := node.dev.HandleIRQ(); err != nil {
				ctx.Msg.Errorf("could not service endpoint irq: %+v", err)
			}
		}
	}
}
