// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import (
	"encoding/json"
	"net"
	"strings"
	"testing"
)

// srvDevice is a transmit device over an in-memory register window,
// with the /dev/mem teardown stubbed out.
type srvDevice struct {
	*Device
}

func (dev srvDevice) Close() error { return nil }

func TestServer(t *testing.T) {
	srv, err := newServer("127.0.0.1:0", "/dev/null")
	if err != nil {
		t.Fatalf("could not create server: %+v", err)
	}

	srv.newDevice = func(devmem string, opts ...Option) (device, error) {
		dev, _ := newFakeDevice(WithBridge(new(fakeBridge)))
		return srvDevice{dev}, nil
	}

	go srv.serve()
	defer srv.close()

	conn, err := net.Dial("tcp", srv.ctl.Addr().String())
	if err != nil {
		t.Fatalf("could not dial server: %+v", err)
	}
	defer conn.Close()

	var (
		enc = json.NewEncoder(conn)
		dec = json.NewDecoder(conn)
	)

	type request struct {
		Name string      `json:"name"`
		Args interface{} `json:"args"`
	}
	type keyval struct {
		Name  string `json:"name"`
		Value uint32 `json:"value"`
	}
	type response struct {
		Msg     string  `json:"msg"`
		Status  *Status `json:"status"`
		Version *uint32 `json:"version"`
	}

	send := func(req request) response {
		t.Helper()
		if err := enc.Encode(req); err != nil {
			t.Fatalf("could not send %q request: %+v", req.Name, err)
		}
		var rep response
		if err := dec.Decode(&rep); err != nil {
			t.Fatalf("could not read %q reply: %+v", req.Name, err)
		}
		return rep
	}

	rep := send(request{Name: "configure", Args: []keyval{
		{"sdi_mode", uint32(Mode3GA)},
		{"sdi_data_stream", 4},
	}})
	if got, want := rep.Msg, "ok"; got != want {
		t.Fatalf("could not configure device: %q", got)
	}

	rep = send(request{Name: "configure", Args: []keyval{
		{"width_out", 4097},
	}})
	if !strings.Contains(rep.Msg, "out of range") {
		t.Fatalf("invalid out-of-range reply: %q", rep.Msg)
	}

	rep = send(request{Name: "configure", Args: []keyval{
		{"bogus", 1},
	}})
	if !strings.Contains(rep.Msg, "unknown parameter") {
		t.Fatalf("invalid unknown-parameter reply: %q", rep.Msg)
	}

	rep = send(request{Name: "mode-set", Args: map[string]string{
		"name": "no-such-mode",
	}})
	if !strings.Contains(rep.Msg, "unknown video mode") {
		t.Fatalf("invalid unknown-mode reply: %q", rep.Msg)
	}

	rep = send(request{Name: "mode-set", Args: map[string]string{
		"name": "1920x1080p60",
	}})
	if got, want := rep.Msg, "ok"; got != want {
		t.Fatalf("could not set mode: %q", got)
	}

	rep = send(request{Name: "start", Args: []string{}})
	if got, want := rep.Msg, "ok"; got != want {
		t.Fatalf("could not start device: %q", got)
	}

	rep = send(request{Name: "status", Args: []string{}})
	if got, want := rep.Msg, "ok"; got != want {
		t.Fatalf("could not read status: %q", got)
	}
	if rep.Status == nil {
		t.Fatalf("missing status payload")
	}
	if got, want := rep.Status.State, StateEnabled; got != want {
		t.Fatalf("invalid device state: got=%v, want=%v", got, want)
	}

	rep = send(request{Name: "version", Args: []string{}})
	if got, want := rep.Msg, "ok"; got != want {
		t.Fatalf("could not read version: %q", got)
	}
	if rep.Version == nil {
		t.Fatalf("missing version payload")
	}

	rep = send(request{Name: "not-a-command", Args: []string{}})
	if !strings.Contains(rep.Msg, "unknown command") {
		t.Fatalf("invalid unknown-command reply: %q", rep.Msg)
	}

	rep = send(request{Name: "stop", Args: []string{}})
	if got, want := rep.Msg, "ok"; got != want {
		t.Fatalf("could not stop device: %q", got)
	}
}
