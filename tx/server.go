// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
)

// device is the transmit-device surface the control server drives.
type device interface {
	SetParam(Param, uint32) error
	SetTiming(DisplayTiming) error
	Enable() error
	Disable() error
	Status() (Status, error)
	Version() (uint32, error)
	Close() error
}

var _ device = (*Device)(nil)

// server allows to control an SDI transmit endpoint.
type server struct {
	ctl net.Listener

	msg    *log.Logger
	devmem string

	newDevice func(devmem string, opts ...Option) (device, error)

	opts []Option
	dev  device
}

// Serve listens on addr and serves transmit control commands for the
// endpoint behind devmem.
func Serve(addr, devmem string, opts ...Option) error {
	srv, err := newServer(addr, devmem, opts...)
	if err != nil {
		return fmt.Errorf("could not create sditx server: %w", err)
	}
	return srv.serve()
}

func newServer(addr, devmem string, opts ...Option) (*server, error) {
	ctl, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not create sditx-ctl server on %q: %w", addr, err)
	}

	srv := &server{
		ctl: ctl,

		msg: log.New(os.Stdout, "sditx-svc: ", 0),

		devmem: devmem,

		newDevice: func(devmem string, opts ...Option) (device, error) {
			return NewDevice(devmem, opts...)
		},

		opts: opts,
	}
	return srv, nil
}

func (srv *server) serve() error {
	defer srv.close()

	for {
		conn, err := srv.ctl.Accept()
		if err != nil {
			return fmt.Errorf("could not accept connection: %w", err)
		}

		err = srv.handle(conn)
		if err != nil {
			srv.msg.Printf("could not run transmit endpoint: %+v", err)
			continue
		}
	}
}

func (srv *server) handle(conn net.Conn) error {
	defer conn.Close()
	srv.msg.Printf("serving %v...", conn.RemoteAddr())
	defer srv.msg.Printf("serving %v... [done]", conn.RemoteAddr())

	srv.dev = nil
	dev, err := srv.newDevice(srv.devmem, srv.opts...)
	if err != nil {
		return fmt.Errorf("could not create transmit device: %w", err)
	}
	defer dev.Close()
	srv.dev = dev

loop:
	for {
		var req struct {
			Name string           `json:"name"`
			Args *json.RawMessage `json:"args"`
		}

		err = json.NewDecoder(conn).Decode(&req)
		if err != nil {
			srv.msg.Printf("could not decode command request: %+v", err)
			srv.reply(conn, err)
			if errors.Is(err, io.EOF) {
				break loop
			}
			continue
		}
		srv.msg.Printf("received request: name=%q", req.Name)

		switch strings.ToLower(req.Name) {
		case "configure":
			var args []struct {
				Name  string `json:"name"`
				Value uint32 `json:"value"`
			}
			err = json.Unmarshal(*req.Args, &args)
			if err != nil {
				srv.msg.Printf("could not decode %q payload: %+v",
					req.Name, err,
				)
				srv.reply(conn, err)
				continue
			}

			for _, arg := range args {
				p, ok := ParamByName[arg.Name]
				if !ok {
					err = fmt.Errorf("%w: %q", ErrUnknownParam, arg.Name)
					srv.msg.Printf("could not configure device: %+v", err)
					break
				}
				err = dev.SetParam(p, arg.Value)
				if err != nil {
					srv.msg.Printf("could not configure device: %+v", err)
					break
				}
			}
			srv.reply(conn, err)

		case "mode-set":
			var args struct {
				Name   string         `json:"name"`
				Timing *DisplayTiming `json:"timing"`
			}
			err = json.Unmarshal(*req.Args, &args)
			if err != nil {
				srv.msg.Printf("could not decode %q payload: %+v",
					req.Name, err,
				)
				srv.reply(conn, err)
				continue
			}

			var timing DisplayTiming
			switch {
			case args.Timing != nil:
				timing = *args.Timing
			case args.Name != "":
				m, ok := ModeByName(StdModes(), args.Name)
				if !ok {
					err = fmt.Errorf("unknown video mode %q", args.Name)
					srv.msg.Printf("could not set mode: %+v", err)
					srv.reply(conn, err)
					continue
				}
				timing = m.Timing
			default:
				err = fmt.Errorf("empty mode-set request")
				srv.reply(conn, err)
				continue
			}

			err = dev.SetTiming(timing)
			srv.reply(conn, err)
			if err != nil {
				srv.msg.Printf("could not set video timing: %+v", err)
				continue
			}

		case "start":
			err = dev.Enable()
			srv.reply(conn, err)
			if err != nil {
				srv.msg.Printf("could not start transmit device: %+v", err)
				continue
			}

		case "status":
			sta, err := dev.Status()
			if err != nil {
				srv.msg.Printf("could not read device status: %+v", err)
				srv.reply(conn, err)
				continue
			}
			srv.replyStatus(conn, sta)

		case "version":
			v, err := dev.Version()
			if err != nil {
				srv.msg.Printf("could not read device version: %+v", err)
				srv.reply(conn, err)
				continue
			}
			srv.replyVersion(conn, v)

		case "stop":
			err = dev.Disable()
			srv.reply(conn, err)
			if err != nil {
				srv.msg.Printf("could not stop transmit device: %+v", err)
				return fmt.Errorf("could not stop transmit device: %w", err)
			}
			break loop

		default:
			srv.msg.Printf("unknown command name=%q, args=%q", req.Name, req.Args)
			err = fmt.Errorf("unknown command %q", req.Name)
			srv.reply(conn, err)
			continue
		}
	}

	return nil
}

func (srv *server) reply(conn net.Conn, err error) {
	rep := struct {
		Msg string `json:"msg"`
	}{"ok"}
	if err != nil {
		rep.Msg = fmt.Sprintf("%+v", err)
	}

	_ = json.NewEncoder(conn).Encode(rep)
}

func (srv *server) replyStatus(conn net.Conn, sta Status) {
	rep := struct {
		Msg    string `json:"msg"`
		Status Status `json:"status"`
	}{"ok", sta}

	_ = json.NewEncoder(conn).Encode(rep)
}

func (srv *server) replyVersion(conn net.Conn, v uint32) {
	rep := struct {
		Msg     string `json:"msg"`
		Version uint32 `json:"version"`
	}{"ok", v}

	_ = json.NewEncoder(conn).Encode(rep)
}

func (srv *server) close() {
	_ = srv.ctl.Close()
}
