// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sditx-ctl is an interactive client for the sditx-srv
// control service.
//
// Supported commands:
//
//	set <param> <value>   stage a transmit parameter
//	mode <name>           select a canonical video mode
//	start                 enable the transmit output
//	stop                  disable the transmit output
//	status                print the endpoint status
//	version               print the endpoint core version
//	quit                  leave
package main // import "github.com/go-bcast/sditx/cmd/sditx-ctl"

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/go-bcast/sditx/tx"
)

func main() {
	var (
		addr = flag.String("addr", "localhost:9999", "address of the sditx-srv service")
	)

	log.SetPrefix("sditx-ctl: ")
	log.SetFlags(0)

	flag.Parse()

	err := run(*addr)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

type request struct {
	Name string      `json:"name"`
	Args interface{} `json:"args"`
}

type keyval struct {
	Name  string `json:"name"`
	Value uint32 `json:"value"`
}

type response struct {
	Msg     string     `json:"msg"`
	Status  *tx.Status `json:"status"`
	Version *uint32    `json:"version"`
}

func run(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not dial %q: %w", addr, err)
	}
	defer conn.Close()

	var (
		enc = json.NewEncoder(conn)
		dec = json.NewDecoder(conn)
	)

	term := liner.NewLiner()
	defer term.Close()
	term.SetCtrlCAborts(true)
	term.SetCompleter(func(line string) []string {
		var out []string
		for _, cmd := range []string{
			"set", "mode", "start", "stop",
			"status", "version", "quit", "exit",
		} {
			if strings.HasPrefix(cmd, strings.ToLower(line)) {
				out = append(out, cmd)
			}
		}
		return out
	})

	for {
		line, err := term.Prompt("sditx> ")
		switch err {
		case nil:
			// ok
		case liner.ErrPromptAborted, io.EOF:
			fmt.Println()
			return nil
		default:
			return fmt.Errorf("could not read prompt: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		term.AppendHistory(line)

		toks := strings.Fields(line)
		switch toks[0] {
		case "quit", "exit":
			return nil

		case "set":
			if len(toks) != 3 {
				log.Printf("usage: set <param> <value>")
				continue
			}
			v, err := strconv.ParseUint(toks[2], 10, 32)
			if err != nil {
				log.Printf("invalid value %q: %+v", toks[2], err)
				continue
			}
			err = send(enc, dec, request{
				Name: "configure",
				Args: []keyval{{toks[1], uint32(v)}},
			})
			if err != nil {
				log.Printf("%+v", err)
			}

		case "mode":
			if len(toks) != 2 {
				log.Printf("usage: mode <name>")
				continue
			}
			err = send(enc, dec, request{
				Name: "mode-set",
				Args: map[string]string{"name": toks[1]},
			})
			if err != nil {
				log.Printf("%+v", err)
			}

		case "start", "stop", "status", "version":
			err = send(enc, dec, request{Name: toks[0], Args: []string{}})
			if err != nil {
				log.Printf("%+v", err)
			}

		default:
			log.Printf("unknown command %q", toks[0])
		}
	}
}

func send(enc *json.Encoder, dec *json.Decoder, req request) error {
	err := enc.Encode(req)
	if err != nil {
		return fmt.Errorf("could not send %q request: %w", req.Name, err)
	}

	var rep response
	err = dec.Decode(&rep)
	if err != nil {
		return fmt.Errorf("could not read %q reply: %w", req.Name, err)
	}

	switch {
	case rep.Status != nil:
		fmt.Printf(
			"state=%v locked=%v fifo=%d overflow=%d underflow=%d\n",
			rep.Status.State, rep.Status.Locked, rep.Status.FifoLevel,
			rep.Status.Overflow, rep.Status.Underflow,
		)
	case rep.Version != nil:
		fmt.Printf("version=0x%x\n", *rep.Version)
	default:
		fmt.Printf("%s\n", rep.Msg)
	}
	return nil
}
