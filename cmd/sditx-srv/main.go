// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sditx-srv runs the control service for one SDI transmit
// endpoint.
package main // import "github.com/go-bcast/sditx/cmd/sditx-srv"

import (
	"context"
	"flag"
	"log"

	"github.com/go-bcast/sditx/modedb"
	"github.com/go-bcast/sditx/tx"
)

func main() {
	var (
		addr   = flag.String("addr", ":9999", "sditx-srv [addr]:port")
		devmem = flag.String("dev-mem", "/dev/mem", "")

		brgBase = flag.Int64("bridge-base", 0x8001_0000, "AXI base address of the scaler bridge")

		dbname = flag.String("db", "", "name of the facility mode database (empty: builtin table)")

		i2cBus  = flag.Int("i2c-bus", -1, "SMBus bus of the cable driver (-1: none)")
		i2cAddr = flag.Uint("i2c-addr", 0x21, "SMBus address of the cable driver")
	)

	log.SetPrefix("sditx-srv: ")
	log.SetFlags(0)

	flag.Parse()

	var opts []tx.Option

	if *dbname != "" {
		db, err := modedb.Open(*dbname)
		if err != nil {
			log.Fatalf("could not open mode db: %+v", err)
		}
		defer db.Close()

		ctx := context.Background()
		rev, err := db.LastRevision(ctx)
		if err != nil {
			log.Fatalf("could not get mode-table revision: %+v", err)
		}
		modes, err := db.VideoModes(ctx, rev)
		if err != nil {
			log.Fatalf("could not load modes: %+v", err)
		}
		log.Printf("loaded %d modes from %q (revision %q)", len(modes), *dbname, rev)
		opts = append(opts, tx.WithModes(modes))
	}

	brg, err := tx.NewAXIBridge(*devmem, *brgBase)
	if err != nil {
		log.Fatalf("could not open scaler bridge: %+v", err)
	}
	defer brg.Close()
	opts = append(opts, tx.WithBridge(brg))

	if *i2cBus >= 0 {
		rck, err := tx.NewReclocker(*i2cBus, uint8(*i2cAddr))
		if err != nil {
			log.Fatalf("could not open cable driver: %+v", err)
		}
		defer rck.Close()
		opts = append(opts, tx.WithReclocker(rck))
	}

	err = tx.Serve(*addr, *devmem, opts...)
	if err != nil {
		log.Fatalf("could not create sditx-srv service: %+v", err)
	}
}
