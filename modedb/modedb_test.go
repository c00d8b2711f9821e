// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modedb

import (
	"context"
	"database/sql/driver"
	"reflect"
	"testing"

	"github.com/go-bcast/sditx/internal/fakedb"
	"github.com/go-bcast/sditx/tx"
)

func init() {
	drvName = "fakedb"
}

func TestOpen(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open modedb: %+v", err)
	}
	defer db.Close()
}

func TestLastRevision(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open modedb: %+v", err)
	}
	defer db.Close()

	_ = fakedb.Run(context.Background(), fakedb.Rows{
		Names: []string{"revision"},
		Values: [][]driver.Value{
			{"BCAST2024_1"},
		},
	}, func(ctx context.Context) error {
		rev, err := db.LastRevision(ctx)
		if err != nil {
			t.Fatalf("could not retrieve last revision: %+v", err)
		}

		if got, want := rev, "BCAST2024_1"; got != want {
			t.Fatalf("invalid last revision: got=%q, want=%q", got, want)
		}
		return nil
	})
}

func TestLastRackID(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open modedb: %+v", err)
	}
	defer db.Close()

	_ = fakedb.Run(context.Background(), fakedb.Rows{
		Names: []string{"identifier"},
		Values: [][]driver.Value{
			{uint32(42)},
		},
	}, func(ctx context.Context) error {
		rackid, err := db.LastRackID(ctx)
		if err != nil {
			t.Fatalf("could not retrieve last rack-id: %+v", err)
		}

		if got, want := rackid, uint32(42); got != want {
			t.Fatalf("invalid last rack-id: got=%d, want=%d", got, want)
		}
		return nil
	})
}

func modeRow(m Mode) []driver.Value {
	return []driver.Value{
		m.ID, m.Name,
		m.Width, m.Height, m.Refresh,
		m.Rate, m.Interlaced,
		m.Clock,
		m.HFront, m.HSync, m.HBack, m.HTotal,
		m.VFront, m.VSync, m.VBack, m.VTotal,
	}
}

func TestModes(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open modedb: %+v", err)
	}
	defer db.Close()

	want := []Mode{
		{
			ID: 1, Name: "1920x1080p60",
			Width: 1920, Height: 1080, Refresh: 60,
			Rate:  uint32(tx.Mode3GA),
			Clock: 148500,
			HFront: 88, HSync: 44, HBack: 148, HTotal: 2200,
			VFront: 4, VSync: 5, VBack: 36, VTotal: 1125,
		},
		{
			ID: 2, Name: "1920x1080i60",
			Width: 1920, Height: 1080, Refresh: 60,
			Rate: uint32(tx.ModeHD), Interlaced: true,
			Clock:  74250,
			HFront: 88, HSync: 44, HBack: 148, HTotal: 2200,
			VFront: 2, VSync: 5, VBack: 15, VTotal: 1125,
		},
	}

	rows := fakedb.Rows{
		Names: []string{
			"identifier", "name",
			"width", "height", "refresh",
			"rate", "interlaced",
			"clock",
			"hfront", "hsync", "hback", "htotal",
			"vfront", "vsync", "vback", "vtotal",
		},
	}
	for _, m := range want {
		rows.Values = append(rows.Values, modeRow(m))
	}

	_ = fakedb.Run(context.Background(), rows, func(ctx context.Context) error {
		modes, err := db.Modes(ctx, "BCAST2024_1")
		if err != nil {
			t.Fatalf("could not retrieve modes: %+v", err)
		}

		if !reflect.DeepEqual(modes, want) {
			t.Fatalf("invalid modes:\ngot= %#v\nwant=%#v", modes, want)
		}
		return nil
	})
}

func TestModeVideo(t *testing.T) {
	m := Mode{
		ID: 2, Name: "1920x1080i60",
		Width: 1920, Height: 1080, Refresh: 60,
		Rate: uint32(tx.ModeHD), Interlaced: true,
		Clock:  74250,
		HFront: 88, HSync: 44, HBack: 148, HTotal: 2200,
		VFront: 2, VSync: 5, VBack: 15, VTotal: 1125,
	}

	got := m.Video()
	want := tx.VideoMode{
		Name: "1920x1080i60", Rate: tx.ModeHD,
		Width: 1920, Height: 1080, Refresh: 60,
		Timing: tx.DisplayTiming{
			HActive: 1920, HFrontPorch: 88, HSyncLen: 44, HBackPorch: 148, HTotal: 2200,
			VActive: 540, VFrontPorch: 2, VSyncLen: 5, VBackPorch: 15, VTotal: 1125,
			Clock: 74250, Refresh: 60, Interlaced: true, HSyncPos: true, VSyncPos: true,
		},
	}
	if got != want {
		t.Fatalf("invalid video mode:\ngot= %#v\nwant=%#v", got, want)
	}
}
