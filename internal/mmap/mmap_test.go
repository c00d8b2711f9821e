// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmap // import "github.com/go-bcast/sditx/internal/mmap"

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestRegion(t *testing.T) {
	t.Run("nil-region", func(t *testing.T) {
		var rg *Region

		if got, want := rg.Len(), 0; got != want {
			t.Fatalf("invalid len: got=%d, want=%d", got, want)
		}

		_, err := rg.ReadAt(nil, 0)
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid read-at error: %+v", err)
		}

		_, err = rg.WriteAt(nil, 0)
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid write-at error: %+v", err)
		}

		err = rg.Close()
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid close error: %+v", err)
		}
	})
	t.Run("closed", func(t *testing.T) {
		rg := RegionFrom([]byte{0, 1, 2, 3})
		if err := rg.Close(); err != nil {
			t.Fatalf("could not close region: %+v", err)
		}

		var p [1]byte
		_, err := rg.ReadAt(p[:], 0)
		if !errors.Is(err, errClosed) {
			t.Fatalf("invalid read-at error: %+v", err)
		}

		_, err = rg.WriteAt(p[:], 0)
		if !errors.Is(err, errClosed) {
			t.Fatalf("invalid write-at error: %+v", err)
		}

		if err := rg.Close(); err != nil {
			t.Fatalf("could not re-close region: %+v", err)
		}
	})
}

func TestRegionFrom(t *testing.T) {
	rg := RegionFrom([]byte{0, 1, 2, 3})

	if got, want := rg.Len(), 4; got != want {
		t.Fatalf("invalid len: got=%d, want=%d", got, want)
	}

	var p [2]byte
	n, err := rg.ReadAt(p[:], 1)
	if err != nil {
		t.Fatalf("could not read-at: %+v", err)
	}
	if got, want := n, 2; got != want {
		t.Fatalf("invalid read size: got=%d, want=%d", got, want)
	}
	if got, want := p, [2]byte{1, 2}; got != want {
		t.Fatalf("invalid value: got=%v, want=%v", got, want)
	}

	n, err = rg.WriteAt([]byte{42, 43}, 2)
	if err != nil {
		t.Fatalf("could not write-at: %+v", err)
	}
	if got, want := n, 2; got != want {
		t.Fatalf("invalid write size: got=%d, want=%d", got, want)
	}
	_, err = rg.ReadAt(p[:], 2)
	if err != nil {
		t.Fatalf("could not read-at: %+v", err)
	}
	if got, want := p, [2]byte{42, 43}; got != want {
		t.Fatalf("invalid value: got=%v, want=%v", got, want)
	}
}

func TestRegionBounds(t *testing.T) {
	rg := RegionFrom(make([]byte, 8))

	for _, tc := range []struct {
		name string
		off  int64
		len  int
	}{
		{"negative", -1, 2},
		{"past-end", 8, 1},
		{"crossing-end", 6, 4},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := make([]byte, tc.len)

			_, err := rg.ReadAt(p, tc.off)
			if err == nil || !strings.Contains(err.Error(), "outside window") {
				t.Fatalf("invalid read-at error: %+v", err)
			}

			_, err = rg.WriteAt(p, tc.off)
			if err == nil || !strings.Contains(err.Error(), "outside window") {
				t.Fatalf("invalid write-at error: %+v", err)
			}
		})
	}
}
