// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tx

import "errors"

// ErrBridgeUnavailable is returned when the upstream scaler bridge
// has not been attached yet. Callers may retry once the bridge
// probes.
var ErrBridgeUnavailable = errors.New("tx: bridge unavailable")

// Bridge is the upstream scaler sub-block that reformats video before
// it enters the transport core. Geometries are in pixels and lines,
// formats are opaque media bus codes.
type Bridge interface {
	SetInput(width, height, format uint32) error
	SetOutput(width, height, format uint32) error
	Enable() error
	Disable() error
}
