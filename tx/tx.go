// Copyright 2024 The go-bcast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tx controls the SDI transmit endpoint core: an AXI-Lite
// programmed IP block that frames an upstream video stream onto an
// SDI link through a video bridge, a timing generator and a stream
// formatter.
package tx // import "github.com/go-bcast/sditx/tx"
