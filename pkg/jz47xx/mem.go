// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jz47xx

// MemProvider is the raw access primitive behind a register window. The
// LCD controller block only supports 32 bit wide accesses.
//
// Must* methods panic on access failure. A failing register window is not
// something the driver can recover from at runtime.
type MemProvider interface {
	MustRead32(uintptr) uint32
	MustWrite32(uintptr, uint32)
	Close()
}
