// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jz47xx

import (
	"fmt"
	"sync"
	"time"

	"github.com/jpillora/backoff"
)

// Regmap provides offset-addressed access to the LCD controller register
// block with an explicit access discipline: every read-modify-write runs
// under an internal lock, so concurrent accesses (the interrupt service
// path and the commit path share this window) never interleave inside an
// UpdateBits sequence.
type Regmap struct {
	mu   sync.Mutex
	mem  MemProvider
	base uintptr
}

// NewRegmap wraps a register window rooted at base.
func NewRegmap(mem MemProvider, base uintptr) *Regmap {
	return &Regmap{mem: mem, base: base}
}

func (m *Regmap) Read(reg uintptr) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mem.MustRead32(m.base + reg)
}

// Write stores val at reg. Writing a read-only register is a driver bug
// that earlier validation should have made unreachable, and panics.
func (m *Regmap) Write(reg uintptr, val uint32) {
	if !WritableReg(reg) {
		panic(fmt.Sprintf("jz47xx: write to read-only register %s (%#x)",
			RegName(reg), reg))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mem.MustWrite32(m.base+reg, val)
}

// UpdateBits replaces the bits selected by mask with val, as a single
// atomic read-modify-write with respect to other Regmap accesses.
func (m *Regmap) UpdateBits(reg uintptr, mask, val uint32) {
	if !WritableReg(reg) {
		panic(fmt.Sprintf("jz47xx: update of read-only register %s (%#x)",
			RegName(reg), reg))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.mem.MustRead32(m.base + reg)
	m.mem.MustWrite32(m.base+reg, (old&^mask)|(val&mask))
}

// PollTimeout reads reg until value&mask != 0 or the timeout elapses. The
// poll interval backs off from 1ms to 10ms. It returns the last value
// read and whether the condition was met.
func (m *Regmap) PollTimeout(reg uintptr, mask uint32, timeout time.Duration) (uint32, bool) {
	b := &backoff.Backoff{
		Min:    time.Millisecond,
		Max:    10 * time.Millisecond,
		Factor: 2,
	}
	deadline := time.Now().Add(timeout)
	for {
		val := m.Read(reg)
		if val&mask != 0 {
			return val, true
		}
		if time.Now().After(deadline) {
			return val, false
		}
		time.Sleep(b.Duration())
	}
}

// Close releases the underlying register window.
func (m *Regmap) Close() {
	m.mem.Close()
}
