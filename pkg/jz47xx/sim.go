// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jz47xx

import (
	"fmt"
	"sync"
)

// MemOp is one recorded access against a SimMem.
type MemOp struct {
	Write   bool
	Address uintptr
	Data    uint32
}

func (o MemOp) String() string {
	t := "read"
	if o.Write {
		t = "write"
	}
	return fmt.Sprintf("{%s @ %08x = %08x}", t, o.Address, o.Data)
}

// SimMem is a RAM backed register window. It is used by the test suites
// and by the CLI dry-run mode in place of the real /dev/mem window.
//
// OnWrite, if set, is invoked after every write and may mutate the
// register file to mimic hardware side effects (e.g. raising the disabled
// status bit after a disable request).
type SimMem struct {
	mu      sync.Mutex
	regs    map[uintptr]uint32
	ops     []MemOp
	OnWrite func(m *SimMem, address uintptr, data uint32)
}

func NewSimMem() *SimMem {
	return &SimMem{regs: make(map[uintptr]uint32)}
}

func (m *SimMem) MustRead32(address uintptr) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.regs[address]
	m.ops = append(m.ops, MemOp{false, address, v})
	return v
}

func (m *SimMem) MustWrite32(address uintptr, data uint32) {
	m.mu.Lock()
	m.regs[address] = data
	m.ops = append(m.ops, MemOp{true, address, data})
	hook := m.OnWrite
	m.mu.Unlock()
	if hook != nil {
		hook(m, address, data)
	}
}

func (m *SimMem) Close() {}

// Poke sets a register without recording an access, as hardware would.
func (m *SimMem) Poke(address uintptr, data uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs[address] = data
}

// Peek reads a register without recording an access.
func (m *SimMem) Peek(address uintptr) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[address]
}

// Ops returns a copy of the recorded access trace.
func (m *SimMem) Ops() []MemOp {
	m.mu.Lock()
	defer m.mu.Unlock()
	ops := make([]MemOp, len(m.ops))
	copy(ops, m.ops)
	return ops
}

// Writes returns only the recorded writes, in order.
func (m *SimMem) Writes() []MemOp {
	var writes []MemOp
	for _, o := range m.Ops() {
		if o.Write {
			writes = append(writes, o)
		}
	}
	return writes
}

// ClearOps discards the recorded access trace.
func (m *SimMem) ClearOps() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = nil
}
