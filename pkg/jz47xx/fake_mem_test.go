// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jz47xx

import (
	"fmt"
	"testing"
)

type op struct {
	write   bool
	address uintptr
	data    uint32
}

// fakeMem is a scripted register window: every access is checked against
// the next expected operation.
type fakeMem struct {
	t   *testing.T
	ops []op
}

func opstr(o *op) string {
	t := "read"
	if o.write {
		t = "write"
	}
	return fmt.Sprintf("{%s @ %08x = %08x}", t, o.address, o.data)
}

func (m *fakeMem) MustRead32(a uintptr) uint32 {
	if len(m.ops) == 0 {
		m.t.Errorf("Unexpected 32 bit read on %08x", a)
		return 0
	}
	o := m.ops[0]
	m.ops = m.ops[1:]
	if o.write || o.address != a {
		m.t.Errorf("Expected %s, got 32 bit read on %08x", opstr(&o), a)
	}
	return o.data
}

func (m *fakeMem) MustWrite32(a uintptr, d uint32) {
	if len(m.ops) == 0 {
		m.t.Errorf("Unexpected 32 bit write of %08x on %08x", d, a)
		return
	}
	o := m.ops[0]
	m.ops = m.ops[1:]
	if !o.write || o.address != a || o.data != d {
		m.t.Errorf("Expected %s, got 32 bit write of %08x on %08x", opstr(&o), d, a)
	}
}

func (m *fakeMem) ExpectWrite32(a uintptr, d uint32) {
	m.ops = append(m.ops, op{true, a, d})
}

func (m *fakeMem) FakeRead32(a uintptr, d uint32) {
	m.ops = append(m.ops, op{false, a, d})
}

func (m *fakeMem) Done() {
	if len(m.ops) != 0 {
		m.t.Errorf("%d expected operations never happened, next %s",
			len(m.ops), opstr(&m.ops[0]))
	}
}

func (m *fakeMem) Close() {
}

func fakeMemory(t *testing.T) *fakeMem {
	return &fakeMem{t, make([]op, 0)}
}
