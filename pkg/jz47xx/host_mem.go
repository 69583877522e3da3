// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package jz47xx

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// hostMem is a /dev/mem backed register window. The window is mapped once
// at open and kept mapped for the lifetime of the provider, so individual
// accesses are a plain volatile-style load or store.
type hostMem struct {
	f    *os.File
	mem  []byte
	base uintptr
}

// OpenHostMem maps size bytes of physical address space starting at base.
// base must be page aligned.
func OpenHostMem(base uintptr, size int) (MemProvider, error) {
	ps := uintptr(unix.Getpagesize())
	if base&(ps-1) != 0 {
		return nil, fmt.Errorf("base %#x is not page aligned", base)
	}
	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("open /dev/mem: %w", err)
	}
	sz := (size + int(ps) - 1) &^ (int(ps) - 1)
	mem, err := unix.Mmap(int(f.Fd()), int64(base), sz,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %#x+%#x: %w", base, sz, err)
	}
	return &hostMem{f: f, mem: mem, base: base}, nil
}

func (m *hostMem) reg(address uintptr) *uint32 {
	offset := address - m.base
	if offset+4 > uintptr(len(m.mem)) {
		panic(fmt.Sprintf("jz47xx: access at %#x outside mapped window", address))
	}
	return (*uint32)(unsafe.Pointer(&m.mem[offset]))
}

func (m *hostMem) MustRead32(address uintptr) uint32 {
	return atomic.LoadUint32(m.reg(address))
}

func (m *hostMem) MustWrite32(address uintptr, data uint32) {
	atomic.StoreUint32(m.reg(address), data)
}

func (m *hostMem) Close() {
	if m.mem != nil {
		unix.Munmap(m.mem)
		m.mem = nil
	}
	m.f.Close()
}
