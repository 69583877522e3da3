// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/ingenic-go/jzlcd/pkg/lcdc"
)

// devMemDMA allocates DMA descriptors out of a reserved physical memory
// region mapped through /dev/mem. The region must be excluded from the
// kernel's allocator (mem= cmdline carve-out) and uncached on these
// parts, which have no cache-coherent DMA.
type devMemDMA struct {
	f    *os.File
	mem  []byte
	base uint32
	used int
}

func openDevMemDMA(base uint32, size int) (*devMemDMA, error) {
	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("open /dev/mem: %w", err)
	}
	mem, err := unix.Mmap(int(f.Fd()), int64(base), size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap dma region %#x+%#x: %w", base, size, err)
	}
	return &devMemDMA{f: f, mem: mem, base: base}, nil
}

func (d *devMemDMA) Alloc(size int) ([]byte, uint32, error) {
	if d.used+size > len(d.mem) {
		return nil, 0, fmt.Errorf("dma region exhausted: %d of %d bytes used",
			d.used, len(d.mem))
	}
	buf := d.mem[d.used : d.used+size]
	phys := d.base + uint32(d.used)
	d.used += size
	return buf, phys, nil
}

func (d *devMemDMA) Close() {
	if d.mem != nil {
		unix.Munmap(d.mem)
		d.mem = nil
	}
	d.f.Close()
}

// openDMA picks the allocator matching the run mode.
func openDMA(base uint32, size int) (lcdc.DMAMemory, func(), error) {
	if flagDryRun {
		return lcdc.NewCoherentMemory(base), func() {}, nil
	}
	d, err := openDevMemDMA(base, size)
	if err != nil {
		return nil, nil, err
	}
	return d, d.Close, nil
}
