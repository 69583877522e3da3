// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lcdc

import (
	"encoding/binary"
	"fmt"

	"github.com/ingenic-go/jzlcd/pkg/jz47xx"
)

// DMAMemory hands out memory the DMA engine can reach. Alloc returns the
// CPU mapping and the bus address of a coherent region. The descriptor
// table is the only allocation this driver makes, once, at bring-up.
type DMAMemory interface {
	Alloc(size int) (virt []byte, phys uint32, err error)
}

// Hardware descriptor layout: four little-endian 32 bit words.
const (
	descNext = 0
	descAddr = 4
	descID   = 8
	descCmd  = 12
	descSize = 16
)

// Identifying tags stored in the id word. Hardware latches the tag of the
// descriptor it is working on into LCDIID, which makes these show up in
// register dumps.
var descTags = [2]uint32{0xdeafbead, 0xdeadbabe}

// descTable owns the two fixed hardware descriptors, one per DMA channel.
// Each descriptor is a single-entry ring: next points back at itself, so
// the engine redisplays the same buffer every frame until a commit swaps
// the address. All updates are in-place; nothing is allocated after New.
type descTable struct {
	mem  []byte
	phys [2]uint32
}

func newDescTable(dma DMAMemory) (*descTable, error) {
	mem, phys, err := dma.Alloc(2 * descSize)
	if err != nil {
		return nil, fmt.Errorf("lcdc: descriptor table: %w", err)
	}
	t := &descTable{mem: mem}
	for i := 0; i < 2; i++ {
		t.phys[i] = phys + uint32(i*descSize)
		d := t.desc(i)
		binary.LittleEndian.PutUint32(d[descNext:], t.phys[i])
		binary.LittleEndian.PutUint32(d[descID:], descTags[i])
	}
	return t, nil
}

func (t *descTable) desc(idx int) []byte {
	return t.mem[idx*descSize : (idx+1)*descSize]
}

// arm points descriptor idx at a new frame: source address, transfer
// length in words, and the end-of-frame interrupt request.
func (t *descTable) arm(idx int, addr, words uint32) {
	d := t.desc(idx)
	binary.LittleEndian.PutUint32(d[descAddr:], addr)
	binary.LittleEndian.PutUint32(d[descCmd:], words&jz47xx.LCD_CMD_LEN_MASK|jz47xx.LCD_CMD_EOF_IRQ)
}

func (t *descTable) next(idx int) uint32 {
	return binary.LittleEndian.Uint32(t.desc(idx)[descNext:])
}

func (t *descTable) addr(idx int) uint32 {
	return binary.LittleEndian.Uint32(t.desc(idx)[descAddr:])
}

func (t *descTable) id(idx int) uint32 {
	return binary.LittleEndian.Uint32(t.desc(idx)[descID:])
}

func (t *descTable) cmd(idx int) uint32 {
	return binary.LittleEndian.Uint32(t.desc(idx)[descCmd:])
}

// CoherentMemory is a DMAMemory for platforms where plain process memory
// is DMA-reachable (simulation, tests, or systems with an IOMMU set up
// elsewhere). The bus address is the provided base plus the running
// offset.
type CoherentMemory struct {
	base uint32
	used int
	bufs [][]byte
}

func NewCoherentMemory(base uint32) *CoherentMemory {
	return &CoherentMemory{base: base}
}

func (m *CoherentMemory) Alloc(size int) ([]byte, uint32, error) {
	buf := make([]byte, size)
	phys := m.base + uint32(m.used)
	m.used += size
	m.bufs = append(m.bufs, buf)
	return buf, phys, nil
}
