// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lcdc

import "fmt"

type ModeFlags uint32

const (
	// ModeFlagNHSync marks the horizontal sync pulse active low.
	ModeFlagNHSync ModeFlags = 1 << iota
	// ModeFlagNVSync marks the vertical sync pulse active low.
	ModeFlagNVSync
	// ModeFlagInterlace selects interlaced TV output.
	ModeFlagInterlace
)

// Mode describes one display timing. Counts are in pixel clocks on the
// horizontal axis and in lines on the vertical axis; Clock is the pixel
// clock in kHz. A Mode is immutable once accepted by a commit.
type Mode struct {
	Clock int

	HDisplay, HSyncStart, HSyncEnd, HTotal int
	VDisplay, VSyncStart, VSyncEnd, VTotal int

	Flags ModeFlags
}

func (m *Mode) String() string {
	return fmt.Sprintf("%dx%d@%dkHz", m.HDisplay, m.VDisplay, m.Clock)
}

// Validate checks the structural timing invariants on both axes:
// display <= sync_start <= sync_end <= total and display > 0.
func (m *Mode) Validate() error {
	if m.Clock <= 0 {
		return fmt.Errorf("mode %s: invalid pixel clock %d", m, m.Clock)
	}
	if m.HDisplay <= 0 || m.VDisplay <= 0 {
		return fmt.Errorf("mode %s: empty display area", m)
	}
	if m.HSyncStart < m.HDisplay || m.HSyncStart > m.HSyncEnd || m.HSyncEnd > m.HTotal {
		return fmt.Errorf("mode %s: bad horizontal timing %d/%d/%d/%d",
			m, m.HDisplay, m.HSyncStart, m.HSyncEnd, m.HTotal)
	}
	if m.VSyncStart < m.VDisplay || m.VSyncStart > m.VSyncEnd || m.VSyncEnd > m.VTotal {
		return fmt.Errorf("mode %s: bad vertical timing %d/%d/%d/%d",
			m, m.VDisplay, m.VSyncStart, m.VSyncEnd, m.VTotal)
	}
	return nil
}

// Timings are the raw timing generator values derived from a Mode. The
// hardware counts from the start of the sync pulse, so the display area
// start is the distance from sync start to the end of the frame.
type Timings struct {
	// Vertical: sync pulse end, display start, display end, total
	VPE, VDS, VDE, VT uint32
	// Horizontal: sync pulse end, display start, display end, total
	HPE, HDS, HDE, HT uint32
}

// TimingsFromMode derives the timing register values. Pure arithmetic;
// out-of-range modes must have been rejected during check.
func TimingsFromMode(m *Mode) Timings {
	var t Timings

	t.VPE = uint32(m.VSyncEnd - m.VSyncStart)
	t.VDS = uint32(m.VTotal - m.VSyncStart)
	t.VDE = t.VDS + uint32(m.VDisplay)
	t.VT = t.VDE + uint32(m.VSyncStart-m.VDisplay)

	t.HPE = uint32(m.HSyncEnd - m.HSyncStart)
	t.HDS = uint32(m.HTotal - m.HSyncStart)
	t.HDE = t.HDS + uint32(m.HDisplay)
	t.HT = t.HDE + uint32(m.HSyncStart-m.HDisplay)

	return t
}

// DMADelayThreshold is the urgent DMA request threshold for the IPU
// restart register: data fetch for the next frame starts this many pixel
// clocks early to avoid output FIFO underruns.
func (t Timings) DMADelayThreshold() uint32 {
	return t.HT * t.VPE / 3
}
