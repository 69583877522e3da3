// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lcdc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ingenic-go/jzlcd/pkg/jz47xx"
)

// commitAndEnable brings the controller to an enabled 640x480 state.
func commitAndEnable(t *testing.T, c *Controller) {
	t.Helper()
	cs := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: fullscreenPlane(640, 480, FormatRGB565)},
	}
	if err := c.Commit(cs); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := c.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
}

func TestCheckRejectsOversizedMode(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4725b-lcd", false)

	cs := &CommitState{Mode: Mode{
		Clock:    74250,
		HDisplay: 1280, HSyncStart: 1390, HSyncEnd: 1430, HTotal: 1650,
		VDisplay: 720, VSyncStart: 725, VSyncEnd: 730, VTotal: 750,
	}}
	if err := c.Check(cs); !errors.Is(err, ErrModeTooLarge) {
		t.Errorf("Check = %v, want ErrModeTooLarge", err)
	}
}

func TestCheckRejectsUnreachableClock(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4725b-lcd", false)

	cs := &CommitState{Mode: testMode640x480()}
	cs.Mode.Clock = 900000 // 900 MHz
	if err := c.Check(cs); !errors.Is(err, ErrBadClock) {
		t.Errorf("Check = %v, want ErrBadClock", err)
	}
}

func TestCheckLeavesStateUntouchedOnRejection(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4725b-lcd", false)
	sim.ClearOps()

	cs := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: fullscreenPlane(640, 480, PixelFormat(99))},
	}
	if err := c.Check(cs); err == nil {
		t.Fatal("Check accepted a bad commit")
	}
	if writes := sim.Writes(); len(writes) != 0 {
		t.Errorf("rejected check touched hardware: %v", writes)
	}
	if c.lastMode != nil {
		t.Error("rejected check latched a mode")
	}
}

func TestFlushProgramsTimings(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4725b-lcd", false)

	cs := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: fullscreenPlane(640, 480, FormatRGB565)},
	}
	if err := c.Commit(cs); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	base := jz47xx.LCD_BASE
	checks := []struct {
		reg  uintptr
		want uint32
	}{
		{jz47xx.LCD_VSYNC, 2},
		{jz47xx.LCD_HSYNC, 96},
		{jz47xx.LCD_VAT, 800<<16 | 525},
		{jz47xx.LCD_DAH, 144<<16 | 784},
		{jz47xx.LCD_DAV, 35<<16 | 515},
		{jz47xx.LCD_IPUR, jz47xx.LCD_IPUR_IPUREN | 533},
	}
	for _, tc := range checks {
		if got := sim.Peek(base + tc.reg); got != tc.want {
			t.Errorf("%s = %08x, want %08x", jz47xx.RegName(tc.reg), got, tc.want)
		}
	}

	ctrl := sim.Peek(base + jz47xx.LCD_CTRL)
	if ctrl&jz47xx.LCD_CTRL_OFUP == 0 {
		t.Errorf("LCDCTRL = %08x, underrun recovery not set", ctrl)
	}
	if ctrl&jz47xx.LCD_CTRL_BURST_16 == 0 {
		t.Errorf("LCDCTRL = %08x, burst length not set", ctrl)
	}

	if got, want := c.pixClk.Rate(), int64(25175000); got != want {
		t.Errorf("pixel clock = %d, want %d", got, want)
	}
}

func TestFlushSkipsTimingsWithoutModeChange(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4725b-lcd", false)

	first := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: fullscreenPlane(640, 480, FormatRGB565)},
	}
	if err := c.Commit(first); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	sim.ClearOps()

	second := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: fullscreenPlane(640, 480, FormatRGB565)},
	}
	if err := c.Commit(second); err != nil {
		t.Fatalf("second commit: %v", err)
	}
	for _, op := range sim.Writes() {
		switch op.Address - jz47xx.LCD_BASE {
		case jz47xx.LCD_VSYNC, jz47xx.LCD_HSYNC, jz47xx.LCD_VAT, jz47xx.LCD_DAH, jz47xx.LCD_DAV:
			t.Errorf("buffer swap reprogrammed timings: %s", op)
		}
	}
}

func TestEnableRequiresMode(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4725b-lcd", false)
	if err := c.Enable(); !errors.Is(err, ErrNoMode) {
		t.Errorf("Enable = %v, want ErrNoMode", err)
	}
}

func TestEnableSequence(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4725b-lcd", false)
	commitAndEnable(t, c)

	if !c.Enabled() {
		t.Error("controller not marked enabled")
	}
	if got := sim.Peek(jz47xx.LCD_BASE + jz47xx.LCD_STATE); got&^jz47xx.LCD_STATE_DISABLED != 0 {
		t.Errorf("LCDSTATE = %08x, stale status not cleared", got)
	}
	ctrl := sim.Peek(jz47xx.LCD_BASE + jz47xx.LCD_CTRL)
	if ctrl&jz47xx.LCD_CTRL_ENABLE == 0 || ctrl&jz47xx.LCD_CTRL_DISABLE != 0 {
		t.Errorf("LCDCTRL = %08x, want enable set and disable clear", ctrl)
	}
	if ctrl&jz47xx.LCD_CTRL_EOF_IRQ == 0 {
		t.Errorf("LCDCTRL = %08x, end-of-frame interrupt not unmasked", ctrl)
	}
}

func TestDisableSequence(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4725b-lcd", false)
	commitAndEnable(t, c)
	sim.ClearOps()

	if err := c.Disable(); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if c.Enabled() {
		t.Error("controller still marked enabled")
	}

	// The interrupt must be masked strictly before the disable request
	// so a late vblank cannot race the teardown.
	maskIdx, disableIdx := -1, -1
	for i, op := range sim.Writes() {
		if op.Address != jz47xx.LCD_BASE+jz47xx.LCD_CTRL {
			continue
		}
		if maskIdx < 0 && op.Data&jz47xx.LCD_CTRL_EOF_IRQ == 0 {
			maskIdx = i
		}
		if disableIdx < 0 && op.Data&jz47xx.LCD_CTRL_DISABLE != 0 {
			disableIdx = i
		}
	}
	if maskIdx < 0 || disableIdx < 0 {
		t.Fatalf("missing control writes in trace: %v", sim.Writes())
	}
	if maskIdx >= disableIdx {
		t.Errorf("interrupt masked at write %d, after disable request at %d", maskIdx, disableIdx)
	}
}

func TestDisableTimeout(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4725b-lcd", false)
	commitAndEnable(t, c)

	// Hardware that never confirms.
	sim.OnWrite = nil

	err := c.Disable()
	if !errors.Is(err, ErrDisableTimeout) {
		t.Fatalf("Disable = %v, want ErrDisableTimeout", err)
	}
	if c.Enabled() {
		t.Error("timeout must still leave the controller disabled")
	}
}

func TestFrameEventArmedUntilVblank(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4725b-lcd", false)
	commitAndEnable(t, c)

	ev := NewFrameEvent()
	cs := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: fullscreenPlane(640, 480, FormatRGB565)},
		Event:  ev,
	}
	if err := c.Commit(cs); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	select {
	case <-ev.Done():
		t.Fatal("frame event delivered before the vertical blank")
	default:
	}

	sim.Poke(jz47xx.LCD_BASE+jz47xx.LCD_STATE, jz47xx.LCD_STATE_EOF_IRQ)
	c.HandleIRQ()

	select {
	case <-ev.Done():
	case <-time.After(time.Second):
		t.Fatal("frame event not delivered at the vertical blank")
	}
	if got := c.VblankCount(); got != 1 {
		t.Errorf("VblankCount = %d, want 1", got)
	}
}

func TestFrameEventImmediateWhenDisabled(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4725b-lcd", false)

	ev := NewFrameEvent()
	cs := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: fullscreenPlane(640, 480, FormatRGB565)},
		Event:  ev,
	}
	if err := c.Commit(cs); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	select {
	case <-ev.Done():
	default:
		t.Error("frame event not delivered synchronously while output is off")
	}
}

func TestFrameEventImmediateWhenAllPlanesOff(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4725b-lcd", false)
	commitAndEnable(t, c)

	ev := NewFrameEvent()
	cs := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: {}},
		Event:  ev,
	}
	if err := c.Commit(cs); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !cs.NoVblank {
		t.Error("commit with all planes off not marked NoVblank")
	}

	select {
	case <-ev.Done():
	default:
		t.Error("frame event not delivered synchronously with no plane scanning out")
	}
}

func TestDisableDeliversArmedEvent(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4725b-lcd", false)
	commitAndEnable(t, c)

	ev := NewFrameEvent()
	cs := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: fullscreenPlane(640, 480, FormatRGB565)},
		Event:  ev,
	}
	if err := c.Commit(cs); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := c.Disable(); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	select {
	case <-ev.Done():
	default:
		t.Error("disable left a waiter armed")
	}
}

func TestSpuriousIRQ(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4725b-lcd", false)
	commitAndEnable(t, c)

	// Status with some other source pending but no end of frame.
	sim.Poke(jz47xx.LCD_BASE+jz47xx.LCD_STATE, jz47xx.LCD_STATE_OFU_IRQ)
	c.HandleIRQ()

	if got := c.VblankCount(); got != 0 {
		t.Errorf("VblankCount = %d after spurious interrupt, want 0", got)
	}
	state := sim.Peek(jz47xx.LCD_BASE + jz47xx.LCD_STATE)
	if state&jz47xx.LCD_STATE_OFU_IRQ == 0 {
		t.Errorf("LCDSTATE = %08x, unrelated status bit clobbered", state)
	}
}

func TestIRQClearsStatusExactlyOnce(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4725b-lcd", false)
	commitAndEnable(t, c)

	sim.Poke(jz47xx.LCD_BASE+jz47xx.LCD_STATE, jz47xx.LCD_STATE_EOF_IRQ)
	c.HandleIRQ()
	if got := sim.Peek(jz47xx.LCD_BASE + jz47xx.LCD_STATE); got&jz47xx.LCD_STATE_EOF_IRQ != 0 {
		t.Errorf("LCDSTATE = %08x, end-of-frame bit not acknowledged", got)
	}

	// A second service pass with nothing pending must not signal again.
	c.HandleIRQ()
	if got := c.VblankCount(); got != 1 {
		t.Errorf("VblankCount = %d, want 1", got)
	}
}

type scriptedIRQ struct {
	fires int
}

func (s *scriptedIRQ) Wait(ctx context.Context) error {
	if s.fires == 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	s.fires--
	return nil
}

func TestServeIRQ(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4725b-lcd", false)
	commitAndEnable(t, c)

	sim.Poke(jz47xx.LCD_BASE+jz47xx.LCD_STATE, jz47xx.LCD_STATE_EOF_IRQ)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.ServeIRQ(ctx, &scriptedIRQ{fires: 1}); err != nil {
		t.Fatalf("ServeIRQ: %v", err)
	}
	if got := c.VblankCount(); got != 1 {
		t.Errorf("VblankCount = %d, want 1", got)
	}
}

func TestOnVblank(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4725b-lcd", false)
	commitAndEnable(t, c)

	seqs := make(chan uint64, 1)
	cancel := c.OnVblank(func(ev VblankEvent) {
		seqs <- ev.Seq
	})
	defer cancel()

	sim.Poke(jz47xx.LCD_BASE+jz47xx.LCD_STATE, jz47xx.LCD_STATE_EOF_IRQ)
	c.HandleIRQ()

	select {
	case seq := <-seqs:
		if seq != 1 {
			t.Errorf("vblank seq = %d, want 1", seq)
		}
	case <-time.After(time.Second):
		t.Fatal("vblank subscriber never ran")
	}
}
