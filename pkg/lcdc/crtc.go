// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lcdc

import (
	"fmt"

	"github.com/ingenic-go/jzlcd/pkg/jz47xx"
)

// CommitState is one proposed configuration change. Planes holds the
// complete new state of every plane touched by the commit; planes not
// present keep their current state. Check fills in ModeChanged and
// NoVblank; Flush consumes Event.
//
// Commit-phase calls (Check, Begin, UpdatePlanes, Flush) are serialized
// by the caller: at most one commit is in flight per device. Only the
// interrupt path runs concurrently with them.
type CommitState struct {
	Mode   Mode
	Planes map[PlaneType]*PlaneState
	Event  *FrameEvent

	// ModeChanged is set during check when the commit needs the full
	// timing reconstruction path rather than an in-place update.
	ModeChanged bool
	// NoVblank is set during check when every plane ends up disabled:
	// with nothing scanning out there is no end-of-frame interrupt to
	// drive completion, so events are delivered synchronously.
	NoVblank bool
}

// effectivePlane returns the state a plane will have once this commit is
// applied.
func (c *Controller) effectivePlane(cs *CommitState, pt PlaneType) *PlaneState {
	if ns, ok := cs.Planes[pt]; ok {
		return ns
	}
	return &c.planes[pt]
}

// Check validates a proposed commit. Nothing is mutated on rejection; a
// commit that fails check must not be applied, partially or otherwise.
func (c *Controller) Check(cs *CommitState) error {
	if c.lastMode == nil || *c.lastMode != cs.Mode {
		cs.ModeChanged = true
	}

	for pt := range cs.Planes {
		if err := c.checkPlane(pt, cs); err != nil {
			return err
		}
	}

	// IPU data replaces foreground 0; both sourcing pixels at once is
	// not expressible in hardware.
	if c.hasIPU &&
		c.effectivePlane(cs, PlaneOverlay).enabled() &&
		c.effectivePlane(cs, PlaneIPU).enabled() {
		return ErrExclusivePlanes
	}

	allOff := true
	for pt := PlanePrimary; pt < planeCount; pt++ {
		if c.effectivePlane(cs, pt).enabled() {
			allOff = false
			break
		}
	}
	cs.NoVblank = allOff

	if !cs.ModeChanged {
		return nil
	}

	if err := cs.Mode.Validate(); err != nil {
		return err
	}
	if cs.Mode.HDisplay > c.soc.MaxWidth || cs.Mode.VDisplay > c.soc.MaxHeight {
		return fmt.Errorf("%w: %s on %s", ErrModeTooLarge, &cs.Mode, c.soc.Compatible)
	}
	if _, err := c.pixClk.RoundRate(int64(cs.Mode.Clock) * 1000); err != nil {
		return fmt.Errorf("%w: %v", ErrBadClock, err)
	}

	return nil
}

// Begin runs before plane updates on the modeset path and selects the
// composition source for foreground 0: the IPU when its plane has a
// buffer bound, the plain DMA channel otherwise.
func (c *Controller) Begin(cs *CommitState) {
	if !c.soc.HasOSD || !cs.ModeChanged {
		return
	}

	var ctrl uint32
	if c.hasIPU && c.effectivePlane(cs, PlaneIPU).enabled() {
		ctrl = jz47xx.LCD_OSDCTRL_IPU
	}
	c.regs.UpdateBits(jz47xx.LCD_OSDCTRL, jz47xx.LCD_OSDCTRL_IPU, ctrl)
	c.ipuActive = ctrl != 0
}

// UpdatePlanes applies the per-plane portion of a commit: descriptor
// swaps for the next frame and, on the modeset path, full plane
// reconfiguration.
func (c *Controller) UpdatePlanes(cs *CommitState) {
	for pt := PlanePrimary; pt < planeCount; pt++ {
		if _, ok := cs.Planes[pt]; ok {
			c.updatePlane(pt, cs)
		}
	}
}

// Flush finishes a commit: (re)programs timings and the pixel clock on a
// mode change, then resolves the completion notification. The event is
// armed for the next vertical blank when one can be expected, and
// delivered immediately and synchronously otherwise, so every commit's
// notification fires exactly once.
func (c *Controller) Flush(cs *CommitState) error {
	if cs.ModeChanged {
		c.updateTimings(&cs.Mode)
		if err := c.pixClk.SetRate(int64(cs.Mode.Clock) * 1000); err != nil {
			return fmt.Errorf("%w: %v", ErrBadClock, err)
		}
		mode := cs.Mode
		c.lastMode = &mode
		modeWidth.Set(float64(mode.HDisplay))
		modeHeight.Set(float64(mode.VDisplay))
	}

	c.vblank.mu.Lock()
	c.vblank.noVblank = cs.NoVblank
	c.vblank.mu.Unlock()

	if ev := cs.Event; ev != nil {
		cs.Event = nil
		c.armOrDeliver(ev)
	}

	commitCount.Inc()
	return nil
}

// Commit runs the full single-device sequence. Callers integrating with
// a larger commit orchestration use the phase methods directly instead.
func (c *Controller) Commit(cs *CommitState) error {
	if err := c.Check(cs); err != nil {
		return err
	}
	c.Begin(cs)
	c.UpdatePlanes(cs)
	return c.Flush(cs)
}

// Enable starts scan-out. A valid mode must have been committed first.
func (c *Controller) Enable() error {
	if c.lastMode == nil {
		return ErrNoMode
	}

	c.regs.Write(jz47xx.LCD_STATE, 0)
	c.regs.UpdateBits(jz47xx.LCD_CTRL,
		jz47xx.LCD_CTRL_ENABLE|jz47xx.LCD_CTRL_DISABLE,
		jz47xx.LCD_CTRL_ENABLE)

	c.enabled = true
	c.vblankOn()

	log.Infof("Scan-out enabled, mode %s", c.lastMode)
	return nil
}

// Disable requests a clean stop at the next frame boundary and waits for
// the controller to confirm. Vblank bookkeeping is torn down before the
// disable request so a late completion cannot race against it. On
// timeout the controller is treated as disabled anyway and the timeout
// is reported.
func (c *Controller) Disable() error {
	c.vblankOff()

	c.regs.UpdateBits(jz47xx.LCD_CTRL, jz47xx.LCD_CTRL_DISABLE, jz47xx.LCD_CTRL_DISABLE)

	state, ok := c.regs.PollTimeout(jz47xx.LCD_STATE, jz47xx.LCD_STATE_DISABLED,
		c.disableTimeout)
	c.enabled = false
	if !ok {
		disableTimeouts.Inc()
		log.Errorf("Controller did not confirm disable, state %08x; proceeding as disabled", state)
		return ErrDisableTimeout
	}

	log.Info("Scan-out disabled")
	return nil
}

// Enabled reports whether the output is currently driving pixels.
func (c *Controller) Enabled() bool {
	return c.enabled
}

// updateTimings programs the timing generator from a mode. Besides the
// four sync/area registers this always sets the underrun recovery bit
// and the 16-word burst length, and configures the urgent DMA threshold
// for the resolution.
func (c *Controller) updateTimings(m *Mode) {
	t := TimingsFromMode(m)

	c.regs.Write(jz47xx.LCD_VSYNC,
		0<<jz47xx.LCD_VSYNC_VPS_OFFSET|t.VPE<<jz47xx.LCD_VSYNC_VPE_OFFSET)
	c.regs.Write(jz47xx.LCD_HSYNC,
		0<<jz47xx.LCD_HSYNC_HPS_OFFSET|t.HPE<<jz47xx.LCD_HSYNC_HPE_OFFSET)
	c.regs.Write(jz47xx.LCD_VAT,
		t.HT<<jz47xx.LCD_VAT_HT_OFFSET|t.VT<<jz47xx.LCD_VAT_VT_OFFSET)
	c.regs.Write(jz47xx.LCD_DAH,
		t.HDS<<jz47xx.LCD_DAH_HDS_OFFSET|t.HDE<<jz47xx.LCD_DAH_HDE_OFFSET)
	c.regs.Write(jz47xx.LCD_DAV,
		t.VDS<<jz47xx.LCD_DAV_VDS_OFFSET|t.VDE<<jz47xx.LCD_DAV_VDE_OFFSET)

	if c.panelIsSharp {
		// Special TFT panels want the PS/CLS/SPL/REV signals derived
		// from the generic timings with fixed one-clock offsets.
		c.regs.Write(jz47xx.LCD_PS, t.HDE<<16|(t.HDE+1))
		c.regs.Write(jz47xx.LCD_CLS, t.HDE<<16|(t.HDE+1))
		c.regs.Write(jz47xx.LCD_SPL, t.HPE<<16|(t.HPE+1))
		c.regs.Write(jz47xx.LCD_REV, uint32(m.HTotal)<<16)
	}

	c.regs.UpdateBits(jz47xx.LCD_CTRL,
		jz47xx.LCD_CTRL_OFUP|jz47xx.LCD_CTRL_BURST_16,
		jz47xx.LCD_CTRL_OFUP|jz47xx.LCD_CTRL_BURST_16)

	c.regs.Write(jz47xx.LCD_IPUR,
		jz47xx.LCD_IPUR_IPUREN|t.DMADelayThreshold()<<jz47xx.LCD_IPUR_IPUR_LSB)
}
