// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lcdc drives the scan-out engine of the Ingenic JZ47xx LCD
// controller: timing generator, the two foreground planes, the optional
// IPU path, and the DMA descriptor chain that feeds them, synchronized
// with the end-of-frame interrupt.
//
// The package implements the device-specific half of an atomic
// check/commit flow. A caller proposes a CommitState; Check validates it
// without touching hardware; Begin, UpdatePlanes and Flush apply it.
// Completion is signaled through FrameEvents at the vertical blank.
package lcdc

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/kelindar/event"

	"github.com/ingenic-go/jzlcd/pkg/jz47xx"
	"github.com/ingenic-go/jzlcd/pkg/logger"
	"github.com/ingenic-go/jzlcd/pkg/metric"
)

var log = logger.LogContainer.GetSimpleLogger()

var (
	vblankCount = metric.Counter(metric.MetricOpts{
		Namespace: "jzlcd",
		Subsystem: "lcdc",
		Name:      "vblanks_total",
		Help:      "End-of-frame interrupts observed",
	})
	commitCount = metric.Counter(metric.MetricOpts{
		Namespace: "jzlcd",
		Subsystem: "lcdc",
		Name:      "commits_total",
		Help:      "Configuration commits flushed",
	})
	disableTimeouts = metric.Counter(metric.MetricOpts{
		Namespace: "jzlcd",
		Subsystem: "lcdc",
		Name:      "disable_timeouts_total",
		Help:      "Disable requests the controller failed to confirm",
	})
	modeWidth = metric.Gauge(metric.MetricOpts{
		Namespace: "jzlcd",
		Subsystem: "lcdc",
		Name:      "mode_width_pixels",
		Help:      "Active mode width",
	})
	modeHeight = metric.Gauge(metric.MetricOpts{
		Namespace: "jzlcd",
		Subsystem: "lcdc",
		Name:      "mode_height_pixels",
		Help:      "Active mode height",
	})
)

const defaultDisableTimeout = 100 * time.Millisecond

// Config assembles the resources the controller needs. All discovery
// (register window, interrupt, clocks, DMA memory) happens outside this
// package.
type Config struct {
	Soc  *jz47xx.SocInfo
	Regs *jz47xx.Regmap

	// PixClk is the pixel clock; its rate follows the committed mode.
	PixClk Clock
	// LcdClk is the LCD device clock, required on parts with
	// Soc.NeedsDevClk set and ignored otherwise.
	LcdClk Clock

	DMA DMAMemory

	// HasIPU declares the IPU plane. Only valid on OSD-capable parts.
	HasIPU bool

	// CachedBuffers marks framebuffers as CPU-cacheable; their Sync
	// hook is invoked before every descriptor update.
	CachedBuffers bool

	// DisableTimeout bounds the confirmation poll in Disable. Zero
	// selects the default of 100ms.
	DisableTimeout time.Duration
}

// Controller owns one LCD controller instance.
type Controller struct {
	soc        *jz47xx.SocInfo
	regs       *jz47xx.Regmap
	pixClk     Clock
	lcdClk     Clock
	descs      *descTable
	hasIPU     bool
	cachedBufs bool

	disableTimeout time.Duration

	planes [planeCount]PlaneState

	enabled      bool
	lastMode     *Mode
	ipuActive    bool
	panelIsSharp bool

	vblank vblankEngine
	bus    *event.Dispatcher
}

// New brings up the controller: allocates the descriptor table, starts
// the clocks in order (pixel clock first, then the device clock), and
// programs the descriptor chain addresses. Any failure is fatal to
// bring-up and unwinds what was already started.
func New(cfg Config) (*Controller, error) {
	if cfg.Soc == nil || cfg.Regs == nil || cfg.PixClk == nil || cfg.DMA == nil {
		return nil, fmt.Errorf("lcdc: incomplete config")
	}
	if cfg.Soc.NeedsDevClk && cfg.LcdClk == nil {
		return nil, fmt.Errorf("lcdc: %s requires the LCD device clock", cfg.Soc.Compatible)
	}
	if cfg.HasIPU && !cfg.Soc.HasOSD {
		return nil, fmt.Errorf("lcdc: IPU plane requires the OSD unit")
	}

	c := &Controller{
		soc:            cfg.Soc,
		regs:           cfg.Regs,
		pixClk:         cfg.PixClk,
		hasIPU:         cfg.HasIPU,
		cachedBufs:     cfg.CachedBuffers,
		disableTimeout: cfg.DisableTimeout,
		bus:            event.NewDispatcher(),
	}
	if cfg.Soc.NeedsDevClk {
		c.lcdClk = cfg.LcdClk
	}
	if c.disableTimeout == 0 {
		c.disableTimeout = defaultDisableTimeout
	}

	descs, err := newDescTable(cfg.DMA)
	if err != nil {
		return nil, err
	}
	c.descs = descs

	if err := c.startClocks(); err != nil {
		return nil, err
	}

	// Point both DMA channels at their self-linked descriptors.
	c.regs.Write(jz47xx.LCD_DA0, descs.phys[0])
	c.regs.Write(jz47xx.LCD_DA1, descs.phys[1])

	if c.soc.HasOSD {
		c.regs.Write(jz47xx.LCD_OSDC, jz47xx.LCD_OSDC_OSDEN)
		c.regs.Write(jz47xx.LCD_BGC, 0)
		c.regs.Write(jz47xx.LCD_KEY0, 0)
		c.regs.Write(jz47xx.LCD_KEY1, 0)
		// Fully opaque; per-plane blending is not exposed.
		c.regs.Write(jz47xx.LCD_ALPHA, 0xff)
	}

	log.Infof("LCD controller up on %s (OSD %v, IPU %v)",
		c.soc.Compatible, c.soc.HasOSD, c.hasIPU)
	return c, nil
}

// startClocks enables the pixel clock and then, where present, the LCD
// device clock. The device clock must run at a fixed multiple of the
// nominal pixel clock (3x for STN panels, 1.5x for TFT), so it is set
// once to the highest rate its parent supplies instead of being chased
// on every mode change.
func (c *Controller) startClocks() error {
	if err := c.pixClk.Enable(); err != nil {
		return fmt.Errorf("lcdc: enable pixel clock: %w", err)
	}

	if c.lcdClk == nil {
		return nil
	}

	if parent := c.lcdClk.Parent(); parent != nil {
		if err := c.lcdClk.SetRate(parent.Rate()); err != nil {
			c.pixClk.Disable()
			return fmt.Errorf("lcdc: set LCD clock rate: %w", err)
		}
	}
	if err := c.lcdClk.Enable(); err != nil {
		c.pixClk.Disable()
		return fmt.Errorf("lcdc: enable LCD clock: %w", err)
	}
	return nil
}

// Close disables scan-out if needed, stops the clocks in reverse
// bring-up order and releases the register window.
func (c *Controller) Close() error {
	var result *multierror.Error

	if c.enabled {
		if err := c.Disable(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if c.lcdClk != nil {
		if err := c.lcdClk.Disable(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := c.pixClk.Disable(); err != nil {
		result = multierror.Append(result, err)
	}

	c.regs.Close()
	return result.ErrorOrNil()
}

// Soc exposes the capability table the controller was brought up with.
func (c *Controller) Soc() *jz47xx.SocInfo {
	return c.soc
}

// Mode returns the last committed mode, or nil before the first modeset.
func (c *Controller) Mode() *Mode {
	return c.lastMode
}
