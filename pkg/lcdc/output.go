// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lcdc

import (
	"fmt"

	"github.com/ingenic-go/jzlcd/pkg/jz47xx"
)

// Connector is the class of downstream sink.
type Connector int

const (
	// ConnectorDPI is a parallel RGB panel.
	ConnectorDPI Connector = iota
	// ConnectorTV is the TV encoder output.
	ConnectorTV
)

// BusFormat is the wire format between controller and panel. A closed
// enumeration; panels negotiate exactly one.
type BusFormat int

const (
	BusFormatInvalid BusFormat = iota
	// BusFormatRGB565 is 16 parallel data lines.
	BusFormatRGB565
	// BusFormatRGB666 is 18 parallel data lines.
	BusFormatRGB666
	// BusFormatRGB888 is 24 parallel data lines.
	BusFormatRGB888
	// BusFormatRGB888Serial is 8 data lines carrying R, G, B serially.
	BusFormatRGB888Serial
)

func (b BusFormat) String() string {
	switch b {
	case BusFormatRGB565:
		return "RGB565-1x16"
	case BusFormatRGB666:
		return "RGB666-1x18"
	case BusFormatRGB888:
		return "RGB888-1x24"
	case BusFormatRGB888Serial:
		return "RGB888-3x8"
	}
	return "invalid"
}

// OutputConfig carries the bus characteristics discovered from the
// downstream panel or TV encoder. Read-only input to the mode-set path.
type OutputConfig struct {
	Connector Connector
	BusFormat BusFormat

	// SharpSignals selects the special TFT timing sub-mode used by
	// Sharp panel classes, with its own extra signal registers and
	// inverted REV polarity.
	SharpSignals bool
	// DataEnableLow marks the DE signal active low.
	DataEnableLow bool
	// PixClkFalling latches data on the falling pixel clock edge.
	PixClkFalling bool
}

// CheckOutput validates an output configuration before it is committed.
// The TV encoder ignores the bus format; everything else must name one
// supported format.
func (c *Controller) CheckOutput(out *OutputConfig) error {
	if out.Connector == ConnectorTV || out.SharpSignals {
		return nil
	}
	switch out.BusFormat {
	case BusFormatRGB565, BusFormatRGB666, BusFormatRGB888, BusFormatRGB888Serial:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedBus, out.BusFormat)
}

// ConfigureOutput programs the general configuration register for a
// mode/output pair and latches the timing sub-mode for later timing
// reprogramming. Runs once per mode-set, after the plane updates
// (the bus depth depends on the primary framebuffer) and before
// Flush programs the timings.
func (c *Controller) ConfigureOutput(out *OutputConfig, mode *Mode) error {
	cfg, err := c.busConfigBits(out, mode)
	if err != nil {
		return err
	}

	c.panelIsSharp = out.SharpSignals
	c.regs.Write(jz47xx.LCD_CFG, cfg)

	log.Debugf("Output configured: %s, cfg %08x", out.BusFormat, cfg)
	return nil
}

func (c *Controller) busConfigBits(out *OutputConfig, mode *Mode) (uint32, error) {
	var cfg uint32

	if out.SharpSignals {
		cfg = jz47xx.LCD_CFG_MODE_SPECIAL_TFT_1 | jz47xx.LCD_CFG_REV_POLARITY
	} else {
		cfg = jz47xx.LCD_CFG_PS_DISABLE | jz47xx.LCD_CFG_CLS_DISABLE |
			jz47xx.LCD_CFG_SPL_DISABLE | jz47xx.LCD_CFG_REV_DISABLE
	}

	if mode.Flags&ModeFlagNHSync != 0 {
		cfg |= jz47xx.LCD_CFG_HSYNC_ACTIVE_LOW
	}
	if mode.Flags&ModeFlagNVSync != 0 {
		cfg |= jz47xx.LCD_CFG_VSYNC_ACTIVE_LOW
	}
	if out.DataEnableLow {
		cfg |= jz47xx.LCD_CFG_DE_ACTIVE_LOW
	}
	if out.PixClkFalling {
		cfg |= jz47xx.LCD_CFG_PCLK_FALLING
	}

	if out.SharpSignals {
		return cfg, nil
	}

	if out.Connector == ConnectorTV {
		if mode.Flags&ModeFlagInterlace != 0 {
			cfg |= jz47xx.LCD_CFG_MODE_TV_OUT_I
		} else {
			cfg |= jz47xx.LCD_CFG_MODE_TV_OUT_P
		}
		return cfg, nil
	}

	switch out.BusFormat {
	case BusFormatRGB565:
		cfg |= jz47xx.LCD_CFG_MODE_GENERIC_16BIT
	case BusFormatRGB666:
		cfg |= jz47xx.LCD_CFG_MODE_GENERIC_18BIT
	case BusFormatRGB888:
		// A 24-bit panel scanning out 16bpp data is configured as if it
		// were 18-bit: the board wires each color component to the MSBs
		// of the 24-bit interface. Deliberate compatibility shim for
		// that panel wiring, kept as a special case.
		if fb := c.planes[PlanePrimary].FB; fb != nil && fb.Format.BytesPerPixel() < 3 {
			cfg |= jz47xx.LCD_CFG_MODE_GENERIC_18BIT
		} else {
			cfg |= jz47xx.LCD_CFG_MODE_GENERIC_24BIT
		}
	case BusFormatRGB888Serial:
		cfg |= jz47xx.LCD_CFG_MODE_8BIT_SERIAL
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedBus, out.BusFormat)
	}

	return cfg, nil
}
