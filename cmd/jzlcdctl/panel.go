// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/ingenic-go/jzlcd/pkg/lcdc"
)

// panelFile is the on-disk description of one board: the SoC, the panel
// timing, the bus wiring and the scan-out buffer.
type panelFile struct {
	Compatible string `toml:"compatible"`
	HasIPU     bool   `toml:"has_ipu"`

	Mode struct {
		Clock      int  `toml:"clock"`
		HDisplay   int  `toml:"hdisplay"`
		HSyncStart int  `toml:"hsync_start"`
		HSyncEnd   int  `toml:"hsync_end"`
		HTotal     int  `toml:"htotal"`
		VDisplay   int  `toml:"vdisplay"`
		VSyncStart int  `toml:"vsync_start"`
		VSyncEnd   int  `toml:"vsync_end"`
		VTotal     int  `toml:"vtotal"`
		NHSync     bool `toml:"hsync_active_low"`
		NVSync     bool `toml:"vsync_active_low"`
		Interlace  bool `toml:"interlace"`
	} `toml:"mode"`

	Output struct {
		Connector     string `toml:"connector"`
		BusFormat     string `toml:"bus_format"`
		SharpSignals  bool   `toml:"sharp_signals"`
		DataEnableLow bool   `toml:"de_active_low"`
		PixClkFalling bool   `toml:"pixclk_falling"`
	} `toml:"output"`

	Framebuffer struct {
		PhysAddr uint32 `toml:"phys_addr"`
		Stride   int    `toml:"stride"`
		Format   string `toml:"format"`
	} `toml:"framebuffer"`
}

func loadPanelFile(path string) (*panelFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("panel file: %w", err)
	}
	var p panelFile
	if err := toml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("panel file %s: %w", path, err)
	}
	if p.Compatible == "" {
		return nil, fmt.Errorf("panel file %s: missing compatible string", path)
	}
	return &p, nil
}

func (p *panelFile) mode() lcdc.Mode {
	m := lcdc.Mode{
		Clock:    p.Mode.Clock,
		HDisplay: p.Mode.HDisplay, HSyncStart: p.Mode.HSyncStart,
		HSyncEnd: p.Mode.HSyncEnd, HTotal: p.Mode.HTotal,
		VDisplay: p.Mode.VDisplay, VSyncStart: p.Mode.VSyncStart,
		VSyncEnd: p.Mode.VSyncEnd, VTotal: p.Mode.VTotal,
	}
	if p.Mode.NHSync {
		m.Flags |= lcdc.ModeFlagNHSync
	}
	if p.Mode.NVSync {
		m.Flags |= lcdc.ModeFlagNVSync
	}
	if p.Mode.Interlace {
		m.Flags |= lcdc.ModeFlagInterlace
	}
	return m
}

func (p *panelFile) output() (lcdc.OutputConfig, error) {
	out := lcdc.OutputConfig{
		SharpSignals:  p.Output.SharpSignals,
		DataEnableLow: p.Output.DataEnableLow,
		PixClkFalling: p.Output.PixClkFalling,
	}

	switch p.Output.Connector {
	case "", "dpi":
		out.Connector = lcdc.ConnectorDPI
	case "tv":
		out.Connector = lcdc.ConnectorTV
	default:
		return out, fmt.Errorf("unknown connector %q", p.Output.Connector)
	}

	switch p.Output.BusFormat {
	case "rgb565":
		out.BusFormat = lcdc.BusFormatRGB565
	case "rgb666":
		out.BusFormat = lcdc.BusFormatRGB666
	case "rgb888":
		out.BusFormat = lcdc.BusFormatRGB888
	case "rgb888-serial":
		out.BusFormat = lcdc.BusFormatRGB888Serial
	case "":
		if out.Connector != lcdc.ConnectorTV && !out.SharpSignals {
			return out, fmt.Errorf("missing bus_format")
		}
	default:
		return out, fmt.Errorf("unknown bus_format %q", p.Output.BusFormat)
	}

	return out, nil
}

func (p *panelFile) framebuffer() (*lcdc.Framebuffer, error) {
	var format lcdc.PixelFormat
	switch p.Framebuffer.Format {
	case "xrgb1555":
		format = lcdc.FormatXRGB1555
	case "", "rgb565":
		format = lcdc.FormatRGB565
	case "xrgb8888":
		format = lcdc.FormatXRGB8888
	default:
		return nil, fmt.Errorf("unknown framebuffer format %q", p.Framebuffer.Format)
	}
	return &lcdc.Framebuffer{
		PhysAddr: p.Framebuffer.PhysAddr,
		Width:    p.Mode.HDisplay,
		Height:   p.Mode.VDisplay,
		Stride:   p.Framebuffer.Stride,
		Format:   format,
	}, nil
}
