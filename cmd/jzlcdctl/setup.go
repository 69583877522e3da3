// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/ingenic-go/jzlcd/pkg/jz47xx"
	"github.com/ingenic-go/jzlcd/pkg/lcdc"
)

var (
	flagDMABase       uint32
	flagDMASize       int
	flagPixClkMax     int64
	flagLcdParentRate int64
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Uint32Var(&flagDMABase, "dma-base", 0x01f00000,
		"physical base of the reserved DMA region")
	pf.IntVar(&flagDMASize, "dma-size", 4096,
		"size of the reserved DMA region in bytes")
	pf.Int64Var(&flagPixClkMax, "pixclk-max", 200000000,
		"highest achievable pixel clock rate in Hz")
	pf.Int64Var(&flagLcdParentRate, "lcd-parent-rate", 432000000,
		"rate of the LCD device clock parent in Hz")
}

// buildController assembles a controller from a panel description and
// the global flags. Clock control is not reachable from userspace, so
// the clock tree is modeled with software clocks; the rates programmed
// here must match what the boot loader set up.
func buildController(panel *panelFile) (*lcdc.Controller, func(), error) {
	soc, err := jz47xx.SocByCompatible(panel.Compatible)
	if err != nil {
		return nil, nil, err
	}

	regs, err := openRegmap()
	if err != nil {
		return nil, nil, err
	}

	dma, closeDMA, err := openDMA(flagDMABase, flagDMASize)
	if err != nil {
		regs.Close()
		return nil, nil, err
	}

	cfg := lcdc.Config{
		Soc:    soc,
		Regs:   regs,
		PixClk: lcdc.NewFixedClock("lpclk", 0).WithRange(1000000, flagPixClkMax),
		DMA:    dma,
		HasIPU: panel.HasIPU,
	}
	if soc.NeedsDevClk {
		parent := lcdc.NewFixedClock("pll", flagLcdParentRate)
		cfg.LcdClk = lcdc.NewFixedClock("lcd", 0).WithParent(parent)
	}

	c, err := lcdc.New(cfg)
	if err != nil {
		regs.Close()
		closeDMA()
		return nil, nil, err
	}
	return c, closeDMA, nil
}
