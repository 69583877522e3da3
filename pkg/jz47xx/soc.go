// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jz47xx

import "fmt"

// SocInfo describes the LCD controller capabilities of one SoC variant.
// It is selected once at bring-up and threaded through every decision
// point in the driver.
type SocInfo struct {
	Compatible string

	// NeedsDevClk is set on parts where the LCD device clock is a
	// separate gate from the pixel clock.
	NeedsDevClk bool
	// HasOSD is set on parts with the on-screen-display unit, which
	// provides a second foreground and free plane positioning.
	HasOSD bool

	MaxWidth, MaxHeight int
}

var socInfos = []*SocInfo{
	{
		Compatible:  "ingenic,jz4740-lcd",
		NeedsDevClk: true,
		HasOSD:      false,
		MaxWidth:    800,
		MaxHeight:   600,
	},
	{
		Compatible:  "ingenic,jz4725b-lcd",
		NeedsDevClk: false,
		HasOSD:      true,
		MaxWidth:    800,
		MaxHeight:   600,
	},
	{
		Compatible:  "ingenic,jz4770-lcd",
		NeedsDevClk: false,
		HasOSD:      true,
		MaxWidth:    1280,
		MaxHeight:   720,
	},
}

// SocByCompatible looks up the capability table by devicetree compatible
// string, e.g. "ingenic,jz4740-lcd".
func SocByCompatible(compatible string) (*SocInfo, error) {
	for _, s := range socInfos {
		if s.Compatible == compatible {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unsupported SoC %q", compatible)
}

// Socs lists all supported SoC variants.
func Socs() []*SocInfo {
	return socInfos
}
