// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lcdc

import "github.com/ingenic-go/jzlcd/pkg/jz47xx"

// PixelFormat enumerates the framebuffer layouts the DMA engine can scan
// out. This is a closed set; anything else is rejected during check.
type PixelFormat uint32

const (
	FormatXRGB1555 PixelFormat = iota + 1
	FormatRGB565
	FormatXRGB8888
)

func (f PixelFormat) String() string {
	switch f {
	case FormatXRGB1555:
		return "XRGB1555"
	case FormatRGB565:
		return "RGB565"
	case FormatXRGB8888:
		return "XRGB8888"
	}
	return "unknown"
}

func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatXRGB1555, FormatRGB565:
		return 2
	case FormatXRGB8888:
		return 4
	}
	return 0
}

func formatSupported(f PixelFormat) bool {
	switch f {
	case FormatXRGB1555, FormatRGB565, FormatXRGB8888:
		return true
	}
	return false
}

// ctrlFormatBits returns the LCDCTRL bpp field for a format.
func ctrlFormatBits(f PixelFormat) uint32 {
	var ctrl uint32
	switch f {
	case FormatXRGB1555:
		ctrl |= jz47xx.LCD_CTRL_RGB555
		fallthrough
	case FormatRGB565:
		ctrl |= jz47xx.LCD_CTRL_BPP_15_16
	case FormatXRGB8888:
		ctrl |= jz47xx.LCD_CTRL_BPP_18_24
	}
	return ctrl
}

// osdFormatBits returns the LCDOSDCTRL bpp field for a format.
func osdFormatBits(f PixelFormat) uint32 {
	var ctrl uint32
	switch f {
	case FormatXRGB1555:
		ctrl |= jz47xx.LCD_OSDCTRL_RGB555
		fallthrough
	case FormatRGB565:
		ctrl |= jz47xx.LCD_OSDCTRL_BPP_15_16
	case FormatXRGB8888:
		ctrl |= jz47xx.LCD_OSDCTRL_BPP_18_24
	}
	return ctrl
}
