// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jz47xx

// Register map of the JZ47xx LCD controller. Offsets are relative to the
// LCDC block base (0x13050000 on all supported parts). All registers are
// 32 bit wide.
const (
	LCD_BASE uintptr = 0x13050000

	// LCDCFG: General configuration (output mode, signal polarities)
	LCD_CFG uintptr = 0x00
	// LCDVSYNC: Vertical sync pulse start/end, in line clocks
	LCD_VSYNC uintptr = 0x04
	// LCDHSYNC: Horizontal sync pulse start/end, in pixel clocks
	LCD_HSYNC uintptr = 0x08
	// LCDVAT: Virtual area total (horizontal/vertical totals)
	LCD_VAT uintptr = 0x0c
	// LCDDAH: Display area start/end, horizontal
	LCD_DAH uintptr = 0x10
	// LCDDAV: Display area start/end, vertical
	LCD_DAV uintptr = 0x14
	// LCDPS: PS signal setting (special TFT panels only)
	LCD_PS uintptr = 0x18
	// LCDCLS: CLS signal setting (special TFT panels only)
	LCD_CLS uintptr = 0x1c
	// LCDSPL: SPL signal setting (special TFT panels only)
	LCD_SPL uintptr = 0x20
	// LCDREV: REV signal setting (special TFT panels only)
	LCD_REV uintptr = 0x24
	// LCDCTRL: Global control (enable, bpp, burst, interrupt enables)
	LCD_CTRL uintptr = 0x30
	// LCDSTATE: Status (end of frame, underrun, disabled)
	LCD_STATE uintptr = 0x34
	// LCDIID: Interrupt descriptor id, latched by hardware
	LCD_IID uintptr = 0x38
	// LCDDA0: Descriptor chain address, DMA channel 0
	LCD_DA0 uintptr = 0x40
	// LCDSA0: Frame source address readback, channel 0
	LCD_SA0 uintptr = 0x44
	// LCDFID0: Frame id readback, channel 0
	LCD_FID0 uintptr = 0x48
	// LCDCMD0: Command readback, channel 0
	LCD_CMD0 uintptr = 0x4c
	// LCDDA1: Descriptor chain address, DMA channel 1
	LCD_DA1 uintptr = 0x50
	// LCDSA1: Frame source address readback, channel 1
	LCD_SA1 uintptr = 0x54
	// LCDFID1: Frame id readback, channel 1
	LCD_FID1 uintptr = 0x58
	// LCDCMD1: Command readback, channel 1
	LCD_CMD1 uintptr = 0x5c
	// LCDOSDC: OSD configuration (foreground enables)
	LCD_OSDC uintptr = 0x100
	// LCDOSDCTRL: OSD control (IPU path select, foreground 1 bpp)
	LCD_OSDCTRL uintptr = 0x104
	// LCDOSDS: OSD status
	LCD_OSDS uintptr = 0x108
	// LCDBGC: Background color
	LCD_BGC uintptr = 0x10c
	// LCDKEY0: Foreground 0 color key
	LCD_KEY0 uintptr = 0x110
	// LCDKEY1: Foreground 1 color key
	LCD_KEY1 uintptr = 0x114
	// LCDALPHA: Global alpha blending
	LCD_ALPHA uintptr = 0x118
	// LCDIPUR: IPU restart / urgent DMA threshold
	LCD_IPUR uintptr = 0x11c
	// LCDXYP0: Foreground 0 position
	LCD_XYP0 uintptr = 0x120
	// LCDXYP1: Foreground 1 position
	LCD_XYP1 uintptr = 0x124
	// LCDSIZE0: Foreground 0 size
	LCD_SIZE0 uintptr = 0x128
	// LCDSIZE1: Foreground 1 size
	LCD_SIZE1 uintptr = 0x12c

	// Highest implemented register offset.
	LCD_MAX_REGISTER = LCD_SIZE1
)

// LCDCFG fields
const (
	LCD_CFG_SLCD             uint32 = 1 << 31
	LCD_CFG_PS_DISABLE       uint32 = 1 << 23
	LCD_CFG_CLS_DISABLE      uint32 = 1 << 22
	LCD_CFG_SPL_DISABLE      uint32 = 1 << 21
	LCD_CFG_REV_DISABLE      uint32 = 1 << 20
	LCD_CFG_HSYNCM           uint32 = 1 << 19
	LCD_CFG_PCLKM            uint32 = 1 << 18
	LCD_CFG_INV              uint32 = 1 << 17
	LCD_CFG_SYNC_DIR         uint32 = 1 << 16
	LCD_CFG_PS_POLARITY      uint32 = 1 << 15
	LCD_CFG_CLS_POLARITY     uint32 = 1 << 14
	LCD_CFG_SPL_POLARITY     uint32 = 1 << 13
	LCD_CFG_REV_POLARITY     uint32 = 1 << 12
	LCD_CFG_HSYNC_ACTIVE_LOW uint32 = 1 << 11
	LCD_CFG_PCLK_FALLING     uint32 = 1 << 10
	LCD_CFG_DE_ACTIVE_LOW    uint32 = 1 << 9
	LCD_CFG_VSYNC_ACTIVE_LOW uint32 = 1 << 8
	LCD_CFG_18_BIT           uint32 = 1 << 7
	LCD_CFG_24_BIT           uint32 = 1 << 6

	LCD_CFG_MODE_MASK uint32 = 0xf

	LCD_CFG_MODE_GENERIC_16BIT uint32 = 0
	LCD_CFG_MODE_GENERIC_18BIT uint32 = LCD_CFG_18_BIT
	LCD_CFG_MODE_GENERIC_24BIT uint32 = LCD_CFG_24_BIT
	LCD_CFG_MODE_SPECIAL_TFT_1 uint32 = 1
	LCD_CFG_MODE_SPECIAL_TFT_2 uint32 = 2
	LCD_CFG_MODE_SPECIAL_TFT_3 uint32 = 3
	LCD_CFG_MODE_TV_OUT_P      uint32 = 4
	LCD_CFG_MODE_TV_OUT_I      uint32 = 6
	LCD_CFG_MODE_8BIT_SERIAL   uint32 = 12
)

// LCDVSYNC/LCDHSYNC fields
const (
	LCD_VSYNC_VPS_OFFSET = 16
	LCD_VSYNC_VPE_OFFSET = 0
	LCD_HSYNC_HPS_OFFSET = 16
	LCD_HSYNC_HPE_OFFSET = 0
)

// LCDVAT/LCDDAH/LCDDAV fields
const (
	LCD_VAT_HT_OFFSET  = 16
	LCD_VAT_VT_OFFSET  = 0
	LCD_DAH_HDS_OFFSET = 16
	LCD_DAH_HDE_OFFSET = 0
	LCD_DAV_VDS_OFFSET = 16
	LCD_DAV_VDE_OFFSET = 0
)

// LCDCTRL fields
const (
	LCD_CTRL_BURST_4        uint32 = 0 << 28
	LCD_CTRL_BURST_8        uint32 = 1 << 28
	LCD_CTRL_BURST_16       uint32 = 2 << 28
	LCD_CTRL_RGB555         uint32 = 1 << 27
	LCD_CTRL_OFUP           uint32 = 1 << 26
	LCD_CTRL_PDD_MASK       uint32 = 0xff << 16
	LCD_CTRL_EOF_IRQ        uint32 = 1 << 13
	LCD_CTRL_SOF_IRQ        uint32 = 1 << 12
	LCD_CTRL_OFU_IRQ        uint32 = 1 << 11
	LCD_CTRL_IFU0_IRQ       uint32 = 1 << 10
	LCD_CTRL_IFU1_IRQ       uint32 = 1 << 9
	LCD_CTRL_DD_IRQ         uint32 = 1 << 8
	LCD_CTRL_QDD_IRQ        uint32 = 1 << 7
	LCD_CTRL_REVERSE_ENDIAN uint32 = 1 << 6
	LCD_CTRL_LSB_FIRST      uint32 = 1 << 5
	LCD_CTRL_DISABLE        uint32 = 1 << 4
	LCD_CTRL_ENABLE         uint32 = 1 << 3

	LCD_CTRL_BPP_1     uint32 = 0
	LCD_CTRL_BPP_2     uint32 = 1
	LCD_CTRL_BPP_4     uint32 = 2
	LCD_CTRL_BPP_8     uint32 = 3
	LCD_CTRL_BPP_15_16 uint32 = 4
	LCD_CTRL_BPP_18_24 uint32 = 5
	LCD_CTRL_BPP_MASK  uint32 = LCD_CTRL_RGB555 | 0x7
)

// LCDSTATE fields
const (
	LCD_STATE_EOF_IRQ  uint32 = 1 << 5
	LCD_STATE_SOF_IRQ  uint32 = 1 << 4
	LCD_STATE_OFU_IRQ  uint32 = 1 << 3
	LCD_STATE_DISABLED uint32 = 1 << 0
)

// Descriptor command word fields
const (
	LCD_CMD_SOF_IRQ  uint32 = 1 << 31
	LCD_CMD_EOF_IRQ  uint32 = 1 << 30
	LCD_CMD_LEN_MASK uint32 = 0x00ffffff
)

// LCDOSDC fields
const (
	LCD_OSDC_OSDEN uint32 = 1 << 0
	LCD_OSDC_F0EN  uint32 = 1 << 3
	LCD_OSDC_F1EN  uint32 = 1 << 4
)

// LCDOSDCTRL fields
const (
	LCD_OSDCTRL_IPU       uint32 = 1 << 15
	LCD_OSDCTRL_RGB555    uint32 = 1 << 4
	LCD_OSDCTRL_CHANGE    uint32 = 1 << 3
	LCD_OSDCTRL_BPP_15_16 uint32 = 4
	LCD_OSDCTRL_BPP_18_24 uint32 = 5
	LCD_OSDCTRL_BPP_MASK  uint32 = LCD_OSDCTRL_RGB555 | 0x7
)

// LCDIPUR fields
const (
	LCD_IPUR_IPUREN   uint32 = 1 << 31
	LCD_IPUR_IPUR_LSB        = 0
)

// LCDXYP01/LCDSIZE01 fields
const (
	LCD_XYP01_XPOS_LSB    = 0
	LCD_XYP01_YPOS_LSB    = 16
	LCD_SIZE01_WIDTH_LSB  = 0
	LCD_SIZE01_HEIGHT_LSB = 16
)

// WritableReg reports whether the register at the given offset may be
// written by the driver. The descriptor readback registers are updated by
// the DMA engine only.
func WritableReg(reg uintptr) bool {
	switch reg {
	case LCD_IID, LCD_SA0, LCD_FID0, LCD_CMD0, LCD_SA1, LCD_FID1, LCD_CMD1:
		return false
	}
	return true
}

var regNames = map[uintptr]string{
	LCD_CFG:     "LCDCFG",
	LCD_VSYNC:   "LCDVSYNC",
	LCD_HSYNC:   "LCDHSYNC",
	LCD_VAT:     "LCDVAT",
	LCD_DAH:     "LCDDAH",
	LCD_DAV:     "LCDDAV",
	LCD_PS:      "LCDPS",
	LCD_CLS:     "LCDCLS",
	LCD_SPL:     "LCDSPL",
	LCD_REV:     "LCDREV",
	LCD_CTRL:    "LCDCTRL",
	LCD_STATE:   "LCDSTATE",
	LCD_IID:     "LCDIID",
	LCD_DA0:     "LCDDA0",
	LCD_SA0:     "LCDSA0",
	LCD_FID0:    "LCDFID0",
	LCD_CMD0:    "LCDCMD0",
	LCD_DA1:     "LCDDA1",
	LCD_SA1:     "LCDSA1",
	LCD_FID1:    "LCDFID1",
	LCD_CMD1:    "LCDCMD1",
	LCD_OSDC:    "LCDOSDC",
	LCD_OSDCTRL: "LCDOSDCTRL",
	LCD_OSDS:    "LCDOSDS",
	LCD_BGC:     "LCDBGC",
	LCD_KEY0:    "LCDKEY0",
	LCD_KEY1:    "LCDKEY1",
	LCD_ALPHA:   "LCDALPHA",
	LCD_IPUR:    "LCDIPUR",
	LCD_XYP0:    "LCDXYP0",
	LCD_XYP1:    "LCDXYP1",
	LCD_SIZE0:   "LCDSIZE0",
	LCD_SIZE1:   "LCDSIZE1",
}

// RegName returns the datasheet name for a register offset, or the empty
// string for gaps in the register map.
func RegName(reg uintptr) string {
	return regNames[reg]
}

// Regs returns all implemented register offsets in ascending order.
func Regs() []uintptr {
	regs := make([]uintptr, 0, len(regNames))
	for r := uintptr(0); r <= LCD_MAX_REGISTER; r += 4 {
		if _, ok := regNames[r]; ok {
			regs = append(regs, r)
		}
	}
	return regs
}
