// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lcdc

import (
	"fmt"
	"image"

	"github.com/ingenic-go/jzlcd/pkg/jz47xx"
)

// PlaneType identifies one scan-out layer. Primary is foreground 1 in
// hardware terms, Overlay is foreground 0 and only exists on parts with
// the OSD unit, and IPU is the image processing unit input path that can
// replace the overlay.
type PlaneType int

const (
	PlanePrimary PlaneType = iota
	PlaneOverlay
	PlaneIPU
	planeCount
)

func (p PlaneType) String() string {
	switch p {
	case PlanePrimary:
		return "primary"
	case PlaneOverlay:
		return "overlay"
	case PlaneIPU:
		return "ipu"
	}
	return "invalid"
}

// Framebuffer describes a scan-out buffer. The driver never allocates
// pixel memory itself; buffers come fully formed from whoever owns the
// memory (a dumb allocator, a capture pipeline, ...).
type Framebuffer struct {
	// PhysAddr is the bus address the DMA engine fetches from.
	PhysAddr uint32
	Width    int
	Height   int
	// Stride in bytes. Zero means tightly packed.
	Stride int
	Format PixelFormat

	// Sync, when set and cached buffers are configured, is called with
	// the transfer length in bytes to write back CPU caches before the
	// descriptor is armed.
	Sync func(bytes int)
}

func (fb *Framebuffer) stride() int {
	if fb.Stride != 0 {
		return fb.Stride
	}
	return fb.Width * fb.Format.BytesPerPixel()
}

// PlaneState is a proposed or applied configuration of one plane. A nil
// FB means the plane is disabled. Src selects the region of the
// framebuffer to scan out, Dst places it on screen.
type PlaneState struct {
	FB  *Framebuffer
	Src image.Rectangle
	Dst image.Rectangle
}

func (s *PlaneState) enabled() bool {
	return s.FB != nil
}

// checkPlane validates the new state of one plane against the hardware
// capabilities and decides whether applying it forces a full mode
// reconstruction.
func (c *Controller) checkPlane(pt PlaneType, cs *CommitState) error {
	ns := cs.Planes[pt]
	old := &c.planes[pt]

	if pt == PlaneOverlay && !c.soc.HasOSD {
		return fmt.Errorf("%w: no overlay on %s", ErrNoSuchPlane, c.soc.Compatible)
	}
	if pt == PlaneIPU && !c.hasIPU {
		return fmt.Errorf("%w: no IPU plane", ErrNoSuchPlane)
	}

	if ns.enabled() {
		if !formatSupported(ns.FB.Format) {
			return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ns.FB.Format)
		}
		// The engine fetches lines verbatim; it can neither scale nor
		// replicate pixels.
		if ns.Src.Size() != ns.Dst.Size() {
			return fmt.Errorf("%w: src %v dst %v", ErrScalingUnsupported,
				ns.Src.Size(), ns.Dst.Size())
		}
		// The position registers hold unsigned pixel counts and the
		// descriptor address math assumes the source rect lies inside
		// the buffer; anything else must never reach the registers.
		if ns.Src.Min.X < 0 || ns.Src.Min.Y < 0 ||
			ns.Src.Max.X > ns.FB.Width || ns.Src.Max.Y > ns.FB.Height {
			return fmt.Errorf("%w: src %v in %dx%d buffer", ErrPlaneOutOfBounds,
				ns.Src, ns.FB.Width, ns.FB.Height)
		}
		if ns.Dst.Min.X < 0 || ns.Dst.Min.Y < 0 ||
			ns.Dst.Max.X > cs.Mode.HDisplay || ns.Dst.Max.Y > cs.Mode.VDisplay {
			return fmt.Errorf("%w: dst %v in mode %s", ErrPlaneOutOfBounds,
				ns.Dst, &cs.Mode)
		}
		if !c.soc.HasOSD {
			// Without the OSD unit the single foreground always covers
			// the whole display, fed from the buffer origin.
			if ns.Src.Min != image.Pt(0, 0) || ns.Dst.Min != image.Pt(0, 0) {
				return fmt.Errorf("%w: src %v dst %v", ErrNoPlanePosition,
					ns.Src, ns.Dst)
			}
		}
	}

	// Enabling or disabling a foreground, or moving, resizing or
	// changing the depth of an enabled one, reprograms the OSD
	// configuration and therefore needs the full modeset path.
	if c.soc.HasOSD {
		switch {
		case old.enabled() != ns.enabled():
			cs.ModeChanged = true
		case old.enabled() && ns.enabled() &&
			(old.Dst != ns.Dst || old.FB.Format != ns.FB.Format):
			cs.ModeChanged = true
		}
	}

	return nil
}

// descIndex maps a plane to its DMA channel. Without the OSD unit there
// is a single channel 0; with it, foreground 0 (overlay) is fed by
// channel 0 and foreground 1 (primary) by channel 1.
func (c *Controller) descIndex(pt PlaneType) int {
	if !c.soc.HasOSD {
		return 0
	}
	if pt == PlanePrimary {
		return 1
	}
	return 0
}

func (c *Controller) planeEnableBit(pt PlaneType) uint32 {
	if pt == PlanePrimary {
		return jz47xx.LCD_OSDC_F1EN
	}
	return jz47xx.LCD_OSDC_F0EN
}

func (c *Controller) enablePlane(pt PlaneType) {
	if c.soc.HasOSD {
		en := c.planeEnableBit(pt)
		c.regs.UpdateBits(jz47xx.LCD_OSDC, en, en)
	}
}

func (c *Controller) disablePlane(pt PlaneType) {
	if c.soc.HasOSD {
		c.regs.UpdateBits(jz47xx.LCD_OSDC, c.planeEnableBit(pt), 0)
	}
}

// configurePlane programs enable, depth, position and size of a plane.
// Only called on the full modeset path.
func (c *Controller) configurePlane(pt PlaneType, ns *PlaneState) {
	if ns.FB == nil {
		panic("lcdc: configurePlane with no framebuffer")
	}

	c.enablePlane(pt)

	if c.soc.HasOSD && pt == PlanePrimary {
		c.regs.UpdateBits(jz47xx.LCD_OSDCTRL, jz47xx.LCD_OSDCTRL_BPP_MASK,
			osdFormatBits(ns.FB.Format))
	} else {
		c.regs.UpdateBits(jz47xx.LCD_CTRL, jz47xx.LCD_CTRL_BPP_MASK,
			ctrlFormatBits(ns.FB.Format))
	}

	if c.soc.HasOSD {
		xyReg, sizeReg := jz47xx.LCD_XYP0, jz47xx.LCD_SIZE0
		if pt == PlanePrimary {
			xyReg, sizeReg = jz47xx.LCD_XYP1, jz47xx.LCD_SIZE1
		}
		c.regs.Write(xyReg,
			uint32(ns.Dst.Min.X)<<jz47xx.LCD_XYP01_XPOS_LSB|
				uint32(ns.Dst.Min.Y)<<jz47xx.LCD_XYP01_YPOS_LSB)
		c.regs.Write(sizeReg,
			uint32(ns.Dst.Dx())<<jz47xx.LCD_SIZE01_WIDTH_LSB|
				uint32(ns.Dst.Dy())<<jz47xx.LCD_SIZE01_HEIGHT_LSB)
	}
}

// updatePlane pushes the new state of one plane to hardware: descriptor
// for the next frame, plus full plane configuration on a modeset.
func (c *Controller) updatePlane(pt PlaneType, cs *CommitState) {
	ns := cs.Planes[pt]

	if !ns.enabled() {
		c.disablePlane(pt)
		c.planes[pt] = *ns
		return
	}

	if pt == PlaneIPU {
		// The IPU owns its own DMA; the LCDC side is just the path
		// select programmed in Begin.
		c.planes[pt] = *ns
		return
	}

	fb := ns.FB
	cpp := fb.Format.BytesPerPixel()
	addr := fb.PhysAddr +
		uint32(ns.Src.Min.Y*fb.stride()) + uint32(ns.Src.Min.X*cpp)
	width, height := ns.Src.Dx(), ns.Src.Dy()
	length := width * height * cpp

	// With CPU-cached buffers the dirty lines must reach memory before
	// the descriptor points at them, never after.
	if c.cachedBufs && fb.Sync != nil {
		fb.Sync(length)
	}

	c.descs.arm(c.descIndex(pt), addr, uint32(length/4))

	if cs.ModeChanged {
		c.configurePlane(pt, ns)
	}

	c.planes[pt] = *ns
}
