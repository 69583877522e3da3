// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lcdc

import (
	"errors"
	"image"
	"testing"

	"github.com/ingenic-go/jzlcd/pkg/jz47xx"
)

func TestCommitArmsDescriptor(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4740-lcd", false)

	cs := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: fullscreenPlane(320, 240, FormatXRGB8888)},
	}
	cs.Mode.HDisplay, cs.Mode.HSyncStart = 320, 332
	cs.Mode.HSyncEnd, cs.Mode.HTotal = 364, 380
	cs.Mode.VDisplay, cs.Mode.VSyncStart = 240, 244
	cs.Mode.VSyncEnd, cs.Mode.VTotal = 250, 260

	if err := c.Commit(cs); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// Without the OSD unit the only plane is fed by channel 0.
	if got := c.descs.addr(0); got != 0x03000000 {
		t.Errorf("descriptor addr = %08x, want 03000000", got)
	}
	words := uint32(320 * 240 * 4 / 4)
	wantCmd := words | jz47xx.LCD_CMD_EOF_IRQ
	if got := c.descs.cmd(0); got != wantCmd {
		t.Errorf("descriptor cmd = %08x, want %08x", got, wantCmd)
	}
	if got := c.descs.next(0); got != c.descs.phys[0] {
		t.Errorf("descriptor next = %08x, self link %08x lost", got, c.descs.phys[0])
	}
}

func TestCommitSourceOffset(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4770-lcd", false)

	fb := testFB(800, 600, FormatRGB565)
	ps := &PlaneState{
		FB:  fb,
		Src: image.Rect(100, 50, 740, 530),
		Dst: image.Rect(0, 0, 640, 480),
	}
	cs := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: ps},
	}
	if err := c.Commit(cs); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// 50 lines of 800 pixels at 2 bytes, then 100 pixels in.
	want := uint32(0x03000000 + 50*800*2 + 100*2)
	if got := c.descs.addr(1); got != want {
		t.Errorf("descriptor addr = %08x, want %08x", got, want)
	}
}

func TestCachedBufferSync(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4740-lcd", false)
	c.cachedBufs = true

	var synced int
	ps := fullscreenPlane(640, 480, FormatRGB565)
	ps.FB.Sync = func(bytes int) { synced = bytes }

	cs := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: ps},
	}
	if err := c.Commit(cs); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if want := 640 * 480 * 2; synced != want {
		t.Errorf("cache writeback for %d bytes, want %d", synced, want)
	}
}

func TestCheckRejectsScaling(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4770-lcd", false)

	cs := &CommitState{
		Mode: testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: {
			FB:  testFB(320, 240, FormatRGB565),
			Src: image.Rect(0, 0, 320, 240),
			Dst: image.Rect(0, 0, 640, 480),
		}},
	}
	if err := c.Check(cs); !errors.Is(err, ErrScalingUnsupported) {
		t.Errorf("Check = %v, want ErrScalingUnsupported", err)
	}
}

func TestCheckRejectsPositionWithoutOSD(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4740-lcd", false)

	cs := &CommitState{
		Mode: testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: {
			FB:  testFB(320, 240, FormatRGB565),
			Src: image.Rect(0, 0, 320, 240),
			Dst: image.Rect(100, 100, 420, 340),
		}},
	}
	if err := c.Check(cs); !errors.Is(err, ErrNoPlanePosition) {
		t.Errorf("Check = %v, want ErrNoPlanePosition", err)
	}
}

func TestCheckRejectsMissingPlanes(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4740-lcd", false)

	cs := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlaneOverlay: fullscreenPlane(640, 480, FormatRGB565)},
	}
	if err := c.Check(cs); !errors.Is(err, ErrNoSuchPlane) {
		t.Errorf("overlay Check = %v, want ErrNoSuchPlane", err)
	}

	osd, _ := newTestController(t, "ingenic,jz4770-lcd", false)
	cs = &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlaneIPU: fullscreenPlane(640, 480, FormatRGB565)},
	}
	if err := osd.Check(cs); !errors.Is(err, ErrNoSuchPlane) {
		t.Errorf("IPU Check = %v, want ErrNoSuchPlane", err)
	}
}

// Geometry that would wrap around in the unsigned position registers or
// walk out of the framebuffer must be rejected before any register or
// descriptor is touched.
func TestCheckRejectsOutOfBoundsGeometry(t *testing.T) {
	tests := []struct {
		name string
		ps   *PlaneState
	}{
		{"negative position", &PlaneState{
			FB:  testFB(320, 240, FormatRGB565),
			Src: image.Rect(0, 0, 320, 240),
			Dst: image.Rect(-16, -16, 304, 224),
		}},
		{"dst past display area", &PlaneState{
			FB:  testFB(320, 240, FormatRGB565),
			Src: image.Rect(0, 0, 320, 240),
			Dst: image.Rect(400, 300, 720, 540),
		}},
		{"src past buffer", &PlaneState{
			FB:  testFB(320, 240, FormatRGB565),
			Src: image.Rect(100, 100, 420, 340),
			Dst: image.Rect(0, 0, 320, 240),
		}},
		{"negative src", &PlaneState{
			FB:  testFB(320, 240, FormatRGB565),
			Src: image.Rect(-8, 0, 312, 240),
			Dst: image.Rect(0, 0, 320, 240),
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, sim := newTestController(t, "ingenic,jz4770-lcd", false)
			sim.ClearOps()

			cs := &CommitState{
				Mode:   testMode640x480(),
				Planes: map[PlaneType]*PlaneState{PlaneOverlay: tc.ps},
			}
			if err := c.Check(cs); !errors.Is(err, ErrPlaneOutOfBounds) {
				t.Fatalf("Check = %v, want ErrPlaneOutOfBounds", err)
			}
			if writes := sim.Writes(); len(writes) != 0 {
				t.Errorf("rejected check touched hardware: %v", writes)
			}
		})
	}
}

func TestCheckRejectsUnknownFormat(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4770-lcd", false)

	cs := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: fullscreenPlane(640, 480, PixelFormat(99))},
	}
	if err := c.Check(cs); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Check = %v, want ErrUnsupportedFormat", err)
	}
}

func TestCheckExclusiveOverlayIPU(t *testing.T) {
	c, _ := newTestController(t, "ingenic,jz4770-lcd", true)

	cs := &CommitState{
		Mode: testMode640x480(),
		Planes: map[PlaneType]*PlaneState{
			PlanePrimary: fullscreenPlane(640, 480, FormatRGB565),
			PlaneOverlay: fullscreenPlane(320, 240, FormatRGB565),
			PlaneIPU:     fullscreenPlane(640, 480, FormatXRGB8888),
		},
	}
	if err := c.Check(cs); !errors.Is(err, ErrExclusivePlanes) {
		t.Errorf("Check = %v, want ErrExclusivePlanes", err)
	}
}

// Changing a foreground's enable state, placement or depth forces the
// full modeset path; pure buffer swaps do not.
func TestCheckModesetTriggers(t *testing.T) {
	tests := []struct {
		name     string
		old, new *PlaneState
		want     bool
	}{
		{"buffer swap", fullscreenPlane(640, 480, FormatRGB565),
			fullscreenPlane(640, 480, FormatRGB565), false},
		{"enable", &PlaneState{}, fullscreenPlane(640, 480, FormatRGB565), true},
		{"disable", fullscreenPlane(640, 480, FormatRGB565), &PlaneState{}, true},
		{"move", fullscreenPlane(640, 480, FormatRGB565), &PlaneState{
			FB:  testFB(320, 240, FormatRGB565),
			Src: image.Rect(0, 0, 320, 240),
			Dst: image.Rect(10, 10, 330, 250),
		}, true},
		{"depth change", fullscreenPlane(640, 480, FormatRGB565),
			fullscreenPlane(640, 480, FormatXRGB8888), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestController(t, "ingenic,jz4770-lcd", false)

			first := &CommitState{
				Mode:   testMode640x480(),
				Planes: map[PlaneType]*PlaneState{PlanePrimary: tc.old},
			}
			if err := c.Commit(first); err != nil {
				t.Fatalf("initial commit: %v", err)
			}

			second := &CommitState{
				Mode:   testMode640x480(),
				Planes: map[PlaneType]*PlaneState{PlanePrimary: tc.new},
			}
			if err := c.Check(second); err != nil {
				t.Fatalf("Check: %v", err)
			}
			if second.ModeChanged != tc.want {
				t.Errorf("ModeChanged = %v, want %v", second.ModeChanged, tc.want)
			}
		})
	}
}

func TestCommitDisableClearsForegroundEnable(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4770-lcd", false)

	on := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: fullscreenPlane(640, 480, FormatRGB565)},
	}
	if err := c.Commit(on); err != nil {
		t.Fatalf("enable commit: %v", err)
	}
	osdc := sim.Peek(jz47xx.LCD_BASE + jz47xx.LCD_OSDC)
	if osdc&jz47xx.LCD_OSDC_F1EN == 0 {
		t.Fatalf("LCDOSDC = %08x, foreground 1 not enabled", osdc)
	}

	off := &CommitState{
		Mode:   testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlanePrimary: {}},
	}
	if err := c.Commit(off); err != nil {
		t.Fatalf("disable commit: %v", err)
	}
	if !off.NoVblank {
		t.Error("commit disabling the last plane not marked NoVblank")
	}
	osdc = sim.Peek(jz47xx.LCD_BASE + jz47xx.LCD_OSDC)
	if osdc&jz47xx.LCD_OSDC_F1EN != 0 {
		t.Errorf("LCDOSDC = %08x, foreground 1 still enabled", osdc)
	}
}

func TestCommitPlanePosition(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4770-lcd", false)

	cs := &CommitState{
		Mode: testMode640x480(),
		Planes: map[PlaneType]*PlaneState{PlaneOverlay: {
			FB:  testFB(320, 240, FormatRGB565),
			Src: image.Rect(0, 0, 320, 240),
			Dst: image.Rect(16, 32, 336, 272),
		}},
	}
	if err := c.Commit(cs); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if got := sim.Peek(jz47xx.LCD_BASE + jz47xx.LCD_XYP0); got != 32<<16|16 {
		t.Errorf("LCDXYP0 = %08x, want %08x", got, uint32(32<<16|16))
	}
	if got := sim.Peek(jz47xx.LCD_BASE + jz47xx.LCD_SIZE0); got != 240<<16|320 {
		t.Errorf("LCDSIZE0 = %08x, want %08x", got, uint32(240<<16|320))
	}
}

func TestCommitIPUSelectsPath(t *testing.T) {
	c, sim := newTestController(t, "ingenic,jz4770-lcd", true)

	cs := &CommitState{
		Mode: testMode640x480(),
		Planes: map[PlaneType]*PlaneState{
			PlanePrimary: fullscreenPlane(640, 480, FormatRGB565),
			PlaneIPU:     fullscreenPlane(640, 480, FormatXRGB8888),
		},
	}
	if err := c.Commit(cs); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if got := sim.Peek(jz47xx.LCD_BASE + jz47xx.LCD_OSDCTRL); got&jz47xx.LCD_OSDCTRL_IPU == 0 {
		t.Errorf("LCDOSDCTRL = %08x, IPU path not selected", got)
	}
	if !c.ipuActive {
		t.Error("ipuActive not latched")
	}

	// Dropping the IPU plane must deselect the path again.
	off := &CommitState{
		Mode: testMode640x480(),
		Planes: map[PlaneType]*PlaneState{
			PlaneIPU: {},
		},
	}
	if err := c.Commit(off); err != nil {
		t.Fatalf("IPU off commit: %v", err)
	}
	if got := sim.Peek(jz47xx.LCD_BASE + jz47xx.LCD_OSDCTRL); got&jz47xx.LCD_OSDCTRL_IPU != 0 {
		t.Errorf("LCDOSDCTRL = %08x, IPU path still selected", got)
	}
}
