// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lcdc

import "errors"

// Configuration errors are returned from the check phase, before any
// register has been touched; a rejected commit leaves no partial state.
var (
	ErrNoMode             = errors.New("lcdc: no mode has been programmed")
	ErrModeTooLarge       = errors.New("lcdc: mode exceeds platform maximum resolution")
	ErrUnsupportedFormat  = errors.New("lcdc: unsupported pixel format")
	ErrScalingUnsupported = errors.New("lcdc: plane scaling is not supported")
	ErrNoPlanePosition    = errors.New("lcdc: plane positioning requires the OSD unit")
	ErrNoSuchPlane        = errors.New("lcdc: plane does not exist on this device")
	ErrPlaneOutOfBounds   = errors.New("lcdc: plane geometry outside the framebuffer or display area")
	ErrExclusivePlanes    = errors.New("lcdc: overlay and IPU planes cannot be enabled at the same time")
	ErrBadClock           = errors.New("lcdc: pixel clock rate not achievable")
	ErrUnsupportedBus     = errors.New("lcdc: unsupported bus format")
)

// ErrDisableTimeout is reported when the controller does not confirm the
// disable request in time. The state machine still proceeds to treat the
// output as disabled.
var ErrDisableTimeout = errors.New("lcdc: controller did not report disabled before timeout")
