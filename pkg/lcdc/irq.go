// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lcdc

import (
	"context"
	"errors"

	"github.com/ingenic-go/jzlcd/pkg/jz47xx"
)

// IRQSource blocks until the LCD controller interrupt fires. The UIO
// implementation lives in pkg/jz47xx; tests drive HandleIRQ directly.
type IRQSource interface {
	Wait(ctx context.Context) error
}

// HandleIRQ services one interrupt. The order is load-bearing: read the
// status first, clear the end-of-frame bit unconditionally, and only
// then signal frame completion if the bit was set on entry. Clearing
// before reading could drop an event; signaling before clearing could
// miss the next edge.
func (c *Controller) HandleIRQ() {
	state := c.regs.Read(jz47xx.LCD_STATE)

	c.regs.UpdateBits(jz47xx.LCD_STATE, jz47xx.LCD_STATE_EOF_IRQ, 0)

	if state&jz47xx.LCD_STATE_EOF_IRQ != 0 {
		c.handleVblank()
	}
}

// ServeIRQ runs the interrupt service loop until the context is
// canceled.
func (c *Controller) ServeIRQ(ctx context.Context, src IRQSource) error {
	for {
		if err := src.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		c.HandleIRQ()
	}
}
