// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lcdc

import (
	"sync"

	"github.com/kelindar/event"

	"github.com/ingenic-go/jzlcd/pkg/jz47xx"
)

const typeVblank uint32 = 1

// VblankEvent is broadcast on every observed end-of-frame interrupt.
type VblankEvent struct {
	Seq uint64
}

func (e VblankEvent) Type() uint32 { return typeVblank }

// FrameEvent is the completion notification of one commit. Done is
// closed exactly once, either at the vertical blank following the commit
// or synchronously during flush when no interrupt is expected.
type FrameEvent struct {
	once sync.Once
	done chan struct{}
}

func NewFrameEvent() *FrameEvent {
	return &FrameEvent{done: make(chan struct{})}
}

// Done is closed when the commit has reached the screen.
func (e *FrameEvent) Done() <-chan struct{} {
	return e.done
}

func (e *FrameEvent) complete() {
	e.once.Do(func() { close(e.done) })
}

// vblankEngine tracks whether vertical blank interrupts can be relied on
// and holds at most one armed frame event. mu is the short critical
// section shared between the flush path (arm-or-deliver decision) and
// the interrupt path (delivery); nothing slow may run under it.
type vblankEngine struct {
	mu       sync.Mutex
	on       bool
	noVblank bool
	armed    *FrameEvent
	seq      uint64
}

// vblankOn enables the end-of-frame interrupt and starts honoring armed
// events.
func (c *Controller) vblankOn() {
	c.regs.UpdateBits(jz47xx.LCD_CTRL, jz47xx.LCD_CTRL_EOF_IRQ, jz47xx.LCD_CTRL_EOF_IRQ)
	c.vblank.mu.Lock()
	c.vblank.on = true
	c.vblank.mu.Unlock()
}

// vblankOff stops vblank bookkeeping. Any still-armed event is delivered
// synchronously so no waiter survives into the disabled state, then the
// interrupt source is masked.
func (c *Controller) vblankOff() {
	c.vblank.mu.Lock()
	c.vblank.on = false
	ev := c.vblank.armed
	c.vblank.armed = nil
	c.vblank.mu.Unlock()

	if ev != nil {
		ev.complete()
	}

	c.regs.UpdateBits(jz47xx.LCD_CTRL, jz47xx.LCD_CTRL_EOF_IRQ, 0)
}

// armOrDeliver either queues the event for the next vertical blank or,
// when no interrupt can be expected (output disabled, or all planes
// off), completes it immediately. The decision and the queueing are one
// atomic step with respect to the interrupt path.
func (c *Controller) armOrDeliver(ev *FrameEvent) {
	c.vblank.mu.Lock()
	if c.vblank.on && !c.vblank.noVblank {
		if c.vblank.armed != nil {
			// One commit in flight per device; a leftover armed event
			// means the serialization contract was broken upstream.
			c.vblank.mu.Unlock()
			panic("lcdc: frame event armed while another is pending")
		}
		c.vblank.armed = ev
		c.vblank.mu.Unlock()
		return
	}
	c.vblank.mu.Unlock()
	ev.complete()
}

// handleVblank delivers the armed event, if any, and broadcasts the
// vblank to subscribers. Called from the interrupt path only.
func (c *Controller) handleVblank() {
	c.vblank.mu.Lock()
	c.vblank.seq++
	seq := c.vblank.seq
	ev := c.vblank.armed
	c.vblank.armed = nil
	c.vblank.mu.Unlock()

	if ev != nil {
		ev.complete()
	}

	vblankCount.Inc()
	event.Publish(c.bus, VblankEvent{Seq: seq})
}

// OnVblank subscribes to vblank notifications. The returned function
// cancels the subscription. Handlers run on the dispatcher goroutine and
// must not block.
func (c *Controller) OnVblank(fn func(VblankEvent)) func() {
	return event.Subscribe(c.bus, fn)
}

// VblankCount returns the number of vertical blanks observed since
// bring-up.
func (c *Controller) VblankCount() uint64 {
	c.vblank.mu.Lock()
	defer c.vblank.mu.Unlock()
	return c.vblank.seq
}
