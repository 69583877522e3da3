// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lcdc

import (
	"fmt"
	"sync"
)

// Clock abstracts one clock gate/divider in the SoC clock tree. Rates
// are in Hz.
type Clock interface {
	Rate() int64
	// RoundRate returns the rate the clock would actually run at for a
	// requested rate, or an error if no achievable rate exists.
	RoundRate(rate int64) (int64, error)
	SetRate(rate int64) error
	Enable() error
	Disable() error
	// Parent returns the upstream clock, or nil for a root clock.
	Parent() Clock
}

// FixedClock is a software clock used by the tests and the CLI dry-run
// mode. It accepts any rate within [Min, Max] (zero meaning unbounded)
// and tracks enable state.
type FixedClock struct {
	mu      sync.Mutex
	name    string
	rate    int64
	min     int64
	max     int64
	parent  Clock
	enabled bool
}

func NewFixedClock(name string, rate int64) *FixedClock {
	return &FixedClock{name: name, rate: rate}
}

// WithRange constrains the achievable rates.
func (c *FixedClock) WithRange(min, max int64) *FixedClock {
	c.min, c.max = min, max
	return c
}

// WithParent attaches an upstream clock.
func (c *FixedClock) WithParent(p Clock) *FixedClock {
	c.parent = p
	return c
}

func (c *FixedClock) Rate() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

func (c *FixedClock) RoundRate(rate int64) (int64, error) {
	if rate <= 0 {
		return 0, fmt.Errorf("clk %s: invalid rate %d", c.name, rate)
	}
	if c.min != 0 && rate < c.min {
		return 0, fmt.Errorf("clk %s: rate %d below minimum %d", c.name, rate, c.min)
	}
	if c.max != 0 && rate > c.max {
		return 0, fmt.Errorf("clk %s: rate %d above maximum %d", c.name, rate, c.max)
	}
	return rate, nil
}

func (c *FixedClock) SetRate(rate int64) error {
	rounded, err := c.RoundRate(rate)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rate = rounded
	return nil
}

func (c *FixedClock) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = true
	return nil
}

func (c *FixedClock) Disable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = false
	return nil
}

func (c *FixedClock) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func (c *FixedClock) Parent() Clock {
	return c.parent
}
