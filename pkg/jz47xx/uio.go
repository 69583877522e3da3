// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package jz47xx

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// UIO delivers the LCD controller interrupt to userspace through the
// Linux userspace-IO interface. A blocking read returns the interrupt
// count once the interrupt fires; writing 1 re-enables delivery.
type UIO struct {
	f *os.File
}

// OpenUIO opens a uio device node, e.g. /dev/uio0.
func OpenUIO(path string) (*UIO, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open uio %s: %w", path, err)
	}
	return &UIO{f: f}, nil
}

// Wait blocks until the next interrupt or context cancellation and
// re-arms the interrupt before returning.
func (u *UIO) Wait(ctx context.Context) error {
	var buf [4]byte
	for {
		// Poll with a deadline so cancellation is honored; uio file
		// descriptors have no other unblock mechanism.
		fds := []unix.PollFd{{Fd: int32(u.f.Fd()), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, 100)
		if err != nil && err != unix.EINTR {
			return fmt.Errorf("poll uio: %w", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if n == 0 || fds[0].Revents&unix.POLLIN == 0 {
			continue
		}
		if _, err := u.f.Read(buf[:]); err != nil {
			return fmt.Errorf("read uio: %w", err)
		}
		binary.LittleEndian.PutUint32(buf[:], 1)
		if _, err := u.f.Write(buf[:]); err != nil {
			return fmt.Errorf("rearm uio: %w", err)
		}
		return nil
	}
}

func (u *UIO) Close() error {
	return u.f.Close()
}
