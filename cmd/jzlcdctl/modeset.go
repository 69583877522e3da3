// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"image"

	"github.com/spf13/cobra"

	"github.com/ingenic-go/jzlcd/pkg/lcdc"
)

var flagPanelPath string

var modesetCmd = &cobra.Command{
	Use:   "modeset",
	Short: "Program a mode from a panel description file and enable scan-out",
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, err := loadPanelFile(flagPanelPath)
		if err != nil {
			return err
		}
		out, err := panel.output()
		if err != nil {
			return err
		}
		fb, err := panel.framebuffer()
		if err != nil {
			return err
		}

		c, cleanup, err := buildController(panel)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := c.CheckOutput(&out); err != nil {
			return err
		}

		mode := panel.mode()
		cs := &lcdc.CommitState{
			Mode: mode,
			Planes: map[lcdc.PlaneType]*lcdc.PlaneState{
				lcdc.PlanePrimary: {
					FB:  fb,
					Src: image.Rect(0, 0, fb.Width, fb.Height),
					Dst: image.Rect(0, 0, fb.Width, fb.Height),
				},
			},
		}
		if err := c.Check(cs); err != nil {
			return err
		}
		c.Begin(cs)
		c.UpdatePlanes(cs)
		// The bus configuration depends on the depth of the primary
		// plane, so it has to run after the plane updates.
		if err := c.ConfigureOutput(&out, &mode); err != nil {
			return err
		}
		if err := c.Flush(cs); err != nil {
			return err
		}
		if err := c.Enable(); err != nil {
			return err
		}

		log.Infof("Mode %s active on %s", &mode, panel.Compatible)
		return nil
	},
}

func init() {
	modesetCmd.Flags().StringVar(&flagPanelPath, "panel", "panel.toml",
		"panel description file")
	rootCmd.AddCommand(modesetCmd)
}
