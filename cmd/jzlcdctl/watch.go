// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ingenic-go/jzlcd/pkg/jz47xx"
	"github.com/ingenic-go/jzlcd/pkg/lcdc"
	"github.com/ingenic-go/jzlcd/pkg/metric"
)

var (
	flagWatchPanel string
	flagUIOPath    string
	flagListen     string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Service the LCD interrupt and export vblank metrics",
	Long: `watch runs the interrupt service loop against the UIO node carrying
the LCD controller interrupt and exports vblank and commit counters
over HTTP for Prometheus. It assumes scan-out was set up beforehand,
e.g. with the modeset subcommand in the same process lifetime of the
boot loader's configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, err := loadPanelFile(flagWatchPanel)
		if err != nil {
			return err
		}
		c, cleanup, err := buildController(panel)
		if err != nil {
			return err
		}
		defer cleanup()

		src, closeSrc, err := openIRQSource()
		if err != nil {
			return err
		}
		defer closeSrc()

		unsub := c.OnVblank(func(ev lcdc.VblankEvent) {
			log.Debugf("vblank %d", ev.Seq)
		})
		defer unsub()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mux := http.NewServeMux()
		metric.StartMetrics(mux)
		srv := &http.Server{Addr: flagListen, Handler: mux}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return c.ServeIRQ(ctx, src)
		})
		g.Go(func() error {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		log.Infof("Watching vblanks, metrics on %s", flagListen)
		return g.Wait()
	},
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchPanel, "panel", "panel.toml",
		"panel description file")
	watchCmd.Flags().StringVar(&flagUIOPath, "uio", "/dev/uio0",
		"UIO device node carrying the LCD interrupt")
	watchCmd.Flags().StringVar(&flagListen, "listen", ":9100",
		"metrics listen address")
	rootCmd.AddCommand(watchCmd)
}

// tickingIRQ synthesizes a 60Hz interrupt in dry-run mode, raising the
// end-of-frame status bit the way hardware would before each delivery.
type tickingIRQ struct {
	base uintptr
}

func (s *tickingIRQ) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(16 * time.Millisecond):
	}
	state := dryRunSim.Peek(s.base + jz47xx.LCD_STATE)
	dryRunSim.Poke(s.base+jz47xx.LCD_STATE, state|jz47xx.LCD_STATE_EOF_IRQ)
	return nil
}

func openIRQSource() (lcdc.IRQSource, func(), error) {
	if flagDryRun {
		return &tickingIRQ{base: uintptr(flagRegBase)}, func() {}, nil
	}
	uio, err := jz47xx.OpenUIO(flagUIOPath)
	if err != nil {
		return nil, nil, err
	}
	return uio, func() { uio.Close() }, nil
}
