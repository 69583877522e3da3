// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// jzlcdctl pokes the JZ47xx LCD controller from userspace: register
// dumps, one-shot modesets from a panel description file, and a vblank
// watch loop exporting metrics.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ingenic-go/jzlcd/pkg/jz47xx"
	"github.com/ingenic-go/jzlcd/pkg/logger"
)

var log = logger.LogContainer.GetSimpleLogger()

var (
	flagDryRun  bool
	flagRegBase uint64

	// dryRunSim holds the simulated register file when --dry-run is in
	// effect, so subcommands can mimic hardware-driven state changes.
	dryRunSim *jz47xx.SimMem
)

var rootCmd = &cobra.Command{
	Use:   "jzlcdctl",
	Short: "Control the Ingenic JZ47xx LCD controller",
	Long: `jzlcdctl drives the JZ47xx LCD controller through /dev/mem and a
UIO interrupt node. With --dry-run all register accesses go to a
simulated register file instead, which makes every subcommand safe to
exercise on a development machine.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false,
		"run against a simulated register file instead of /dev/mem")
	rootCmd.PersistentFlags().Uint64Var(&flagRegBase, "reg-base", uint64(jz47xx.LCD_BASE),
		"physical base address of the LCD controller block")
}

// openRegmap opens the register window selected by the global flags. The
// dry-run register file acknowledges disable requests the way hardware
// does.
func openRegmap() (*jz47xx.Regmap, error) {
	base := uintptr(flagRegBase)
	if flagDryRun {
		sim := jz47xx.NewSimMem()
		sim.OnWrite = func(m *jz47xx.SimMem, addr uintptr, data uint32) {
			if addr == base+jz47xx.LCD_CTRL && data&jz47xx.LCD_CTRL_DISABLE != 0 {
				state := m.Peek(base + jz47xx.LCD_STATE)
				m.Poke(base+jz47xx.LCD_STATE, state|jz47xx.LCD_STATE_DISABLED)
			}
		}
		dryRunSim = sim
		return jz47xx.NewRegmap(sim, base), nil
	}
	mem, err := jz47xx.OpenHostMem(base, int(jz47xx.LCD_MAX_REGISTER)+4)
	if err != nil {
		return nil, err
	}
	return jz47xx.NewRegmap(mem, base), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
