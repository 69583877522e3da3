// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ingenic-go/jzlcd/pkg/jz47xx"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump all LCD controller registers",
	RunE: func(cmd *cobra.Command, args []string) error {
		regs, err := openRegmap()
		if err != nil {
			return err
		}
		defer regs.Close()

		for _, reg := range jz47xx.Regs() {
			fmt.Printf("%-12s %#06x: %08x\n", jz47xx.RegName(reg), reg, regs.Read(reg))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
