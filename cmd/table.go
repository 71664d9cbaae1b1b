// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/Thermoquad/cancrc/pkg/crc15"
	"github.com/spf13/cobra"
)

var tableFormat string

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the CRC-15/CAN lookup table",
	Long: `Print the 256-entry lookup table used by the table-driven engine.

Each entry is the left-aligned 16-bit register after shifting one byte value
through an empty register with polynomial 0x4599.

Formats:
  grid  16x16 hex grid with row and column headers (default)
  go    Go array literal, suitable for embedding`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeTable(cmd.OutOrStdout(), crc15.CANTable(), tableFormat)
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.Flags().StringVarP(&tableFormat, "format", "f", "grid", "Output format (grid, go)")
}

func writeTable(out io.Writer, table crc15.Table, format string) error {
	switch format {
	case "grid":
		writeTableGrid(out, table)
	case "go":
		writeTableGo(out, table)
	default:
		return fmt.Errorf("unknown table format: %s (use grid or go)", format)
	}
	return nil
}

func writeTableGrid(out io.Writer, table crc15.Table) {
	var s strings.Builder
	s.WriteString("    ")
	for col := 0; col < 16; col++ {
		fmt.Fprintf(&s, "   %X ", col)
	}
	s.WriteString("\n")

	for row := 0; row < 16; row++ {
		fmt.Fprintf(&s, "%X0: ", row)
		for col := 0; col < 16; col++ {
			fmt.Fprintf(&s, "%04X ", table[row*16+col])
		}
		s.WriteString("\n")
	}
	fmt.Fprint(out, s.String())
}

func writeTableGo(out io.Writer, table crc15.Table) {
	var s strings.Builder
	s.WriteString("// CRC-15/CAN lookup table (poly 0x4599, left-aligned in 16 bits)\n")
	s.WriteString("var canTable = [256]uint16{\n")
	for i := 0; i < len(table); i += 8 {
		s.WriteString("\t")
		for j := i; j < i+8; j++ {
			fmt.Fprintf(&s, "0x%04X,", table[j])
			if j < i+7 {
				s.WriteString(" ")
			}
		}
		s.WriteString("\n")
	}
	s.WriteString("}\n")
	fmt.Fprint(out, s.String())
}
