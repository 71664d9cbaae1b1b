// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// cancrc - CRC-15/CAN Calculator
//
// A CLI tool for computing and timing the 15-bit CAN bus CRC over
// short bit strings.

package main

import (
	"os"

	"github.com/Thermoquad/cancrc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
