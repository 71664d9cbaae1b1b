// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Thermoquad/cancrc/pkg/crc15"
)

// ============================================================
// calc Tests
// ============================================================

func TestCalculate_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"canonical byte", "10000111", "CRC:       71EE"},
		{"two bytes", "1000011100000001", "CRC:       2A53"},
		{"grouped", "1000 0111 0000 0001", "CRC:       2A53"},
		{"empty", "", "CRC:       0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := calculate(&out, tt.input, 1, false, false); err != nil {
				t.Fatalf("calculate error: %v", err)
			}
			if !strings.Contains(out.String(), tt.expected) {
				t.Errorf("Expected %q in output:\n%s", tt.expected, out.String())
			}
		})
	}
}

func TestCalculate_Reference(t *testing.T) {
	var out bytes.Buffer
	if err := calculate(&out, "10000111", 5, true, false); err != nil {
		t.Fatalf("calculate error: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "Method:    reference") {
		t.Errorf("Expected reference method in output:\n%s", s)
	}
	if !strings.Contains(s, "CRC:       71EE") {
		t.Errorf("Expected 71EE in output:\n%s", s)
	}
	if !strings.Contains(s, "(5 iterations)") {
		t.Errorf("Expected iteration count in output:\n%s", s)
	}
}

func TestCalculate_Verify(t *testing.T) {
	var out bytes.Buffer
	if err := calculate(&out, "1000011100000001", 1, false, true); err != nil {
		t.Fatalf("calculate error: %v", err)
	}
	if !strings.Contains(out.String(), "Verify:    OK (reference 2A53)") {
		t.Errorf("Expected verify line in output:\n%s", out.String())
	}
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		iterations int
		target     error
	}{
		{"too long", strings.Repeat("1", 97), 1, crc15.ErrInputTooLong},
		{"not binary", "10000112", 1, crc15.ErrInvalidBits},
		{"zero iterations", "10000111", 0, crc15.ErrIterationsOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := calculate(&out, tt.input, tt.iterations, false, false)
			if !errors.Is(err, tt.target) {
				t.Fatalf("Expected %v, got %v", tt.target, err)
			}
			if out.Len() != 0 {
				t.Errorf("Expected no output on error, got:\n%s", out.String())
			}
		})
	}
}

func TestCalculate_Bits(t *testing.T) {
	var out bytes.Buffer
	if err := calculate(&out, "1000 0111 1", 1, false, false); err != nil {
		t.Fatalf("calculate error: %v", err)
	}
	if !strings.Contains(out.String(), "Bits:      10000111 00000001") {
		t.Errorf("Expected parsed bits in output:\n%s", out.String())
	}

	out.Reset()
	if err := calculate(&out, "", 1, false, false); err != nil {
		t.Fatalf("calculate error: %v", err)
	}
	if strings.Contains(out.String(), "Bits:") {
		t.Errorf("Empty input should not print bits:\n%s", out.String())
	}
}

func TestCalcCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"calc", "1000", "0111", "--iterations", "3"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		calcIterations = 1
	}()

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "Input:     87 (1 bytes)") {
		t.Errorf("Expected parsed input in output:\n%s", s)
	}
	if !strings.Contains(s, "CRC:       71EE") {
		t.Errorf("Expected 71EE in output:\n%s", s)
	}
}

func TestFormatInput(t *testing.T) {
	if got := formatInput(nil); got != "(empty)" {
		t.Errorf("Expected (empty), got %q", got)
	}
	if got := formatInput([]byte{0x87, 0x01}); got != "87 01" {
		t.Errorf("Expected \"87 01\", got %q", got)
	}
}

// ============================================================
// table Tests
// ============================================================

func TestWriteTable_Grid(t *testing.T) {
	var out bytes.Buffer
	if err := writeTable(&out, crc15.CANTable(), "grid"); err != nil {
		t.Fatalf("writeTable error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 17 {
		t.Fatalf("Expected header plus 16 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "00: 0000 8B32 9D56 1664") {
		t.Errorf("Unexpected first row: %q", lines[1])
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[16]), "012A") {
		t.Errorf("Unexpected last row: %q", lines[16])
	}
}

func TestWriteTable_Go(t *testing.T) {
	var out bytes.Buffer
	if err := writeTable(&out, crc15.CANTable(), "go"); err != nil {
		t.Fatalf("writeTable error: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "var canTable = [256]uint16{\n") {
		t.Errorf("Missing array declaration:\n%s", s)
	}
	if !strings.Contains(s, "\t0x0000, 0x8B32, 0x9D56, 0x1664,") {
		t.Errorf("Missing first entries:\n%s", s)
	}
	if strings.Count(s, "0x") != 256+1 {
		t.Errorf("Expected 256 entries plus the comment polynomial, got %d hex values", strings.Count(s, "0x"))
	}
}

func TestWriteTable_UnknownFormat(t *testing.T) {
	var out bytes.Buffer
	if err := writeTable(&out, crc15.CANTable(), "csv"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

// ============================================================
// selftest Tests
// ============================================================

func TestRunSelfTest(t *testing.T) {
	var out bytes.Buffer
	if failures := runSelfTest(&out, 500, 42); failures != 0 {
		t.Fatalf("Expected no failures, got %d:\n%s", failures, out.String())
	}
	s := out.String()
	if !strings.Contains(s, "Seed: 42") {
		t.Errorf("Expected seed in output:\n%s", s)
	}
	if !strings.Contains(s, "[ OK ] 87 -> 71EE") {
		t.Errorf("Expected canonical vector in output:\n%s", s)
	}
	if !strings.Contains(s, "Random sequences: 500 compared, 0 mismatches") {
		t.Errorf("Expected summary in output:\n%s", s)
	}
	if !strings.HasSuffix(s, "PASSED\n") {
		t.Errorf("Expected PASSED at end:\n%s", s)
	}
}
