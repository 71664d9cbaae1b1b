// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc15

import "testing"

var benchInput = []byte{0x87, 0x01, 0x42, 0xFF, 0x00, 0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70}

var sink uint

func BenchmarkEngine(b *testing.B) {
	e := New()
	b.SetBytes(int64(len(benchInput)))
	for i := 0; i < b.N; i++ {
		sink = uint(e.Calculate(benchInput))
	}
}

func BenchmarkChecksum(b *testing.B) {
	b.SetBytes(int64(len(benchInput)))
	for i := 0; i < b.N; i++ {
		sink = uint(Checksum(benchInput))
	}
}

func BenchmarkReference(b *testing.B) {
	wide := Widen(benchInput)
	b.SetBytes(int64(len(benchInput)))
	for i := 0; i < b.N; i++ {
		sink = Reference(wide)
	}
}

func BenchmarkGenerateTable(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateTable(CANWidth, CANPoly)
	}
}
