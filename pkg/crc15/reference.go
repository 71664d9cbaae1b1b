// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc15

// Reference computes CRC-15/CAN one bit at a time, without a table.
//
// Every value in data must be in the range 0-255; larger values are not
// detected and give meaningless results. Reference is slow and exists to
// check Engine.
func Reference(data []uint) uint {
	var reg uint
	for _, b := range data {
		for i := 0; i < 8; i++ {
			next := (b >> (7 - i)) & 1
			carry := (reg >> 14) ^ next
			reg = (reg << 1) & MaxValue
			if carry == 1 {
				reg ^= CANPoly
			}
		}
	}
	return reg
}

// Widen converts a byte slice to the element type Reference accepts.
func Widen(data []byte) []uint {
	out := make([]uint, len(data))
	for i, b := range data {
		out[i] = uint(b)
	}
	return out
}
