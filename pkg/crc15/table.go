// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc15

// Table holds the effect of shifting one byte through the register.
type Table [256]uint16

// canTable is shared by every CAN engine. It is never written after init.
var canTable = GenerateTable(CANWidth, CANPoly)

// GenerateTable builds the byte lookup table for a non-reflected CRC of the
// given width. poly is the unshifted generator; it is aligned to the top of a
// 16-bit working register before use.
//
// width must be between 1 and 16. It is not validated.
func GenerateTable(width uint8, poly uint16) *Table {
	aligned := poly << (workingBits - width)

	t := &Table{}
	for i := range t {
		t[i] = shiftByte(aligned, uint16(i))
	}
	return t
}

// shiftByte runs eight register shifts for byte value v against an empty
// register.
func shiftByte(aligned, v uint16) uint16 {
	v <<= 8
	for i := 0; i < 8; i++ {
		v = (v << 1) ^ (((v >> 15) & 1) * aligned)
	}
	return v
}

// CANTable returns a copy of the CRC-15/CAN lookup table.
func CANTable() Table {
	return *canTable
}
