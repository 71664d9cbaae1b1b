// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package crc15 implements the 15-bit CAN bus cyclic redundancy check.
//
// The CAN variant uses generator polynomial 0x4599, a zero initial register,
// no final XOR and no bit reflection. Two engines are provided: a table-driven
// Engine for normal use and a bit-at-a-time Reference used to validate it.
// Both produce identical results for every byte sequence.
package crc15

// CRC-15/CAN configuration
const (
	CANWidth = 15
	CANPoly  = 0x4599
	CANInit  = 0x0000

	// MaxValue is the largest CRC a 15-bit register can hold.
	MaxValue = 0x7FFF
)

// workingBits is the size of the register used by the table-driven engine.
// Narrower CRCs are held left-aligned in it.
const workingBits = 16

// Input limits of the bit-string front end
const (
	MaxInputBits  = 96
	MaxInputBytes = MaxInputBits / 8
)

// MaxIterations bounds repeated timing runs.
const MaxIterations = 1_000_000_000

// Params describes a non-reflected CRC held in at most 16 bits.
type Params struct {
	Width uint8  // Register width in bits (1-16)
	Poly  uint16 // Generator polynomial without the implicit leading 1
	Init  uint16 // Initial register value, right-aligned
	Name  string
}

// CAN is the CRC-15/CAN parameter set.
var CAN = Params{
	Width: CANWidth,
	Poly:  CANPoly,
	Init:  CANInit,
	Name:  "CRC-15/CAN",
}
