// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc15

// Engine computes a CRC with a byte-wise lookup table.
// An Engine is immutable and safe for concurrent use.
type Engine struct {
	params Params
	table  *Table
	shift  uint8
}

// New returns a CRC-15/CAN engine backed by the shared package table.
func New() *Engine {
	return &Engine{
		params: CAN,
		table:  canTable,
		shift:  workingBits - CANWidth,
	}
}

// NewWithParams returns an engine for an arbitrary non-reflected CRC of at
// most 16 bits. Only the CAN parameters are covered by known check values.
func NewWithParams(p Params) *Engine {
	if p == CAN {
		return New()
	}
	return &Engine{
		params: p,
		table:  GenerateTable(p.Width, p.Poly),
		shift:  workingBits - p.Width,
	}
}

// Params returns the parameters the engine was built with.
func (e *Engine) Params() Params {
	return e.params
}

// Calculate returns the CRC of data. An empty slice yields the initial value.
func (e *Engine) Calculate(data []byte) uint16 {
	crc := e.params.Init << e.shift
	for _, b := range data {
		crc = e.table[byte(crc>>8)^b] ^ (crc << 8)
	}
	return crc >> e.shift
}

// Checksum computes the CRC-15/CAN checksum for the given data
func Checksum(data []byte) uint16 {
	return New().Calculate(data)
}
