// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc15

import (
	"errors"
	"fmt"
	"time"
)

// ErrIterationsOutOfRange is returned for counts outside 1..MaxIterations.
var ErrIterationsOutOfRange = errors.New("iterations out of range")

// Timing records how long a repeated computation took.
type Timing struct {
	Iterations   int
	Total        time.Duration
	PerIteration time.Duration
}

// Measure calls fn the given number of times and reports the elapsed time.
func Measure(iterations int, fn func()) (Timing, error) {
	if iterations < 1 || iterations > MaxIterations {
		return Timing{}, fmt.Errorf("%w: %d (allowed 1-%d)", ErrIterationsOutOfRange, iterations, MaxIterations)
	}

	start := time.Now()
	for i := 0; i < iterations; i++ {
		fn()
	}
	total := time.Since(start)

	return Timing{
		Iterations:   iterations,
		Total:        total,
		PerIteration: total / time.Duration(iterations),
	}, nil
}

// Run computes the CRC of data with e, repeating the computation iterations
// times for timing. The returned CRC is the result of the last run.
func Run(e *Engine, data []byte, iterations int) (uint16, Timing, error) {
	var crc uint16
	timing, err := Measure(iterations, func() {
		crc = e.Calculate(data)
	})
	if err != nil {
		return 0, Timing{}, err
	}
	return crc, timing, nil
}

// RunReference is Run for the bitwise reference.
func RunReference(data []byte, iterations int) (uint16, Timing, error) {
	wide := Widen(data)
	var crc uint
	timing, err := Measure(iterations, func() {
		crc = Reference(wide)
	})
	if err != nil {
		return 0, Timing{}, err
	}
	return uint16(crc), timing, nil
}
