// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc15

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInputTooLong is returned when a bit string exceeds MaxInputBits.
	ErrInputTooLong = errors.New("input exceeds 96 bits")

	// ErrInvalidBits is matched by every ParseError.
	ErrInvalidBits = errors.New("invalid bit string")
)

// ParseError reports a chunk of a bit string that is not valid base 2.
type ParseError struct {
	Chunk  string // Offending chunk, at most 8 characters
	Offset int    // Position of the chunk in the cleaned input
	Err    error  // Underlying strconv error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid bits %q at offset %d: %v", e.Chunk, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrInvalidBits as a match so callers need not know the type.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidBits
}

// ParseBitString converts a string of '0' and '1' characters into bytes,
// eight bits at a time, most significant bit first. Spaces are ignored.
//
// A trailing chunk shorter than eight bits is parsed as-is, so "101" yields
// the single byte 0x05 rather than 0xA0.
func ParseBitString(s string) ([]byte, error) {
	clean := strings.ReplaceAll(s, " ", "")
	if len(clean) > MaxInputBits {
		return nil, fmt.Errorf("%w: got %d bits", ErrInputTooLong, len(clean))
	}

	data := make([]byte, 0, (len(clean)+7)/8)
	for off := 0; off < len(clean); off += 8 {
		end := off + 8
		if end > len(clean) {
			end = len(clean)
		}
		chunk := clean[off:end]

		v, err := strconv.ParseUint(chunk, 2, 8)
		if err != nil {
			return nil, &ParseError{Chunk: chunk, Offset: off, Err: err}
		}
		data = append(data, byte(v))
	}

	return data, nil
}

// FormatCRC renders a CRC as four upper-case hex digits.
func FormatCRC(crc uint16) string {
	return fmt.Sprintf("%04X", crc)
}

// FormatBits renders data as space-separated groups of eight bits.
func FormatBits(data []byte) string {
	var s strings.Builder
	for i, b := range data {
		if i > 0 {
			s.WriteByte(' ')
		}
		fmt.Fprintf(&s, "%08b", b)
	}
	return s.String()
}
