// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package crc15

import (
	"errors"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// ============================================================
// Equivalence Fuzz Tests
// ============================================================

// TestFuzzEquivalence_RandomSequences checks the table engine against the
// bitwise reference for random sequences of 0-32 bytes
func TestFuzzEquivalence_RandomSequences(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	e := New()
	for i := 0; i < rounds; i++ {
		data := make([]byte, rng.Intn(33))
		rng.Read(data)

		crc := e.Calculate(data)
		ref := Reference(Widen(data))
		if uint(crc) != ref {
			t.Fatalf("Round %d: engine 0x%04X != reference 0x%04X for % X", i, crc, ref, data)
		}
		if crc > MaxValue {
			t.Fatalf("Round %d: CRC 0x%04X exceeds 15 bits", i, crc)
		}
	}
}

// TestFuzzEquivalence_AllLengths covers every length from 0 to 32 with
// a fixed all-ones and a random pattern
func TestFuzzEquivalence_AllLengths(t *testing.T) {
	rng := newFuzzRng(t)
	e := New()

	for length := 0; length <= 32; length++ {
		ones := make([]byte, length)
		for i := range ones {
			ones[i] = 0xFF
		}
		random := make([]byte, length)
		rng.Read(random)

		for _, data := range [][]byte{ones, random} {
			if crc, ref := e.Calculate(data), Reference(Widen(data)); uint(crc) != ref {
				t.Fatalf("Length %d: engine 0x%04X != reference 0x%04X for % X", length, crc, ref, data)
			}
		}
	}
}

// TestFuzzEquivalence_Concurrent runs the shared engine from several
// goroutines; run with -race to check the table is only read
func TestFuzzEquivalence_Concurrent(t *testing.T) {
	e := New()
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(w)))
			for i := 0; i < 200; i++ {
				data := make([]byte, rng.Intn(13))
				rng.Read(data)
				if crc, ref := e.Calculate(data), Reference(Widen(data)); uint(crc) != ref {
					errs <- errors.New("engine and reference disagree for " + FormatBits(data))
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

// TestFuzzParseBitString_RandomStrings feeds random strings to the parser
// and verifies it never panics and only fails with known errors
func TestFuzzParseBitString_RandomStrings(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	alphabet := "01 01 01x2"

	for i := 0; i < rounds; i++ {
		var s strings.Builder
		n := rng.Intn(120)
		for j := 0; j < n; j++ {
			s.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}

		data, err := ParseBitString(s.String())
		if err != nil {
			if !errors.Is(err, ErrInputTooLong) && !errors.Is(err, ErrInvalidBits) {
				t.Fatalf("Round %d: unexpected error type %T: %v", i, err, err)
			}
			continue
		}
		if len(data) > MaxInputBytes {
			t.Fatalf("Round %d: parsed %d bytes, max %d", i, len(data), MaxInputBytes)
		}
	}
}

// ============================================================
// Native Fuzz Targets
// ============================================================

func FuzzEquivalence(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x87})
	f.Add([]byte{0x87, 0x01})
	f.Add([]byte("123456789"))

	e := New()
	f.Fuzz(func(t *testing.T, data []byte) {
		crc := e.Calculate(data)
		if ref := Reference(Widen(data)); uint(crc) != ref {
			t.Fatalf("engine 0x%04X != reference 0x%04X", crc, ref)
		}
		if crc != Checksum(data) {
			t.Fatalf("Checksum disagrees with Engine for % X", data)
		}
	})
}

func FuzzParseBitString(f *testing.F) {
	f.Add("10000111")
	f.Add("1000 0111 0000 0001")
	f.Add("101")
	f.Add("12")

	f.Fuzz(func(t *testing.T, s string) {
		data, err := ParseBitString(s)
		if err != nil {
			return
		}
		// Round trip holds whenever every chunk is a full byte
		clean := strings.ReplaceAll(s, " ", "")
		if len(clean)%8 == 0 && strings.ReplaceAll(FormatBits(data), " ", "") != clean {
			t.Fatalf("round trip mismatch: %q -> % X", s, data)
		}
	})
}
