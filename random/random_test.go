package random_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/kurokoma/eosd/random"
)

// TestGetU16Vectors pins the first five outputs of the seed-0 stream as
// literal constants, so a future change to the generator's arithmetic that
// still "looks plausible" fails loudly instead of silently shifting every
// downstream replay.
func TestGetU16Vectors(t *testing.T) {
	want := []uint16{0xc374, 0xbfc7, 0x1293, 0x7d40, 0x1876}

	p := random.New(0)
	for i, w := range want {
		if got := p.GetU16(); got != w {
			t.Fatalf("value %d: got %#04x, want %#04x", i, got, w)
		}
	}
}

// TestSeedDeterministic checks, for arbitrary seeds, that two generators
// started from the same seed never diverge over an arbitrary run length.
func TestSeedDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint16().Draw(t, "seed")
		steps := rapid.IntRange(1, 500).Draw(t, "steps")

		a := random.New(seed)
		b := random.New(seed)
		for i := 0; i < steps; i++ {
			if got, want := a.GetU32(), b.GetU32(); got != want {
				t.Fatalf("streams diverged at step %d: %#08x != %#08x", i, got, want)
			}
		}
	})
}

func TestDeterministic(t *testing.T) {
	a := random.New(12345)
	b := random.New(12345)
	for i := 0; i < 1000; i++ {
		if a.GetU32() != b.GetU32() {
			t.Fatalf("streams diverged at step %d", i)
		}
	}
}

func TestGetF64Range(t *testing.T) {
	p := random.New(42)
	for i := 0; i < 1000; i++ {
		v := p.GetF64()
		if v < 0 || v >= 1 {
			t.Fatalf("value %v out of [0,1) range", v)
		}
	}
}
