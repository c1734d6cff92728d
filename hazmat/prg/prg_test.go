package prg_test

import (
	"bytes"
	"testing"

	"github.com/aeris-crypto/frank/hazmat/prg"
)

func TestExpandDeterministicAndDistinct(t *testing.T) {
	var seed [prg.SeedSize]byte
	copy(seed[:], "a 32-byte per-message seed value")

	s1, r1 := prg.Expand(seed)
	s2, r2 := prg.Expand(seed)
	if s1 != s2 || r1 != r2 {
		t.Error("Expand is not deterministic for a fixed seed")
	}
	if bytes.Equal(s1[:], r1[:]) {
		t.Error("s and r must not collide")
	}

	var other [prg.SeedSize]byte
	copy(other[:], "a different 32-byte seed value!")
	s3, r3 := prg.Expand(other)
	if s1 == s3 || r1 == r3 {
		t.Error("Expand produced the same outputs for different seeds")
	}
}

func TestRistrettoScalarSeedWidensAndSeparates(t *testing.T) {
	var seed [prg.SeedSize]byte
	copy(seed[:], "a 32-byte per-message seed value")
	s, r := prg.Expand(seed)

	wide := prg.RistrettoScalarSeed(s)
	if len(wide) != 64 {
		t.Fatalf("len(wide) = %d, want 64", len(wide))
	}
	if prg.RistrettoScalarSeed(s) != wide {
		t.Error("RistrettoScalarSeed is not deterministic")
	}
	if prg.RistrettoScalarSeed(r) == wide {
		t.Error("RistrettoScalarSeed collided for distinct inputs")
	}
}
