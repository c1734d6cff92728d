// Package prg implements the seed-expanding pseudorandom generator ConstModPriv uses to derive both an
// ElGamal masking scalar seed and a message's franking key from a single per-message secret, so the
// sender need only remember (and later replay) the 32-byte seed t rather than two independent secrets.
package prg

import (
	"crypto/sha512"

	"github.com/aeris-crypto/frank/hazmat/mac"
)

// SeedSize is the required length, in bytes, of a PRG seed.
const SeedSize = 32

// domain-separation labels for the two PRG outputs.
const (
	label1           = "CONST_1"
	label2           = "CONST_2"
	ristrettoScalarDS = "frank-prg-ristretto-scalar"
)

// Expand derives (s, r) from seed by computing s = MAC(seed, "CONST_1") and r = MAC(seed, "CONST_2"). s is
// later reduced to an ElGamal masking scalar; r is used directly as the message's franking key.
func Expand(seed [SeedSize]byte) (s, r [mac.TagSize]byte) {
	s = mac.Sign(seed[:], []byte(label1))
	r = mac.Sign(seed[:], []byte(label2))
	return s, r
}

// RistrettoScalarSeed expands a PRG output s into 64 uniform bytes suitable for
// ristretto255.Scalar.SetUniformBytes, via a domain-separated SHA-512. s is 32 bytes on its own, too
// short for the library's wide-reduction constructor, so this widens it before that reduction happens.
func RistrettoScalarSeed(s [mac.TagSize]byte) [64]byte {
	return sha512.Sum512(append([]byte(ristrettoScalarDS), s[:]...))
}
