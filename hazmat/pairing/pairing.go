// Package pairing wraps the BLS12-381 scalar, G1, G2 and G_T operations ConstModPriv uses to replace
// ModPriv's linear-in-moderators HMAC vector with a single constant-size pairing element.
package pairing

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/aeris-crypto/frank"
)

// hashToG1DomainTag separates this package's hash-to-curve calls from any other use of BLS12-381 hashing
// in the address space, per the RFC 9380 domain-separation-tag convention.
const hashToG1DomainTag = "FRANK-CONSTMODPRIV-H1-BLS12381G1_XMD:SHA-256_SSWU_RO_"

// ScalarSize is the canonical encoding length, in bytes, of a Scalar.
const ScalarSize = fr.Bytes

// Scalar is an element of the BLS12-381 scalar field (the order of the G1/G2 subgroups).
type Scalar struct{ e fr.Element }

// RandomScalar draws a uniformly random scalar.
func RandomScalar() (Scalar, error) {
	var s Scalar
	if _, err := s.e.SetRandom(); err != nil {
		return Scalar{}, fmt.Errorf("pairing: drawing random scalar: %w", err)
	}
	return s, nil
}

// ScalarFromBytes reduces a 32-byte string into a scalar. The top three bits are cleared before
// reduction, narrowing the input to the field's bit length so the result is drawn (negligibly biased)
// uniformly from the field rather than from the wider byte range, per the "fixed high-bit shave" this
// package's callers rely on when deriving a scalar from a hashed group element or a PRG output.
func ScalarFromBytes(b [32]byte) Scalar {
	b[0] &= 0x1f
	var s Scalar
	s.e.SetBytes(b[:])
	return s
}

// ScalarFromCanonicalBytes decodes a scalar from its ScalarSize-byte encoding, as produced by Bytes.
// Returns frank.ErrMalformed if b is the wrong length.
func ScalarFromCanonicalBytes(b []byte) (Scalar, error) {
	if len(b) != ScalarSize {
		return Scalar{}, fmt.Errorf("pairing: wrong scalar length: %w", frank.ErrMalformed)
	}
	var s Scalar
	s.e.SetBytes(b)
	return s, nil
}

// Bytes returns the canonical big-endian encoding of s.
func (s Scalar) Bytes() [ScalarSize]byte {
	return s.e.Bytes()
}

// Mul returns s * other.
func (s Scalar) Mul(other Scalar) Scalar {
	var out Scalar
	out.e.Mul(&s.e, &other.e)
	return out
}

// Inverse returns s^-1.
func (s Scalar) Inverse() Scalar {
	var out Scalar
	out.e.Inverse(&s.e)
	return out
}

func (s Scalar) bigInt() *big.Int {
	var z big.Int
	s.e.BigInt(&z)
	return &z
}

// G1Point is an element of G1.
type G1Point struct{ p bls12381.G1Affine }

// HashToG1 deterministically maps data onto a G1 point, for use as the per-report base point H in
// ConstModPriv's token.
func HashToG1(data []byte) (G1Point, error) {
	p, err := bls12381.HashToG1(data, []byte(hashToG1DomainTag))
	if err != nil {
		return G1Point{}, fmt.Errorf("pairing: hashing to G1: %w", err)
	}
	return G1Point{p}, nil
}

// ScalarMul returns s*p.
func (p G1Point) ScalarMul(s Scalar) G1Point {
	var out bls12381.G1Affine
	out.ScalarMultiplication(&p.p, s.bigInt())
	return G1Point{out}
}

// G2Point is an element of G2.
type G2Point struct{ p bls12381.G2Affine }

// G2Generator returns the canonical generator of G2.
func G2Generator() G2Point {
	_, _, _, g2Aff := bls12381.Generators()
	return G2Point{g2Aff}
}

// ScalarMul returns s*p.
func (p G2Point) ScalarMul(s Scalar) G2Point {
	var out bls12381.G2Affine
	out.ScalarMultiplication(&p.p, s.bigInt())
	return G2Point{out}
}

// Bytes returns the compressed encoding of p.
func (p G2Point) Bytes() []byte {
	b := p.p.Bytes()
	return b[:]
}

// G2FromCompressedBytes decodes a compressed G2 point. Returns frank.ErrMalformed on a decompression
// failure, which spec.md treats as fatal rather than a rejection.
func G2FromCompressedBytes(b []byte) (G2Point, error) {
	var p bls12381.G2Affine
	if _, err := p.SetBytes(b); err != nil {
		return G2Point{}, fmt.Errorf("pairing: decoding G2 point: %w", frank.ErrMalformed)
	}
	return G2Point{p}, nil
}

// Equal reports whether p and other encode the same G2 point, comparing canonical compressed encodings
// in constant time.
func (p G2Point) Equal(other G2Point) bool {
	a, b := p.p.Bytes(), other.p.Bytes()
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// GT is an element of the pairing target group.
type GT struct{ e bls12381.GT }

// Pair computes e(g1, g2).
func Pair(g1 G1Point, g2 G2Point) (GT, error) {
	gt, err := bls12381.Pair([]bls12381.G1Affine{g1.p}, []bls12381.G2Affine{g2.p})
	if err != nil {
		return GT{}, fmt.Errorf("pairing: computing pairing: %w", err)
	}
	return GT{gt}, nil
}

// Exp raises g to the s-th power in G_T's multiplicative group, used to strip the sender's blinding
// factor (sigma' = r^-1 * sigma) and to recompute the moderator's expected token.
func (g GT) Exp(s Scalar) GT {
	var out bls12381.GT
	out.Exp(g.e, s.bigInt())
	return GT{out}
}

// Equal reports whether g and other encode the same G_T element, via the library's field-element
// equality (itself a fixed-time comparison of the underlying limbs).
func (g GT) Equal(other GT) bool {
	return g.e.Equal(&other.e)
}

// Bytes returns the canonical encoding of g, via the library's GT serialization.
func (g GT) Bytes() []byte {
	b := g.e.Bytes()
	return b[:]
}

// RandReader is the randomness source pairing operations draw from when they need it indirectly through
// gnark-crypto's internal crypto/rand use; exported only so callers can see this package never rolls its
// own RNG.
var RandReader = rand.Reader
