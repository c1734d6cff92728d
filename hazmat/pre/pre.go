// Package pre implements ElGamal-based proxy re-encryption over Ristretto255: a ciphertext under one key
// can be re-encrypted to another key without learning the plaintext. ModPriv and ConstModPriv use it to
// route a report to the moderator the sender picked without the platform learning which moderator that
// was: the platform seals under the sender's per-message key epk, and the recipient re-encrypts the result
// to the moderator's registration key.
package pre

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/gtank/ristretto255"

	"github.com/aeris-crypto/frank"
	"github.com/aeris-crypto/frank/hazmat/aead"
)

// PointSize is the length, in bytes, of a canonically-encoded Ristretto255 element.
const PointSize = 32

// Ciphertext is a proxy-re-encryptable ElGamal ciphertext: (r*G + m, r*pk). Unlike hazmat/elgamal's plain
// ciphertext, the message lives in the first coordinate so ReKey/ReEnc can transform the second coordinate
// alone.
type Ciphertext struct {
	C1, C2 *ristretto255.Element
}

// Encrypt computes (r*G + m, r*pk) for a fresh random scalar r.
func Encrypt(pk *ristretto255.Element, m *ristretto255.Element) (Ciphertext, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return Ciphertext{}, fmt.Errorf("pre: drawing masking scalar: %w", err)
	}
	r, err := ristretto255.NewScalar().SetUniformBytes(buf)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("pre: reducing masking scalar: %w", err)
	}

	c1 := ristretto255.NewIdentityElement().ScalarBaseMult(r)
	c1 = c1.Add(c1, m)
	c2 := ristretto255.NewIdentityElement().ScalarMult(r, pk)
	return Ciphertext{C1: c1, C2: c2}, nil
}

// ReKeyFromTo computes the re-encryption key sk2/sk1 that transforms a ciphertext encrypted for the
// sk1-holder's public key into one decryptable by the sk2 holder, i.e. rk = sk2 * sk1^-1.
func ReKeyFromTo(sk1, sk2 *ristretto255.Scalar) *ristretto255.Scalar {
	return ristretto255.NewScalar().Multiply(sk2, ristretto255.NewScalar().Invert(sk1))
}

// ReEnc transforms ct (encrypted under the key sk1 behind rk) into a ciphertext decryptable under sk2:
// (c1, rk*c2).
func ReEnc(ct Ciphertext, rk *ristretto255.Scalar) Ciphertext {
	c2 := ristretto255.NewIdentityElement().ScalarMult(rk, ct.C2)
	return Ciphertext{C1: ct.C1, C2: c2}
}

// Decrypt recovers m = c1 - sk^-1*c2.
func Decrypt(sk *ristretto255.Scalar, ct Ciphertext) *ristretto255.Element {
	skInv := ristretto255.NewScalar().Invert(sk)
	s := ristretto255.NewIdentityElement().ScalarMult(skInv, ct.C2)
	return ristretto255.NewIdentityElement().Subtract(ct.C1, s)
}

// Bytes returns the concatenated canonical encoding of ct.
func (ct Ciphertext) Bytes() []byte {
	return append(ct.C1.Bytes(), ct.C2.Bytes()...)
}

// CiphertextFromBytes decodes a ciphertext produced by Ciphertext.Bytes.
func CiphertextFromBytes(b []byte) (Ciphertext, error) {
	if len(b) != 2*PointSize {
		return Ciphertext{}, fmt.Errorf("pre: wrong ciphertext length: %w", frank.ErrMalformed)
	}
	c1, err := ristretto255.NewIdentityElement().SetCanonicalBytes(b[:PointSize])
	if err != nil {
		return Ciphertext{}, fmt.Errorf("pre: decoding c1: %w", frank.ErrMalformed)
	}
	c2, err := ristretto255.NewIdentityElement().SetCanonicalBytes(b[PointSize:])
	if err != nil {
		return Ciphertext{}, fmt.Errorf("pre: decoding c2: %w", frank.ErrMalformed)
	}
	return Ciphertext{C1: c1, C2: c2}, nil
}

// HybridCiphertext pairs a proxy-re-encryptable ElGamal encryption of a random masking point with an AEAD
// ciphertext keyed by that point's hash, for payloads too large to embed as a single group element.
type HybridCiphertext struct {
	Point     Ciphertext
	Symmetric []byte
}

// Seal hybrid-encrypts plaintext under pk: a random masking point p is PRE-encrypted under pk, and
// plaintext is sealed under SHA-256(p) with additionalData bound in.
func Seal(pk *ristretto255.Element, plaintext, additionalData []byte) (HybridCiphertext, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return HybridCiphertext{}, fmt.Errorf("pre: drawing masking point: %w", err)
	}
	p, err := ristretto255.NewIdentityElement().SetUniformBytes(buf)
	if err != nil {
		return HybridCiphertext{}, fmt.Errorf("pre: mapping masking point: %w", err)
	}

	pointCT, err := Encrypt(pk, p)
	if err != nil {
		return HybridCiphertext{}, err
	}
	key := sha256.Sum256(p.Bytes())
	symCT, err := aead.Seal(nil, key, plaintext, additionalData)
	if err != nil {
		return HybridCiphertext{}, fmt.Errorf("pre: sealing payload: %w", err)
	}
	return HybridCiphertext{Point: pointCT, Symmetric: symCT}, nil
}

// ReEnc transforms a hybrid ciphertext's PRE-encrypted point without touching the symmetric payload,
// mirroring the plain Ciphertext ReEnc operation.
func (ct HybridCiphertext) ReEnc(rk *ristretto255.Scalar) HybridCiphertext {
	return HybridCiphertext{Point: ReEnc(ct.Point, rk), Symmetric: ct.Symmetric}
}

// Open reverses Seal (after an optional ReEnc), given the private key matching the ciphertext's current
// recipient.
func Open(sk *ristretto255.Scalar, ct HybridCiphertext, additionalData []byte) ([]byte, error) {
	p := Decrypt(sk, ct.Point)
	key := sha256.Sum256(p.Bytes())
	return aead.Open(nil, key, ct.Symmetric, additionalData)
}

// Bytes returns the concatenated encoding of a hybrid ciphertext's point component and symmetric payload.
// No length prefix is written: the point component is always 2*PointSize bytes, and the decoder splits
// there.
func (ct HybridCiphertext) Bytes() []byte {
	out := ct.Point.Bytes()
	out = append(out, ct.Symmetric...)
	return out
}

// HybridCiphertextFromBytes decodes a hybrid ciphertext produced by HybridCiphertext.Bytes.
func HybridCiphertextFromBytes(b []byte) (HybridCiphertext, error) {
	if len(b) < 2*PointSize {
		return HybridCiphertext{}, fmt.Errorf("pre: truncated hybrid ciphertext: %w", frank.ErrMalformed)
	}
	point, err := CiphertextFromBytes(b[:2*PointSize])
	if err != nil {
		return HybridCiphertext{}, err
	}
	sym := append([]byte(nil), b[2*PointSize:]...)
	return HybridCiphertext{Point: point, Symmetric: sym}, nil
}
