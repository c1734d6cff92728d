// Package elgamal implements plain ElGamal encryption over Ristretto255, used directly to transport the
// Basic scheme's selected-moderator franking tag, and a hybrid form that carries arbitrary-length payloads
// under a random-point-derived symmetric key. ModPriv and ConstModPriv use this package for their key
// pairs only; their payloads travel through hazmat/pre.
package elgamal

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/gtank/ristretto255"

	"github.com/aeris-crypto/frank"
	"github.com/aeris-crypto/frank/hazmat/aead"
)

// PointSize is the length, in bytes, of a canonically-encoded Ristretto255 element or scalar.
const PointSize = 32

// PrivateKey is an ElGamal decryption key.
type PrivateKey struct{ s *ristretto255.Scalar }

// PublicKey is an ElGamal encryption key.
type PublicKey struct{ e *ristretto255.Element }

// Ciphertext is a plain ElGamal encryption of a group element: (r*G, r*pk + m).
type Ciphertext struct {
	C1, C2 *ristretto255.Element
}

// GenerateKey draws a fresh private key and derives its matching public key.
func GenerateKey() (PrivateKey, PublicKey, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return PrivateKey{}, PublicKey{}, fmt.Errorf("elgamal: drawing key: %w", err)
	}
	sk, err := ristretto255.NewScalar().SetUniformBytes(buf)
	if err != nil {
		return PrivateKey{}, PublicKey{}, fmt.Errorf("elgamal: reducing key: %w", err)
	}
	pk := ristretto255.NewIdentityElement().ScalarBaseMult(sk)
	return PrivateKey{sk}, PublicKey{pk}, nil
}

// PublicKeyFor derives the public key matching a private key.
func PublicKeyFor(sk PrivateKey) PublicKey {
	return PublicKey{ristretto255.NewIdentityElement().ScalarBaseMult(sk.s)}
}

// Scalar returns the private scalar, for use in ModPriv/ConstModPriv key derivations (k1_2, rekeys) that
// operate directly on ElGamal private keys.
func (sk PrivateKey) Scalar() *ristretto255.Scalar { return sk.s }

// Element returns the public group element.
func (pk PublicKey) Element() *ristretto255.Element { return pk.e }

// Bytes returns the canonical encoding of pk.
func (pk PublicKey) Bytes() []byte { return pk.e.Bytes() }

// PublicKeyFromBytes decodes a canonically-encoded public key.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	e, err := ristretto255.NewIdentityElement().SetCanonicalBytes(b)
	if err != nil {
		return PublicKey{}, fmt.Errorf("elgamal: decoding public key: %w", frank.ErrMalformed)
	}
	return PublicKey{e}, nil
}

// Encrypt computes the plain ElGamal encryption of group element m under pk using masking scalar r:
// (r*G, r*pk + m). The caller supplies r, so the masking scalar can be derived deterministically rather
// than always drawn fresh.
func Encrypt(pk PublicKey, r *ristretto255.Scalar, m *ristretto255.Element) Ciphertext {
	c1 := ristretto255.NewIdentityElement().ScalarBaseMult(r)
	c2 := ristretto255.NewIdentityElement().ScalarMult(r, pk.e)
	c2 = c2.Add(c2, m)
	return Ciphertext{C1: c1, C2: c2}
}

// Decrypt recovers m = c2 - sk*c1.
func Decrypt(sk PrivateKey, ct Ciphertext) *ristretto255.Element {
	sm := ristretto255.NewIdentityElement().ScalarMult(sk.s, ct.C1)
	return ristretto255.NewIdentityElement().Subtract(ct.C2, sm)
}

// Bytes returns the concatenated canonical encoding of a ciphertext.
func (ct Ciphertext) Bytes() []byte {
	return append(ct.C1.Bytes(), ct.C2.Bytes()...)
}

// CiphertextFromBytes decodes a ciphertext produced by Ciphertext.Bytes.
func CiphertextFromBytes(b []byte) (Ciphertext, error) {
	if len(b) != 2*PointSize {
		return Ciphertext{}, fmt.Errorf("elgamal: wrong ciphertext length: %w", frank.ErrMalformed)
	}
	c1, err := ristretto255.NewIdentityElement().SetCanonicalBytes(b[:PointSize])
	if err != nil {
		return Ciphertext{}, fmt.Errorf("elgamal: decoding c1: %w", frank.ErrMalformed)
	}
	c2, err := ristretto255.NewIdentityElement().SetCanonicalBytes(b[PointSize:])
	if err != nil {
		return Ciphertext{}, fmt.Errorf("elgamal: decoding c2: %w", frank.ErrMalformed)
	}
	return Ciphertext{C1: c1, C2: c2}, nil
}

// HybridCiphertext is a plain ElGamal encryption of a random masking point, paired with an AEAD
// ciphertext of arbitrary-length plaintext encrypted under a key derived from that point.
type HybridCiphertext struct {
	Point     Ciphertext
	Symmetric []byte
}

// Seal hybrid-encrypts plaintext under pk: it draws a random masking point p, ElGamal-encrypts p under
// pk with masking scalar r, derives an AES-256-GCM key as SHA-256(p), and seals plaintext under that key
// and additionalData, for payloads too large to embed directly as a single group element.
func Seal(pk PublicKey, r *ristretto255.Scalar, plaintext, additionalData []byte) (HybridCiphertext, error) {
	pointBuf := make([]byte, 64)
	if _, err := rand.Read(pointBuf); err != nil {
		return HybridCiphertext{}, fmt.Errorf("elgamal: drawing masking point: %w", err)
	}
	p, err := ristretto255.NewIdentityElement().SetUniformBytes(pointBuf)
	if err != nil {
		return HybridCiphertext{}, fmt.Errorf("elgamal: mapping masking point: %w", err)
	}

	pointCT := Encrypt(pk, r, p)
	key := sha256.Sum256(p.Bytes())
	symCT, err := aead.Seal(nil, key, plaintext, additionalData)
	if err != nil {
		return HybridCiphertext{}, fmt.Errorf("elgamal: sealing payload: %w", err)
	}
	return HybridCiphertext{Point: pointCT, Symmetric: symCT}, nil
}

// Open reverses Seal.
func Open(sk PrivateKey, ct HybridCiphertext, additionalData []byte) ([]byte, error) {
	p := Decrypt(sk, ct.Point)
	key := sha256.Sum256(p.Bytes())
	return aead.Open(nil, key, ct.Symmetric, additionalData)
}
