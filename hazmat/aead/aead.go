// Package aead implements the AES-256-GCM authenticated encryption used for the inner ciphertext (c1) and
// for the symmetric layer of the hybrid ElGamal/PRE schemes in hazmat/elgamal and hazmat/pre.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/aeris-crypto/frank"
)

// KeySize is the required AES-256 key length, in bytes.
const KeySize = 32

// NonceSize is the GCM nonce length, in bytes.
const NonceSize = 12

// Overhead is the length, in bytes, of the nonce and authentication tag that Seal adds to the plaintext.
const Overhead = NonceSize + 16

// Seal encrypts and authenticates plaintext under key and additionalData, appending the result to dst. A
// fresh NonceSize-byte nonce is drawn from crypto/rand and prepended to the returned ciphertext, so the
// result round-trips through Open with no other state.
func Seal(dst []byte, key [KeySize]byte, plaintext, additionalData []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("aead: drawing nonce: %w", err)
	}

	dst = append(dst, nonce...)
	return gcm.Seal(dst, nonce, plaintext, additionalData), nil
}

// Open decrypts and authenticates a ciphertext produced by Seal under key and additionalData, appending
// the plaintext to dst. Returns frank.ErrReject if authentication fails, or frank.ErrMalformed if sealed
// is too short to contain a nonce and tag.
func Open(dst []byte, key [KeySize]byte, sealed, additionalData []byte) ([]byte, error) {
	if len(sealed) < Overhead {
		return nil, fmt.Errorf("aead: ciphertext shorter than nonce and tag: %w", frank.ErrMalformed)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext := sealed[:NonceSize], sealed[NonceSize:]
	plaintext, err := gcm.Open(dst, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, fmt.Errorf("aead: %w", frank.ErrReject)
	}
	return plaintext, nil
}

func newGCM(key [KeySize]byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("aead: %w", err)
	}
	return cipher.NewGCM(block)
}
