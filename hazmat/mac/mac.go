// Package mac implements the HMAC-SHA256 and HMAC-SHA512 authenticators used to bind a platform's
// signature over a commitment and context, and (via the 512-bit variant) to produce uniform bytes that
// can be mapped onto a Ristretto255 group element.
package mac

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
)

// TagSize is the length, in bytes, of a Sign tag.
const TagSize = sha256.Size

// Tag512Size is the length, in bytes, of a Sign512 tag.
const Tag512Size = sha512.Size

// KeySize is the expected key length for Sign/Verify and Sign512/Verify512.
const KeySize = 32

// GenerateKey draws a fresh, uniformly random KeySize-byte MAC key.
func GenerateKey() ([KeySize]byte, error) {
	var k [KeySize]byte
	_, err := rand.Read(k[:])
	return k, err
}

// Sign computes an HMAC-SHA256 tag over message under key.
func Sign(key, message []byte) [TagSize]byte {
	h := hmac.New(sha256.New, key)
	h.Write(message)
	var out [TagSize]byte
	h.Sum(out[:0])
	return out
}

// Verify reports whether tag is a valid HMAC-SHA256 tag over message under key, in constant time.
func Verify(key, message []byte, tag [TagSize]byte) bool {
	got := Sign(key, message)
	return subtle.ConstantTimeCompare(got[:], tag[:]) == 1
}

// Sign512 computes an HMAC-SHA512 tag over message under key. The 64-byte output is sized so it can be
// mapped directly onto a Ristretto255 group element via Element.SetUniformBytes.
func Sign512(key, message []byte) [Tag512Size]byte {
	h := hmac.New(sha512.New, key)
	h.Write(message)
	var out [Tag512Size]byte
	h.Sum(out[:0])
	return out
}

// Verify512 reports whether tag is a valid HMAC-SHA512 tag over message under key, in constant time.
func Verify512(key, message []byte, tag [Tag512Size]byte) bool {
	got := Sign512(key, message)
	return subtle.ConstantTimeCompare(got[:], tag[:]) == 1
}
