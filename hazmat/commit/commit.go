// Package commit implements the franking commitment scheme: a keyed hash of a message under a
// single-use franking key, opened later by revealing that key.
package commit

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
)

// Size is the length, in bytes, of a commitment produced by Commit.
const Size = sha256.Size

// Commit computes c2 = HMAC-SHA256(key, message), binding message to the franking key. The key should be
// fresh, uniformly random, per-message secret data (the franking key); it is not a general-purpose MAC
// key.
func Commit(key, message []byte) [Size]byte {
	h := hmac.New(sha256.New, key)
	h.Write(message)
	var out [Size]byte
	h.Sum(out[:0])
	return out
}

// Open reports whether c2 is a valid commitment to message under key, in constant time with respect to
// c2 and the recomputed tag.
func Open(c2 [Size]byte, message, key []byte) bool {
	got := Commit(key, message)
	return subtle.ConstantTimeCompare(got[:], c2[:]) == 1
}
