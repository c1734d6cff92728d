// Package frank implements the cryptographic protocol family behind end-to-end encrypted messaging with
// third-party abuse reporting: a sender (S) and recipient (R) share a symmetric channel, a platform (P)
// forwards ciphertexts and stamps a context onto each message, and a recipient can later hand an
// off-platform moderator (M) a report proving a message was actually sent through the platform to them.
//
// Four variants share the same five-role pipeline (SetupPlatform, SetupMod, Send, Process, Read,
// ReportGen, Moderate) with different overhead and moderator-privacy properties, implemented in the
// schemes/plain, schemes/basic, schemes/modpriv and schemes/constmodpriv subpackages:
//
//   - plain: a single moderator, authenticated by HMAC alone.
//   - basic: many moderators, selected in the clear; the platform's tag is ElGamal-encrypted for the
//     chosen moderator.
//   - modpriv: many moderators, selected unlinkably to the platform, at the cost of one HMAC tag per
//     registered moderator.
//   - constmodpriv: many moderators, selected unlinkably, with constant-size tokens via a BLS12-381
//     pairing in place of the per-moderator HMAC vector.
//
// The hazmat subpackages implement the shared leaf primitives (commitments, MACs, AEAD, a PRG, ElGamal,
// proxy re-encryption, and pairing wrappers) that the four scheme packages are built from. None of the
// packages in this module implement transport, persistence, or a benchmark harness; they expose exactly
// the operations a harness would call.
package frank

import "errors"

// ErrReject is wrapped by every scheme-local error that signals a failed cryptographic check: a bad
// commitment opening, a bad MAC or pairing equality, or a failed reportability check. It is not a fatal
// error — it means moderation declined to accept the report — and callers should test for it with
// errors.Is rather than treating it as a programming error.
var ErrReject = errors.New("frank: rejected")

// ErrMalformed is wrapped by every scheme-local error that signals undecodable input: wrong-sized byte
// strings, invalid point or scalar encodings, truncated wire records. Unlike ErrReject, a Malformed error
// means the caller handed the scheme bytes it cannot safely interpret at all, not bytes that failed a
// cryptographic check.
var ErrMalformed = errors.New("frank: malformed input")

// ModeratorID identifies a registered moderator within a platform's registry. Valid values are
// 0..n-1 for a platform that has registered n moderators via SetupMod.
type ModeratorID = uint32

// Context is the opaque, platform-chosen data bound into a token at Process time (e.g. a timestamp or
// send id) and recovered by Moderate on acceptance.
type Context = []byte
