// Package plain implements the single-moderator variant: the platform authenticates a token with a MAC
// key shared only with that one moderator, and reporting never touches ElGamal, PRE or pairings at all.
package plain

import (
	"crypto/rand"
	"fmt"

	"github.com/aeris-crypto/frank"
	"github.com/aeris-crypto/frank/hazmat/aead"
	"github.com/aeris-crypto/frank/hazmat/commit"
	"github.com/aeris-crypto/frank/hazmat/mac"
	"github.com/aeris-crypto/frank/internal/wire"
)

// ChannelKeySize is the required length, in bytes, of the sender/recipient symmetric channel key.
const ChannelKeySize = aead.KeySize

// ModeratorKey is the MAC key shared between the platform and its single moderator.
type ModeratorKey [mac.KeySize]byte

// SetupMod draws a fresh moderator MAC key.
func SetupMod() (ModeratorKey, error) {
	k, err := mac.GenerateKey()
	if err != nil {
		return ModeratorKey{}, fmt.Errorf("plain: generating moderator key: %w", err)
	}
	return ModeratorKey(k), nil
}

// Send encrypts m under the channel key kR, committing to a fresh franking key, and returns the inner
// ciphertext c1 and the commitment c2. The franking key never leaves c1.
func Send(kR [ChannelKeySize]byte, m []byte) (c1 []byte, c2 [commit.Size]byte, err error) {
	var kF [32]byte
	if _, err := rand.Read(kF[:]); err != nil {
		return nil, c2, fmt.Errorf("plain: drawing franking key: %w", err)
	}

	c2 = commit.Commit(kF[:], m)

	inner := wire.AppendField(nil, m)
	inner = wire.AppendField(inner, kF[:])
	c1, err = aead.Seal(nil, kR, inner, nil)
	if err != nil {
		return nil, c2, fmt.Errorf("plain: sealing inner ciphertext: %w", err)
	}
	return c1, c2, nil
}

// ModProcess computes the platform's token over the commitment and context. The platform never learns
// the franking key.
func ModProcess(km ModeratorKey, c2 [commit.Size]byte, ctx []byte) [mac.TagSize]byte {
	return mac.Sign(km[:], tokenMessage(c2, ctx))
}

// Report is the information the recipient retains and later hands to the moderator.
type Report struct {
	KF    [32]byte
	C2    [commit.Size]byte
	Ctx   []byte
	Sigma [mac.TagSize]byte
}

// Read decrypts c1 under kR, verifies the commitment, and assembles the report the recipient will later
// forward to the moderator (or discard, if never reported).
func Read(kR [ChannelKeySize]byte, c1 []byte, c2 [commit.Size]byte, ctx []byte, sigma [mac.TagSize]byte) (m []byte, report Report, err error) {
	inner, err := aead.Open(nil, kR, c1, nil)
	if err != nil {
		return nil, Report{}, fmt.Errorf("plain: opening inner ciphertext: %w", err)
	}
	fields, err := wire.ReadFields(inner, 2)
	if err != nil {
		return nil, Report{}, fmt.Errorf("plain: decoding inner ciphertext: %w", err)
	}
	m, kFBytes := fields[0], fields[1]
	if len(kFBytes) != 32 {
		return nil, Report{}, fmt.Errorf("plain: wrong franking key length: %w", frank.ErrMalformed)
	}

	var kF [32]byte
	copy(kF[:], kFBytes)
	if !commit.Open(c2, m, kF[:]) {
		return nil, Report{}, fmt.Errorf("plain: %w", frank.ErrReject)
	}

	return m, Report{KF: kF, C2: c2, Ctx: append([]byte(nil), ctx...), Sigma: sigma}, nil
}

// ReportGen returns the report R assembled at Read unchanged; Plain has no re-encryption step to perform
// between reading and reporting.
func ReportGen(m []byte, report Report) Report {
	return report
}

// Moderate verifies the report: the commitment must open to m under the report's franking key, and the
// token must verify under the moderator's key. On success it returns the context that was bound into the
// token; otherwise it returns frank.ErrReject.
func Moderate(km ModeratorKey, m []byte, report Report) ([]byte, error) {
	if !commit.Open(report.C2, m, report.KF[:]) {
		return nil, fmt.Errorf("plain: commitment check failed: %w", frank.ErrReject)
	}
	if !mac.Verify(km[:], tokenMessage(report.C2, report.Ctx), report.Sigma) {
		return nil, fmt.Errorf("plain: token verification failed: %w", frank.ErrReject)
	}
	return report.Ctx, nil
}

func tokenMessage(c2 [commit.Size]byte, ctx []byte) []byte {
	msg := wire.AppendField(nil, c2[:])
	msg = wire.AppendField(msg, ctx)
	return msg
}
