// Package basic implements the many-moderators, publicly-selected-moderator variant: the platform signs
// a per-moderator tag and hashes it onto a Ristretto255 point so it can hand the tag to the recipient as
// a single plain ElGamal pair, without the overhead of a hybrid ciphertext.
package basic

import (
	"crypto/rand"
	"fmt"

	"github.com/gtank/ristretto255"

	"github.com/aeris-crypto/frank"
	"github.com/aeris-crypto/frank/hazmat/aead"
	"github.com/aeris-crypto/frank/hazmat/commit"
	"github.com/aeris-crypto/frank/hazmat/elgamal"
	"github.com/aeris-crypto/frank/hazmat/mac"
	"github.com/aeris-crypto/frank/internal/wire"
)

// ChannelKeySize is the required length, in bytes, of the sender/recipient symmetric channel key.
const ChannelKeySize = aead.KeySize

// ModeratorID indexes a registered moderator.
type ModeratorID = frank.ModeratorID

// ModeratorKey is the MAC key the platform shares with one registered moderator.
type ModeratorKey [mac.KeySize]byte

// ModeratorRecord is a single registered moderator's platform-visible key material.
type ModeratorRecord struct {
	MacKey ModeratorKey
	PubKey elgamal.PublicKey
}

// Platform is the platform's moderator registry. The zero value is an empty platform, matching
// SetupPlatform's empty-registry result; entries are appended only by SetupMod.
type Platform struct {
	Moderators []ModeratorRecord
}

// SetupPlatform returns a fresh platform with no registered moderators.
func SetupPlatform() *Platform {
	return &Platform{}
}

// SetupMod draws a fresh MAC key and ElGamal key pair for a new moderator, registers it with platform,
// and returns the assigned moderator id, the moderator's private decryption key, and its MAC key (which
// the moderator retains to later verify tokens at Moderate).
func SetupMod(platform *Platform) (id ModeratorID, macKey ModeratorKey, privKey elgamal.PrivateKey, err error) {
	k, err := mac.GenerateKey()
	if err != nil {
		return 0, ModeratorKey{}, elgamal.PrivateKey{}, fmt.Errorf("basic: generating moderator MAC key: %w", err)
	}
	sk, pk, err := elgamal.GenerateKey()
	if err != nil {
		return 0, ModeratorKey{}, elgamal.PrivateKey{}, fmt.Errorf("basic: generating moderator ElGamal key: %w", err)
	}

	id = ModeratorID(len(platform.Moderators))
	platform.Moderators = append(platform.Moderators, ModeratorRecord{MacKey: ModeratorKey(k), PubKey: pk})
	return id, ModeratorKey(k), sk, nil
}

// Send encrypts m under the channel key kR, committing to a fresh franking key, and selects modID in the
// clear as the associated data.
func Send(kR [ChannelKeySize]byte, m []byte, modID ModeratorID) (c1 []byte, c2 [commit.Size]byte, ad ModeratorID, err error) {
	var kF [32]byte
	if _, err := rand.Read(kF[:]); err != nil {
		return nil, c2, 0, fmt.Errorf("basic: drawing franking key: %w", err)
	}
	c2 = commit.Commit(kF[:], m)

	inner := wire.AppendField(nil, m)
	inner = wire.AppendField(inner, kF[:])
	c1, err = aead.Seal(nil, kR, inner, nil)
	if err != nil {
		return nil, c2, 0, fmt.Errorf("basic: sealing inner ciphertext: %w", err)
	}
	return c1, c2, modID, nil
}

// State is the opaque per-message data the platform emits alongside the token.
type State struct {
	Ctx   []byte
	ModID ModeratorID
}

// Process looks up the chosen moderator's MAC key and ElGamal public key, computes a 64-byte HMAC-SHA512
// tag over (c2, ctx), hashes that tag onto a Ristretto255 point, and ElGamal-encrypts the point for the
// moderator.
func Process(platform *Platform, c1 []byte, c2 [commit.Size]byte, modID ModeratorID, ctx []byte) (sigmaCT elgamal.Ciphertext, st State, err error) {
	if int(modID) >= len(platform.Moderators) {
		return elgamal.Ciphertext{}, State{}, fmt.Errorf("basic: moderator id %d out of range: %w", modID, frank.ErrMalformed)
	}
	rec := platform.Moderators[modID]

	point, err := hashToPoint(rec.MacKey, c2, ctx)
	if err != nil {
		return elgamal.Ciphertext{}, State{}, err
	}

	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return elgamal.Ciphertext{}, State{}, fmt.Errorf("basic: drawing masking scalar: %w", err)
	}
	r, err := ristretto255.NewScalar().SetUniformBytes(buf)
	if err != nil {
		return elgamal.Ciphertext{}, State{}, fmt.Errorf("basic: reducing masking scalar: %w", err)
	}

	sigmaCT = elgamal.Encrypt(rec.PubKey, r, point)
	return sigmaCT, State{Ctx: append([]byte(nil), ctx...), ModID: modID}, nil
}

// Report is what the recipient retains after Read and hands the moderator at reporting time.
type Report struct {
	KF      [32]byte
	C2      [commit.Size]byte
	Ctx     []byte
	ModID   ModeratorID
	SigmaCT elgamal.Ciphertext
}

// Read decrypts c1 under kR, verifies the commitment, and assembles the report.
func Read(kR [ChannelKeySize]byte, c1 []byte, c2 [commit.Size]byte, sigmaCT elgamal.Ciphertext, st State) (m []byte, report Report, err error) {
	inner, err := aead.Open(nil, kR, c1, nil)
	if err != nil {
		return nil, Report{}, fmt.Errorf("basic: opening inner ciphertext: %w", err)
	}
	fields, err := wire.ReadFields(inner, 2)
	if err != nil {
		return nil, Report{}, fmt.Errorf("basic: decoding inner ciphertext: %w", err)
	}
	m, kFBytes := fields[0], fields[1]
	if len(kFBytes) != 32 {
		return nil, Report{}, fmt.Errorf("basic: wrong franking key length: %w", frank.ErrMalformed)
	}
	var kF [32]byte
	copy(kF[:], kFBytes)

	if !commit.Open(c2, m, kF[:]) {
		return nil, Report{}, fmt.Errorf("basic: %w", frank.ErrReject)
	}

	return m, Report{KF: kF, C2: c2, Ctx: st.Ctx, ModID: st.ModID, SigmaCT: sigmaCT}, nil
}

// ReportGen returns the report assembled at Read unchanged; Basic requires no re-encryption between
// reading and reporting.
func ReportGen(m []byte, report Report) Report {
	return report
}

// Moderate ElGamal-decrypts the report's token to recover the hashed point, recomputes the expected point
// from its own MAC key, and accepts iff the points match and the commitment opens.
func Moderate(skEnc elgamal.PrivateKey, km ModeratorKey, m []byte, report Report) ([]byte, error) {
	if !commit.Open(report.C2, m, report.KF[:]) {
		return nil, fmt.Errorf("basic: commitment check failed: %w", frank.ErrReject)
	}

	got := elgamal.Decrypt(skEnc, report.SigmaCT)
	want, err := hashToPoint(km, report.C2, report.Ctx)
	if err != nil {
		return nil, err
	}
	if got.Equal(want) != 1 {
		return nil, fmt.Errorf("basic: token verification failed: %w", frank.ErrReject)
	}
	return report.Ctx, nil
}

func hashToPoint(km ModeratorKey, c2 [commit.Size]byte, ctx []byte) (*ristretto255.Element, error) {
	msg := wire.AppendField(nil, c2[:])
	msg = wire.AppendField(msg, ctx)
	tag := mac.Sign512(km[:], msg)
	p, err := ristretto255.NewIdentityElement().SetUniformBytes(tag[:])
	if err != nil {
		return nil, fmt.Errorf("basic: hashing to point: %w", err)
	}
	return p, nil
}
