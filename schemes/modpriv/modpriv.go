// Package modpriv implements the many-moderators, unlinkably-selected-moderator variant: the platform
// computes a MAC for every registered moderator and PRE-encrypts the whole vector to an ephemeral key the
// sender pins to the one moderator the recipient will actually report to, so the platform's view of a
// message never reveals which slot matters.
package modpriv

import (
	"crypto/rand"
	"fmt"

	"github.com/gtank/ristretto255"

	"github.com/aeris-crypto/frank"
	"github.com/aeris-crypto/frank/hazmat/aead"
	"github.com/aeris-crypto/frank/hazmat/commit"
	"github.com/aeris-crypto/frank/hazmat/elgamal"
	"github.com/aeris-crypto/frank/hazmat/mac"
	"github.com/aeris-crypto/frank/hazmat/pre"
	"github.com/aeris-crypto/frank/internal/wire"
)

// ChannelKeySize is the required length, in bytes, of the sender/recipient symmetric channel key.
const ChannelKeySize = aead.KeySize

// ModeratorID indexes a registered moderator.
type ModeratorID = frank.ModeratorID

// ModeratorPublic is what a moderator publishes to the platform and to senders: its two ElGamal public
// keys and the scalar re-keying pk1's ciphertexts to pk2.
type ModeratorPublic struct {
	PK1, PK2 elgamal.PublicKey
	K12      *ristretto255.Scalar
}

// ModeratorPrivate is a moderator's full private key material, retained only by the moderator.
type ModeratorPrivate struct {
	SK1, SK2 elgamal.PrivateKey
}

// moderatorRecord is the platform's view of one registered moderator: its MAC key and its PK2 only (PK1
// and K12 are published to senders, never to the platform).
type moderatorRecord struct {
	MacKey [mac.KeySize]byte
	PK2    elgamal.PublicKey
}

// Platform is the platform's moderator registry.
type Platform struct {
	Moderators []moderatorRecord
}

// SetupPlatform returns a fresh platform with no registered moderators.
func SetupPlatform() *Platform {
	return &Platform{}
}

// SetupMod draws a moderator's two ElGamal key pairs and MAC key, registers its MAC key and PK2 with the
// platform, and returns the moderator's id, its full private key material, and the public record senders
// need (PK1, PK2, K12).
func SetupMod(platform *Platform) (id ModeratorID, priv ModeratorPrivate, pub ModeratorPublic, macKey [mac.KeySize]byte, err error) {
	sk1, pk1, err := elgamal.GenerateKey()
	if err != nil {
		return 0, ModeratorPrivate{}, ModeratorPublic{}, macKey, fmt.Errorf("modpriv: generating key 1: %w", err)
	}
	sk2, pk2, err := elgamal.GenerateKey()
	if err != nil {
		return 0, ModeratorPrivate{}, ModeratorPublic{}, macKey, fmt.Errorf("modpriv: generating key 2: %w", err)
	}
	k, err := mac.GenerateKey()
	if err != nil {
		return 0, ModeratorPrivate{}, ModeratorPublic{}, macKey, fmt.Errorf("modpriv: generating MAC key: %w", err)
	}
	k12 := pre.ReKeyFromTo(sk1.Scalar(), sk2.Scalar())

	id = ModeratorID(len(platform.Moderators))
	platform.Moderators = append(platform.Moderators, moderatorRecord{MacKey: k, PK2: pk2})

	priv = ModeratorPrivate{SK1: sk1, SK2: sk2}
	pub = ModeratorPublic{PK1: pk1, PK2: pk2, K12: k12}
	return id, priv, pub, k, nil
}

// Send encrypts m under kR, commits to a fresh franking key, and pins an ephemeral public key epk (the
// associated data P sees) to modID via pub: k_R' = k12 * s^-1 satisfies k_R' * epk = pk2, which Read later
// checks to prove the sender actually designated this moderator.
func Send(kR [ChannelKeySize]byte, m []byte, modID ModeratorID, pub ModeratorPublic) (c1 []byte, c2 [commit.Size]byte, epk elgamal.PublicKey, err error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return nil, c2, elgamal.PublicKey{}, fmt.Errorf("modpriv: drawing masking scalar: %w", err)
	}
	s, err := ristretto255.NewScalar().SetUniformBytes(buf)
	if err != nil {
		return nil, c2, elgamal.PublicKey{}, fmt.Errorf("modpriv: reducing masking scalar: %w", err)
	}

	epkElem := ristretto255.NewIdentityElement().ScalarMult(s, pub.PK1.Element())
	epk = publicKeyFromElement(epkElem)

	kR1 := ristretto255.NewScalar().Multiply(pub.K12, ristretto255.NewScalar().Invert(s))

	var kF [32]byte
	if _, err := rand.Read(kF[:]); err != nil {
		return nil, c2, elgamal.PublicKey{}, fmt.Errorf("modpriv: drawing franking key: %w", err)
	}
	c2 = commit.Commit(kF[:], m)

	inner := wire.AppendField(nil, m)
	inner = wire.AppendField(inner, modIDBytes(modID))
	inner = wire.AppendField(inner, kF[:])
	inner = wire.AppendField(inner, kR1.Bytes())
	c1, err = aead.Seal(nil, kR, inner, nil)
	if err != nil {
		return nil, c2, elgamal.PublicKey{}, fmt.Errorf("modpriv: sealing inner ciphertext: %w", err)
	}
	return c1, c2, epk, nil
}

// State is the opaque per-message data the platform emits alongside the token.
type State struct {
	Ctx []byte
	EPK elgamal.PublicKey
}

// Process computes a MAC over (c2, ctx) under every registered moderator's key, concatenates the vector,
// and PRE-encrypts it (hybrid form) under epk, so the platform's only per-message secret-dependent value
// is a token that looks identical regardless of which moderator the sender actually chose.
func Process(platform *Platform, c1 []byte, c2 [commit.Size]byte, epk elgamal.PublicKey, ctx []byte) (sigmaCT pre.HybridCiphertext, st State, err error) {
	tau := make([]byte, 0, len(platform.Moderators)*mac.TagSize)
	msg := tokenMessage(c2, ctx)
	for _, rec := range platform.Moderators {
		tag := mac.Sign(rec.MacKey[:], msg)
		tau = append(tau, tag[:]...)
	}

	sigmaCT, err = pre.Seal(epk.Element(), tau, nil)
	if err != nil {
		return pre.HybridCiphertext{}, State{}, fmt.Errorf("modpriv: sealing token vector: %w", err)
	}
	return sigmaCT, State{Ctx: append([]byte(nil), ctx...), EPK: epk}, nil
}

// Report is what the recipient retains after Read and hands the moderator at reporting time.
type Report struct {
	KF      [32]byte
	C2      [commit.Size]byte
	Ctx     []byte
	ModID   ModeratorID
	SigmaCT pre.HybridCiphertext
	KR1     *ristretto255.Scalar
}

// Read decrypts c1, verifies the commitment, and checks that the ephemeral key was indeed constructed for
// the moderator the recipient believes they're reporting to (the reportability check k_R'*epk = pk2).
func Read(kR [ChannelKeySize]byte, pks []elgamal.PublicKey, c1 []byte, c2 [commit.Size]byte, sigmaCT pre.HybridCiphertext, st State) (m []byte, report Report, err error) {
	inner, err := aead.Open(nil, kR, c1, nil)
	if err != nil {
		return nil, Report{}, fmt.Errorf("modpriv: opening inner ciphertext: %w", err)
	}
	fields, err := wire.ReadFields(inner, 4)
	if err != nil {
		return nil, Report{}, fmt.Errorf("modpriv: decoding inner ciphertext: %w", err)
	}
	m, modIDBuf, kFBytes, kR1Bytes := fields[0], fields[1], fields[2], fields[3]

	modID, err := modIDFromBytes(modIDBuf)
	if err != nil {
		return nil, Report{}, err
	}
	if int(modID) >= len(pks) {
		return nil, Report{}, fmt.Errorf("modpriv: moderator id %d out of range: %w", modID, frank.ErrMalformed)
	}
	if len(kFBytes) != 32 {
		return nil, Report{}, fmt.Errorf("modpriv: wrong franking key length: %w", frank.ErrMalformed)
	}
	var kF [32]byte
	copy(kF[:], kFBytes)

	kR1, err := ristretto255.NewScalar().SetCanonicalBytes(kR1Bytes)
	if err != nil {
		return nil, Report{}, fmt.Errorf("modpriv: decoding k_R': %w", frank.ErrMalformed)
	}

	if !commit.Open(c2, m, kF[:]) {
		return nil, Report{}, fmt.Errorf("modpriv: %w", frank.ErrReject)
	}

	check := ristretto255.NewIdentityElement().ScalarMult(kR1, st.EPK.Element())
	if check.Equal(pks[modID].Element()) != 1 {
		return nil, Report{}, fmt.Errorf("modpriv: reportability check failed: %w", frank.ErrReject)
	}

	return m, Report{KF: kF, C2: c2, Ctx: st.Ctx, ModID: modID, SigmaCT: sigmaCT, KR1: kR1}, nil
}

// ReportGen re-encrypts the token vector's ElGamal pair under k_R', the reportability scalar, so the
// moderator can decrypt it with its own SK2 without ever seeing epk's discrete log.
func ReportGen(m []byte, report Report) Report {
	report.SigmaCT = report.SigmaCT.ReEnc(report.KR1)
	return report
}

// Moderate PRE-decrypts the token vector with SK2, extracts the modID-th slot, and accepts iff the
// commitment opens and that slot verifies as a MAC over (c2, ctx) under the moderator's own key.
func Moderate(sk2 elgamal.PrivateKey, macKey [mac.KeySize]byte, modID ModeratorID, m []byte, report Report) ([]byte, error) {
	if !commit.Open(report.C2, m, report.KF[:]) {
		return nil, fmt.Errorf("modpriv: commitment check failed: %w", frank.ErrReject)
	}

	tau, err := pre.Open(sk2.Scalar(), report.SigmaCT, nil)
	if err != nil {
		return nil, fmt.Errorf("modpriv: opening token vector: %w", err)
	}
	start := int(modID) * mac.TagSize
	if start+mac.TagSize > len(tau) {
		return nil, fmt.Errorf("modpriv: moderator id %d out of range of token vector: %w", modID, frank.ErrMalformed)
	}
	var tag [mac.TagSize]byte
	copy(tag[:], tau[start:start+mac.TagSize])

	if !mac.Verify(macKey[:], tokenMessage(report.C2, report.Ctx), tag) {
		return nil, fmt.Errorf("modpriv: token verification failed: %w", frank.ErrReject)
	}
	return report.Ctx, nil
}

func tokenMessage(c2 [commit.Size]byte, ctx []byte) []byte {
	msg := wire.AppendField(nil, c2[:])
	msg = wire.AppendField(msg, ctx)
	return msg
}

func modIDBytes(id ModeratorID) []byte {
	return []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
}

func modIDFromBytes(b []byte) (ModeratorID, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("modpriv: wrong moderator id length: %w", frank.ErrMalformed)
	}
	return ModeratorID(b[0])<<24 | ModeratorID(b[1])<<16 | ModeratorID(b[2])<<8 | ModeratorID(b[3]), nil
}

func publicKeyFromElement(e *ristretto255.Element) elgamal.PublicKey {
	pk, err := elgamal.PublicKeyFromBytes(e.Bytes())
	if err != nil {
		panic("modpriv: unreachable: encoding a valid element must decode")
	}
	return pk
}
