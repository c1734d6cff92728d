// Package constmodpriv implements the many-moderators, unlinkably-selected-moderator variant with
// constant-size tokens: it replaces modpriv's per-moderator MAC vector with a single BLS12-381 pairing
// element, at the cost of a pairing dependency and one extra per-message secret (a BLS scalar folded into
// both the commitment witness and the pairing exponent).
package constmodpriv

import (
	"crypto/rand"
	"fmt"

	"github.com/gtank/ristretto255"

	"github.com/aeris-crypto/frank"
	"github.com/aeris-crypto/frank/hazmat/aead"
	"github.com/aeris-crypto/frank/hazmat/commit"
	"github.com/aeris-crypto/frank/hazmat/elgamal"
	"github.com/aeris-crypto/frank/hazmat/pairing"
	"github.com/aeris-crypto/frank/hazmat/pre"
	"github.com/aeris-crypto/frank/hazmat/prg"
	"github.com/aeris-crypto/frank/internal/wire"
)

// ChannelKeySize is the required length, in bytes, of the sender/recipient symmetric channel key.
const ChannelKeySize = aead.KeySize

// ModeratorID indexes a registered moderator.
type ModeratorID = frank.ModeratorID

// Platform holds the platform's pairing key pair: k_P (private, used at Process) and its public
// counterpart k_reg = k_P^-1 * G2, which every moderator folds into its processing key at registration.
type Platform struct {
	KP   pairing.Scalar
	KReg pairing.G2Point
}

// SetupPlatform draws a fresh BLS scalar k_P and derives k_reg = k_P^-1 * G2.
func SetupPlatform() (*Platform, error) {
	kP, err := pairing.RandomScalar()
	if err != nil {
		return nil, fmt.Errorf("constmodpriv: generating platform key: %w", err)
	}
	kReg := pairing.G2Generator().ScalarMul(kP.Inverse())
	return &Platform{KP: kP, KReg: kReg}, nil
}

// ModeratorPublic is what a moderator publishes: its two ElGamal public keys, the re-key scalar from pk1
// to pk2, its registration public key (PK2, as in modpriv), and its processing key pk_proc = k*k_reg.
type ModeratorPublic struct {
	PK1, PK2 elgamal.PublicKey
	K12      *ristretto255.Scalar
	PKProc   pairing.G2Point
}

// ModeratorPrivate is a moderator's full private key material.
type ModeratorPrivate struct {
	SK1, SK2 elgamal.PrivateKey
	K        pairing.Scalar
}

// SetupMod draws a moderator's ElGamal key pairs, re-key scalar, and BLS processing scalar, and derives
// its processing public key against the platform's k_reg.
func SetupMod(platform *Platform) (priv ModeratorPrivate, pub ModeratorPublic, err error) {
	sk1, pk1, err := elgamal.GenerateKey()
	if err != nil {
		return ModeratorPrivate{}, ModeratorPublic{}, fmt.Errorf("constmodpriv: generating key 1: %w", err)
	}
	sk2, pk2, err := elgamal.GenerateKey()
	if err != nil {
		return ModeratorPrivate{}, ModeratorPublic{}, fmt.Errorf("constmodpriv: generating key 2: %w", err)
	}
	k12 := pre.ReKeyFromTo(sk1.Scalar(), sk2.Scalar())

	k, err := pairing.RandomScalar()
	if err != nil {
		return ModeratorPrivate{}, ModeratorPublic{}, fmt.Errorf("constmodpriv: generating processing scalar: %w", err)
	}
	pkProc := platform.KReg.ScalarMul(k)

	priv = ModeratorPrivate{SK1: sk1, SK2: sk2, K: k}
	pub = ModeratorPublic{PK1: pk1, PK2: pk2, K12: k12, PKProc: pkProc}
	return priv, pub, nil
}

// Send encrypts m under kR and commits to a franking key r, both derived from a single fresh 32-byte seed
// t via the shared PRG (hazmat/prg), alongside s, the ElGamal masking scalar's seed. r plays two roles:
// the commitment witness, and (reduced to a BLS scalar) the exponent folded into pk_b = r*pk_proc. Only t
// is carried in the inner ciphertext; R re-derives s and r from it rather than the sender retaining both.
func Send(kR [ChannelKeySize]byte, m []byte, modID ModeratorID, pub ModeratorPublic) (c1 []byte, c2 [commit.Size]byte, epk elgamal.PublicKey, pkB pairing.G2Point, err error) {
	var t [prg.SeedSize]byte
	if _, err := rand.Read(t[:]); err != nil {
		return nil, c2, elgamal.PublicKey{}, pairing.G2Point{}, fmt.Errorf("constmodpriv: drawing seed: %w", err)
	}
	s, r := prg.Expand(t)

	sScalar, err := ristretto255.NewScalar().SetUniformBytes(prg.RistrettoScalarSeed(s)[:])
	if err != nil {
		return nil, c2, elgamal.PublicKey{}, pairing.G2Point{}, fmt.Errorf("constmodpriv: reducing masking scalar: %w", err)
	}
	epkElem := ristretto255.NewIdentityElement().ScalarMult(sScalar, pub.PK1.Element())
	epk, err = elgamal.PublicKeyFromBytes(epkElem.Bytes())
	if err != nil {
		return nil, c2, elgamal.PublicKey{}, pairing.G2Point{}, fmt.Errorf("constmodpriv: encoding epk: %w", err)
	}

	kR1 := ristretto255.NewScalar().Multiply(pub.K12, ristretto255.NewScalar().Invert(sScalar))

	var rArr [32]byte
	copy(rArr[:], r[:])
	rBLS := pairing.ScalarFromBytes(rArr)
	pkB = pub.PKProc.ScalarMul(rBLS)

	c2 = commit.Commit(r[:], m)

	inner := wire.AppendField(nil, m)
	inner = wire.AppendField(inner, modIDBytes(modID))
	inner = wire.AppendField(inner, t[:])
	inner = wire.AppendField(inner, kR1.Bytes())
	c1, err = aead.Seal(nil, kR, inner, nil)
	if err != nil {
		return nil, c2, elgamal.PublicKey{}, pairing.G2Point{}, fmt.Errorf("constmodpriv: sealing inner ciphertext: %w", err)
	}
	return c1, c2, epk, pkB, nil
}

// State is the opaque per-message data the platform emits alongside the token.
type State struct {
	Ctx []byte
	EPK elgamal.PublicKey
	PKB pairing.G2Point
	CR  pre.HybridCiphertext
}

// Process samples a fresh BLS scalar r', computes H = hash_to_G1(c2, ctx), blinds it by k_P*r', pairs the
// result against the ephemeral processing key pk_b, and PRE-encrypts r' (as an explicit 32-byte scalar)
// under epk so only the designated moderator's chain of re-keys can ever recover it.
func Process(platform *Platform, c1 []byte, c2 [commit.Size]byte, epk elgamal.PublicKey, pkB pairing.G2Point, ctx []byte) (sigma pairing.GT, st State, err error) {
	rPrime, err := pairing.RandomScalar()
	if err != nil {
		return pairing.GT{}, State{}, fmt.Errorf("constmodpriv: drawing r': %w", err)
	}

	h, err := pairing.HashToG1(tokenMessage(c2, ctx))
	if err != nil {
		return pairing.GT{}, State{}, err
	}
	hPrime := h.ScalarMul(platform.KP.Mul(rPrime))

	sigma, err = pairing.Pair(hPrime, pkB)
	if err != nil {
		return pairing.GT{}, State{}, err
	}

	rPrimeBytes := rPrime.Bytes()
	cR, err := pre.Seal(epk.Element(), rPrimeBytes[:], nil)
	if err != nil {
		return pairing.GT{}, State{}, fmt.Errorf("constmodpriv: sealing r': %w", err)
	}

	return sigma, State{Ctx: append([]byte(nil), ctx...), EPK: epk, PKB: pkB, CR: cR}, nil
}

// Report is what the recipient retains after Read and hands the moderator at reporting time.
type Report struct {
	C2         [commit.Size]byte
	R          [32]byte
	Ctx        []byte
	ModID      ModeratorID
	SigmaPrime pairing.GT
	CRReenc    pre.HybridCiphertext
}

// ModeratorPublicRecord is what Read needs per registered moderator: its registration public key (for the
// reportability check) and its processing public key (for the pk_b binding check).
type ModeratorPublicRecord struct {
	PK2    elgamal.PublicKey
	PKProc pairing.G2Point
}

// Read decrypts c1, re-derives (s, r) from the carried seed, checks both mandatory equalities (the
// reportability check k_R'*epk = pk2, and r*pk_proc = pk_b binding the sender's choice of r to this
// moderator's processing key), strips the sender's blinding factor from sigma, and re-encrypts the PRE
// ciphertext under k_R' so the moderator can later decrypt it with its own key.
func Read(kR [ChannelKeySize]byte, recs []ModeratorPublicRecord, c1 []byte, c2 [commit.Size]byte, sigma pairing.GT, st State) (m []byte, modID ModeratorID, report Report, err error) {
	inner, err := aead.Open(nil, kR, c1, nil)
	if err != nil {
		return nil, 0, Report{}, fmt.Errorf("constmodpriv: opening inner ciphertext: %w", err)
	}
	fields, err := wire.ReadFields(inner, 4)
	if err != nil {
		return nil, 0, Report{}, fmt.Errorf("constmodpriv: decoding inner ciphertext: %w", err)
	}
	m, modIDBuf, tBytes, kR1Bytes := fields[0], fields[1], fields[2], fields[3]

	modID, err = modIDFromBytes(modIDBuf)
	if err != nil {
		return nil, 0, Report{}, err
	}
	if int(modID) >= len(recs) {
		return nil, 0, Report{}, fmt.Errorf("constmodpriv: moderator id %d out of range: %w", modID, frank.ErrMalformed)
	}
	if len(tBytes) != prg.SeedSize {
		return nil, 0, Report{}, fmt.Errorf("constmodpriv: wrong seed length: %w", frank.ErrMalformed)
	}
	var t [prg.SeedSize]byte
	copy(t[:], tBytes)
	// s re-derives the sender's ElGamal masking scalar, but the sender already folded it into k_R' before
	// sealing c1, so Read only needs r (the franking key) from this pair.
	_, r := prg.Expand(t)

	if !commit.Open(c2, m, r[:]) {
		return nil, 0, Report{}, fmt.Errorf("constmodpriv: %w", frank.ErrReject)
	}

	kR1, err := ristretto255.NewScalar().SetCanonicalBytes(kR1Bytes)
	if err != nil {
		return nil, 0, Report{}, fmt.Errorf("constmodpriv: decoding k_R': %w", frank.ErrMalformed)
	}

	check := ristretto255.NewIdentityElement().ScalarMult(kR1, st.EPK.Element())
	if check.Equal(recs[modID].PK2.Element()) != 1 {
		return nil, 0, Report{}, fmt.Errorf("constmodpriv: reportability check failed: %w", frank.ErrReject)
	}

	var rArr [32]byte
	copy(rArr[:], r[:])
	rBLS := pairing.ScalarFromBytes(rArr)
	expectPKB := recs[modID].PKProc.ScalarMul(rBLS)
	if !expectPKB.Equal(st.PKB) {
		return nil, 0, Report{}, fmt.Errorf("constmodpriv: pk_b binding check failed: %w", frank.ErrReject)
	}

	sigmaPrime := sigma.Exp(rBLS.Inverse())
	cRre := st.CR.ReEnc(kR1)

	return m, modID, Report{
		C2:         c2,
		R:          rArr,
		Ctx:        st.Ctx,
		ModID:      modID,
		SigmaPrime: sigmaPrime,
		CRReenc:    cRre,
	}, nil
}

// ReportGen returns the report assembled at Read unchanged.
func ReportGen(m []byte, report Report) Report {
	return report
}

// Moderate PRE-decrypts the re-encrypted r' with its own SK2, recomputes H'' = (k*r')*H, and accepts iff
// the pairing e(H'', G2_generator) matches the report's blinding-stripped sigma' and the commitment opens.
func Moderate(priv ModeratorPrivate, m []byte, report Report) ([]byte, error) {
	if !commit.Open(report.C2, m, report.R[:]) {
		return nil, fmt.Errorf("constmodpriv: commitment check failed: %w", frank.ErrReject)
	}

	rPrimeBytes, err := pre.Open(priv.SK2.Scalar(), report.CRReenc, nil)
	if err != nil {
		return nil, fmt.Errorf("constmodpriv: opening r': %w", err)
	}
	rPrime, err := pairing.ScalarFromCanonicalBytes(rPrimeBytes)
	if err != nil {
		return nil, err
	}

	h, err := pairing.HashToG1(tokenMessage(report.C2, report.Ctx))
	if err != nil {
		return nil, err
	}
	hPP := h.ScalarMul(priv.K.Mul(rPrime))

	expected, err := pairing.Pair(hPP, pairing.G2Generator())
	if err != nil {
		return nil, err
	}
	if !expected.Equal(report.SigmaPrime) {
		return nil, fmt.Errorf("constmodpriv: token verification failed: %w", frank.ErrReject)
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
		return 0, fmt.Errorf("constmodpriv: wrong moderator id length: %w", frank.ErrMalformed)
	}
	return ModeratorID(b[0])<<24 | ModeratorID(b[1])<<16 | ModeratorID(b[2])<<8 | ModeratorID(b[3]), nil
}
