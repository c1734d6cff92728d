package modpriv_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aeris-crypto/frank"
	"github.com/aeris-crypto/frank/hazmat/elgamal"
	"github.com/aeris-crypto/frank/hazmat/mac"
	"github.com/aeris-crypto/frank/schemes/modpriv"
)

func channelKey(t *testing.T) [modpriv.ChannelKeySize]byte {
	t.Helper()
	var k [modpriv.ChannelKeySize]byte
	copy(k[:], "this is a 32-byte channel key!!")
	return k
}

type moderator struct {
	priv   modpriv.ModeratorPrivate
	pub    modpriv.ModeratorPublic
	macKey [mac.KeySize]byte
}

func setupModerators(t *testing.T, platform *modpriv.Platform, n int) []moderator {
	t.Helper()
	mods := make([]moderator, n)
	for i := 0; i < n; i++ {
		id, priv, pub, macKey, err := modpriv.SetupMod(platform)
		if err != nil {
			t.Fatal(err)
		}
		if int(id) != i {
			t.Fatalf("SetupMod assigned id %d, want %d", id, i)
		}
		mods[i] = moderator{priv: priv, pub: pub, macKey: macKey}
	}
	return mods
}

func pk2s(mods []moderator) []elgamal.PublicKey {
	out := make([]elgamal.PublicKey, len(mods))
	for i, mo := range mods {
		out[i] = mo.pub.PK2
	}
	return out
}

func TestEndToEndDesignatedModeratorAccepts(t *testing.T) {
	platform := modpriv.SetupPlatform()
	mods := setupModerators(t, platform, 16)
	kR := channelKey(t)

	message := make([]byte, 128)
	for i := range message {
		message[i] = byte(i * 7)
	}
	ctx := []byte{}

	const target = 5
	c1, c2, epk, err := modpriv.Send(kR, message, target, mods[target].pub)
	if err != nil {
		t.Fatal(err)
	}
	sigmaCT, st, err := modpriv.Process(platform, c1, c2, epk, ctx)
	if err != nil {
		t.Fatal(err)
	}
	m, report, err := modpriv.Read(kR, pk2s(mods), c1, c2, sigmaCT, st)
	if err != nil {
		t.Fatal(err)
	}
	report = modpriv.ReportGen(m, report)

	gotCtx, err := modpriv.Moderate(mods[target].priv.SK2, mods[target].macKey, target, m, report)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(gotCtx, ctx) {
		t.Errorf("Moderate() ctx = %x, want %x", gotCtx, ctx)
	}

	for i, mo := range mods {
		if i == target {
			continue
		}
		if _, err := modpriv.Moderate(mo.priv.SK2, mo.macKey, frank.ModeratorID(i), m, report); !errors.Is(err, frank.ErrReject) {
			t.Errorf("Moderate() at moderator %d err = %v, want frank.ErrReject", i, err)
		}
	}
}

func TestReadRejectsMismatchedModerator(t *testing.T) {
	platform := modpriv.SetupPlatform()
	mods := setupModerators(t, platform, 3)
	kR := channelKey(t)

	message := []byte("hello")
	c1, c2, epk, err := modpriv.Send(kR, message, 0, mods[0].pub)
	if err != nil {
		t.Fatal(err)
	}

	// Process as though the platform thinks this is for moderator 0, but Read is handed PK2s in an order
	// that makes epk line up with a different moderator's PK2, simulating a substituted mod_id.
	sigmaCT, st, err := modpriv.Process(platform, c1, c2, epk, []byte("ctx"))
	if err != nil {
		t.Fatal(err)
	}

	swapped := pk2s(mods)
	swapped[0], swapped[1] = swapped[1], swapped[0]

	if _, _, err := modpriv.Read(kR, swapped, c1, c2, sigmaCT, st); !errors.Is(err, frank.ErrReject) {
		t.Errorf("Read() err = %v, want frank.ErrReject", err)
	}
}
