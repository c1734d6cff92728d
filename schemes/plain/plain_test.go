package plain_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aeris-crypto/frank"
	"github.com/aeris-crypto/frank/schemes/plain"
)

func channelKey(t *testing.T) [plain.ChannelKeySize]byte {
	t.Helper()
	var k [plain.ChannelKeySize]byte
	copy(k[:], "this is a 32-byte channel key!!")
	return k
}

func TestEndToEndAccept(t *testing.T) {
	km, err := plain.SetupMod()
	if err != nil {
		t.Fatal(err)
	}
	kR := channelKey(t)
	message := []byte("hello")
	ctx := []byte("ctx1")

	c1, c2, err := plain.Send(kR, message)
	if err != nil {
		t.Fatal(err)
	}
	sigma := plain.ModProcess(km, c2, ctx)

	m, report, err := plain.Read(kR, c1, c2, ctx, sigma)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(m, message) {
		t.Fatalf("Read() m = %q, want %q", m, message)
	}

	report = plain.ReportGen(m, report)
	gotCtx, err := plain.Moderate(km, m, report)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(gotCtx, ctx) {
		t.Errorf("Moderate() ctx = %q, want %q", gotCtx, ctx)
	}
}

func TestModerateRejectsWrongMessage(t *testing.T) {
	km, err := plain.SetupMod()
	if err != nil {
		t.Fatal(err)
	}
	kR := channelKey(t)
	message := []byte("hello")
	ctx := []byte("ctx1")

	c1, c2, err := plain.Send(kR, message)
	if err != nil {
		t.Fatal(err)
	}
	sigma := plain.ModProcess(km, c2, ctx)
	_, report, err := plain.Read(kR, c1, c2, ctx, sigma)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := plain.Moderate(km, []byte("goodbye"), report); !errors.Is(err, frank.ErrReject) {
		t.Errorf("Moderate() err = %v, want frank.ErrReject", err)
	}
}

func TestModerateRejectsTamperedToken(t *testing.T) {
	km, err := plain.SetupMod()
	if err != nil {
		t.Fatal(err)
	}
	kR := channelKey(t)
	message := []byte("hello")
	ctx := []byte("ctx1")

	c1, c2, err := plain.Send(kR, message)
	if err != nil {
		t.Fatal(err)
	}
	sigma := plain.ModProcess(km, c2, ctx)
	sigma[0] ^= 1

	_, report, err := plain.Read(kR, c1, c2, ctx, sigma)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := plain.Moderate(km, message, report); !errors.Is(err, frank.ErrReject) {
		t.Errorf("Moderate() err = %v, want frank.ErrReject", err)
	}
}

func TestReadRejectsTamperedCommitment(t *testing.T) {
	kR := channelKey(t)
	c1, c2, err := plain.Send(kR, []byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	c2[0] ^= 1

	if _, _, err := plain.Read(kR, c1, c2, []byte("ctx"), [32]byte{}); !errors.Is(err, frank.ErrReject) {
		t.Errorf("Read() err = %v, want frank.ErrReject", err)
	}
}
