package pre_test

import (
	"bytes"
	"testing"

	"github.com/gtank/ristretto255"

	"github.com/aeris-crypto/frank/hazmat/pre"
)

func genKey(t *testing.T) (*ristretto255.Scalar, *ristretto255.Element) {
	t.Helper()
	buf := bytes.Repeat([]byte{0x17}, 64)
	sk, err := ristretto255.NewScalar().SetUniformBytes(buf)
	if err != nil {
		t.Fatal(err)
	}
	return sk, ristretto255.NewIdentityElement().ScalarBaseMult(sk)
}

func TestEncryptDecrypt(t *testing.T) {
	sk, pk := genKey(t)
	m := ristretto255.NewGeneratorElement()

	ct, err := pre.Encrypt(pk, m)
	if err != nil {
		t.Fatal(err)
	}
	got := pre.Decrypt(sk, ct)
	if got.Equal(m) != 1 {
		t.Error("Decrypt did not recover the original element")
	}
}

func TestReKeyReEnc(t *testing.T) {
	sk1, pk1 := genKey(t)
	buf2 := bytes.Repeat([]byte{0x99}, 64)
	sk2, err := ristretto255.NewScalar().SetUniformBytes(buf2)
	if err != nil {
		t.Fatal(err)
	}

	m := ristretto255.NewGeneratorElement()
	ct, err := pre.Encrypt(pk1, m)
	if err != nil {
		t.Fatal(err)
	}

	rk := pre.ReKeyFromTo(sk1, sk2)
	reCT := pre.ReEnc(ct, rk)

	got := pre.Decrypt(sk2, reCT)
	if got.Equal(m) != 1 {
		t.Error("ReEnc'd ciphertext did not decrypt to the original element under the new key")
	}
}

func TestSealOpenWithReEnc(t *testing.T) {
	sk1, pk1 := genKey(t)
	buf2 := bytes.Repeat([]byte{0x24}, 64)
	sk2, err := ristretto255.NewScalar().SetUniformBytes(buf2)
	if err != nil {
		t.Fatal(err)
	}

	plaintext := []byte("moderator report payload")
	ad := []byte("ctx")

	ct, err := pre.Seal(pk1, plaintext, ad)
	if err != nil {
		t.Fatal(err)
	}

	rk := pre.ReKeyFromTo(sk1, sk2)
	reCT := ct.ReEnc(rk)

	got, err := pre.Open(sk2, reCT, ad)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("Open() = %q, want %q", got, plaintext)
	}
}

func TestHybridCiphertextRoundTrip(t *testing.T) {
	_, pk := genKey(t)
	ct, err := pre.Seal(pk, []byte("payload"), []byte("ad"))
	if err != nil {
		t.Fatal(err)
	}

	got, err := pre.HybridCiphertextFromBytes(ct.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Symmetric, ct.Symmetric) {
		t.Error("symmetric payload did not round-trip")
	}
	if got.Point.C1.Equal(ct.Point.C1) != 1 || got.Point.C2.Equal(ct.Point.C2) != 1 {
		t.Error("point ciphertext did not round-trip")
	}
}
