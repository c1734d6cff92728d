package mac_test

import (
	"bytes"
	"testing"

	"github.com/aeris-crypto/frank/hazmat/mac"
)

func TestSignVerify(t *testing.T) {
	key, err := mac.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	message := []byte("c2 || ctx")

	tag := mac.Sign(key[:], message)
	if !mac.Verify(key[:], message, tag) {
		t.Error("Verify() = false, want true")
	}

	bad := tag
	bad[0] ^= 1
	if mac.Verify(key[:], message, bad) {
		t.Error("Verify() = true, want false for tampered tag")
	}
}

func TestSignVerify512(t *testing.T) {
	key, err := mac.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	message := []byte("c2 || ctx")

	tag := mac.Sign512(key[:], message)
	if len(tag) != mac.Tag512Size {
		t.Fatalf("len(tag) = %d, want %d", len(tag), mac.Tag512Size)
	}
	if !mac.Verify512(key[:], message, tag) {
		t.Error("Verify512() = false, want true")
	}

	other := mac.Sign512(key[:], []byte("different message"))
	if bytes.Equal(tag[:], other[:]) {
		t.Error("Sign512 produced identical tags for different messages")
	}
}
