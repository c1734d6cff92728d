package aead_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aeris-crypto/frank"
	"github.com/aeris-crypto/frank/hazmat/aead"
)

func TestSealOpen(t *testing.T) {
	var key [aead.KeySize]byte
	copy(key[:], "this is a 32-byte AES-256 key!!")

	plaintext := []byte("the message and the franking key")
	ad := []byte("associated data")

	sealed, err := aead.Seal(nil, key, plaintext, ad)
	if err != nil {
		t.Fatal(err)
	}
	if len(sealed) != len(plaintext)+aead.Overhead {
		t.Fatalf("len(sealed) = %d, want %d", len(sealed), len(plaintext)+aead.Overhead)
	}

	t.Run("valid", func(t *testing.T) {
		got, err := aead.Open(nil, key, sealed, ad)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Errorf("Open() = %q, want %q", got, plaintext)
		}
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		bad := bytes.Clone(sealed)
		bad[len(bad)-1] ^= 1
		if _, err := aead.Open(nil, key, bad, ad); !errors.Is(err, frank.ErrReject) {
			t.Errorf("Open() err = %v, want frank.ErrReject", err)
		}
	})

	t.Run("wrong associated data", func(t *testing.T) {
		if _, err := aead.Open(nil, key, sealed, []byte("wrong")); !errors.Is(err, frank.ErrReject) {
			t.Errorf("Open() err = %v, want frank.ErrReject", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		if _, err := aead.Open(nil, key, sealed[:4], ad); !errors.Is(err, frank.ErrMalformed) {
			t.Errorf("Open() err = %v, want frank.ErrMalformed", err)
		}
	})
}
