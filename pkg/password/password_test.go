package password_test

import (
	"testing"

	"github.com/funtiknax13/task-manager/pkg/password"
)

func TestHashAndVerify(t *testing.T) {
	hasher := password.NewBcrypt(4)

	tests := []struct {
		name string
		raw  string
	}{
		{"simple", "password123"},
		{"symbols", "P@ssw0rd!#$%"},
		{"unicode", "пароль123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := hasher.Hash(tt.raw)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if digest == "" || digest == tt.raw {
				t.Fatal("Hash() did not produce a digest")
			}
			if !hasher.Verify(tt.raw, digest) {
				t.Error("Verify() rejected the correct password")
			}
			if hasher.Verify(tt.raw+"x", digest) {
				t.Error("Verify() accepted a wrong password")
			}
		})
	}
}

func TestHash_Salted(t *testing.T) {
	hasher := password.NewBcrypt(4)

	first, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if first == second {
		t.Error("identical digests for the same password; salt missing")
	}
}

func TestNewBcrypt_InvalidCostFallsBack(t *testing.T) {
	hasher := password.NewBcrypt(-1)
	digest, err := hasher.Hash("x")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !hasher.Verify("x", digest) {
		t.Error("Verify() failed after cost fallback")
	}
}
