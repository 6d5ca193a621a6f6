// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	id1 := GenerateID()
	id2 := GenerateID()

	if _, err := uuid.Parse(id1); err != nil {
		t.Errorf("GenerateID() = %q, not a UUID: %v", id1, err)
	}
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name     string
		username string
		salt     string
	}{
		{"standard", "admin", "secret-salt"},
		{"empty username", "", "salt"},
		{"empty salt", "registrar", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key1 := GenerateAdminKey(tt.username, tt.salt)
			key2 := GenerateAdminKey(tt.username, tt.salt)

			// Deterministic
			if key1 != key2 {
				t.Errorf("GenerateAdminKey() not deterministic: %q != %q", key1, key2)
			}

			// No padding, URL safe
			if strings.ContainsAny(key1, "=+/") {
				t.Errorf("GenerateAdminKey() = %q, want URL-safe unpadded base64", key1)
			}
		})
	}

	if GenerateAdminKey("admin", "s1") == GenerateAdminKey("admin", "s2") {
		t.Error("different salts should produce different keys")
	}
	if GenerateAdminKey("Admin", "s1") != GenerateAdminKey("admin", "s1") {
		t.Error("usernames should be case-insensitive")
	}
}

func TestValidateAdminKey(t *testing.T) {
	salt := "test-salt"
	valid := GenerateAdminKey("admin", salt)

	tests := []struct {
		name     string
		username string
		key      string
		wantErr  bool
	}{
		{"valid key", "admin", valid, false},
		{"wrong user", "other", valid, true},
		{"tampered key", "admin", valid + "x", true},
		{"empty key", "admin", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.username, tt.key, salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAdminKey) {
				t.Errorf("expected ErrInvalidAdminKey, got %v", err)
			}
		})
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "admin123" {
		t.Fatal("HashPassword() returned the plain password")
	}

	if err := CheckPassword(hash, "admin123"); err != nil {
		t.Errorf("CheckPassword() with correct password: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() with wrong password = %v, want ErrInvalidCredentials", err)
	}
}
