// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name     string
		ballotID string
		salt     string
	}{
		{"standard", "march-2025", "secret-salt"},
		{"empty ballot id", "", "salt"},
		{"empty salt", "april-2025", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.ballotID, tt.salt)

			// Should not be empty
			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			// Should be deterministic
			key2 := GenerateAdminKey(tt.ballotID, tt.salt)
			if key != key2 {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			// Different inputs should produce different keys
			if tt.ballotID != "" && tt.salt != "" {
				differentKey := GenerateAdminKey(tt.ballotID+"x", tt.salt)
				if key == differentKey {
					t.Error("GenerateAdminKey() produced same key for different ballot IDs")
				}
			}

			// URL-safe base64 without padding
			if strings.ContainsAny(key, "+/=") {
				t.Errorf("GenerateAdminKey() = %q is not URL-safe", key)
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	salt := "test-salt"
	ballotID := "march-2025"
	validKey := GenerateAdminKey(ballotID, salt)

	tests := []struct {
		name     string
		ballotID string
		key      string
		salt     string
		wantErr  bool
	}{
		{"valid key", ballotID, validKey, salt, false},
		{"wrong key", ballotID, "invalid-key", salt, true},
		{"wrong ballot", "april-2025", validKey, salt, true},
		{"wrong salt", ballotID, validKey, "other-salt", true},
		{"empty key", ballotID, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.ballotID, tt.key, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAdminKey) {
				t.Errorf("ValidateAdminKey() error = %v, want ErrInvalidAdminKey", err)
			}
		})
	}
}

func TestOperatorKey(t *testing.T) {
	salt := "test-salt"
	key := OperatorKey(salt)

	if err := ValidateOperatorKey(key, salt); err != nil {
		t.Errorf("ValidateOperatorKey() error = %v", err)
	}
	if err := ValidateOperatorKey(GenerateAdminKey("march-2025", salt), salt); err == nil {
		t.Error("a ballot key was accepted as operator key")
	}
	if err := ValidateAdminKey("march-2025", key, salt); err == nil {
		t.Error("the operator key was accepted as a ballot key")
	}
}
