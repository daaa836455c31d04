// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidAdminKey = errors.New("invalid admin key")

// operatorScope is the HMAC subject of the operator key. Ballot ids never
// contain a colon, so it cannot collide with a ballot's key.
const operatorScope = "operator:"

// GenerateAdminKey creates an HMAC-based admin key for a ballot
// This is deterministic and verifiable
func GenerateAdminKey(ballotID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ballotID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the ballot
func ValidateAdminKey(ballotID, adminKey, salt string) error {
	expected := GenerateAdminKey(ballotID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// OperatorKey is the key that may create ballots. It is handed to the bot
// frontend once, at deploy time.
func OperatorKey(salt string) string {
	return GenerateAdminKey(operatorScope, salt)
}

func ValidateOperatorKey(key, salt string) error {
	return ValidateAdminKey(operatorScope, key, salt)
}
