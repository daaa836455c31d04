// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key generation and validation.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(ballotID, salt)
	err := auth.ValidateAdminKey(ballotID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same ballot ID and salt always produce the same key. This allows
validation without storing the key in the database. A ballot's key unlocks
its voting sequences.

# Operator Key

The operator key allows creating ballots:

	key := auth.OperatorKey(salt)
	err := auth.ValidateOperatorKey(key, salt)

It is derived the same way from a fixed scope that no ballot id can take.
*/
package auth
