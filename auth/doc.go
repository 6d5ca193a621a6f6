// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin authentication and ID generation.

# Admin Keys

Admin keys use HMAC-SHA256 over the admin username:

	adminKey := auth.GenerateAdminKey(username, salt)
	err := auth.ValidateAdminKey(username, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same username and salt always produce the same key, so nothing is stored
per session. Rotating ADMIN_KEY_SALT invalidates every issued key.

# Passwords

Account passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, attempt) // ErrInvalidCredentials on mismatch

# ID Generation

Every table uses random UUID primary keys:

	id := auth.GenerateID()
*/
package auth
