// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth identifies the address a request acts for.

# Caller Tokens

Callers authenticate with HS256 JWTs carrying an addr claim:

	token, err := auth.IssueCallerToken(addr, secret, time.Hour)
	addr, err := auth.ParseCallerToken(token, secret)

Tokens must be signed with HS256, carry the govhub issuer and an expiry.
Proving ownership of the address happens before a token is issued and is
outside this package.

# Headers

BearerToken extracts the token from an Authorization header:

	token, err := auth.BearerToken(r.Header.Get("Authorization"))
*/
package auth
