// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	secret = []byte("test-secret")
	caller = common.HexToAddress("0x00000000000000000000000000000000000000a1")
)

func TestIssueAndParse(t *testing.T) {
	token, err := IssueCallerToken(caller, secret, time.Hour)
	require.NoError(t, err)

	got, err := ParseCallerToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, caller, got)
}

func TestIssueRequiresSecret(t *testing.T) {
	_, err := IssueCallerToken(caller, nil, time.Hour)
	assert.Error(t, err)
}

func TestParseRejects(t *testing.T) {
	valid, err := IssueCallerToken(caller, secret, time.Hour)
	require.NoError(t, err)
	expired, err := IssueCallerToken(caller, secret, -time.Minute)
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{"wrong secret", valid, []byte("other")},
		{"expired", expired, secret},
		{"garbage", "not.a.token", secret},
		{"no expiry", sign(jwt.SigningMethodHS256, secret, CallerClaims{Addr: caller.Hex(), RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer}}), secret},
		{"wrong issuer", sign(jwt.SigningMethodHS256, secret, CallerClaims{Addr: caller.Hex(), RegisteredClaims: jwt.RegisteredClaims{Issuer: "x", ExpiresAt: future}}), secret},
		{"other algorithm", sign(jwt.SigningMethodHS512, secret, CallerClaims{Addr: caller.Hex(), RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, ExpiresAt: future}}), secret},
		{"bad addr", sign(jwt.SigningMethodHS256, secret, CallerClaims{Addr: "bob", RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, ExpiresAt: future}}), secret},
		{"zero addr", sign(jwt.SigningMethodHS256, secret, CallerClaims{Addr: common.Address{}.Hex(), RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, ExpiresAt: future}}), secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCallerToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def", "abc.def", false},
		{"bearer abc", "abc", false},
		{"Bearer ", "", true},
		{"Basic abc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrMissingToken, tt.header)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
