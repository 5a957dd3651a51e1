// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import "errors"

// Every rejection returned by the registry wraps exactly one of these.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("token required")
	ErrUnknownProposal    = errors.New("unknown proposal")
	ErrUnknownComment     = errors.New("unknown comment")
	ErrInvalidState       = errors.New("invalid proposal state")
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrInvalidOwner       = errors.New("invalid owner")
	ErrInvalidProposal    = errors.New("invalid proposal")
	ErrAlreadyVoted       = errors.New("already voted")
	ErrZeroWeight         = errors.New("vote weight must be positive")
	ErrInvalidAddress     = errors.New("zero address")
	ErrInvalidInput       = errors.New("invalid input")
	ErrOracleUnavailable  = errors.New("token oracle unavailable")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrUnauthorized, "unauthorized"},
	{ErrForbidden, "forbidden"},
	{ErrUnknownProposal, "unknown_proposal"},
	{ErrUnknownComment, "unknown_comment"},
	{ErrInvalidState, "invalid_state"},
	{ErrAlreadyInitialized, "already_initialized"},
	{ErrInvalidOwner, "invalid_owner"},
	{ErrInvalidProposal, "invalid_proposal"},
	{ErrAlreadyVoted, "already_voted"},
	{ErrZeroWeight, "zero_weight"},
	{ErrInvalidAddress, "invalid_address"},
	{ErrInvalidInput, "invalid_input"},
	{ErrOracleUnavailable, "oracle_unavailable"},
}

// ErrorCode returns a stable identifier for the registry error wrapped by err,
// "ok" for nil and "internal" for anything else.
func ErrorCode(err error) string {
	if err == nil {
		return "ok"
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal"
}
