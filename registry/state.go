// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// ProposalState is the lifecycle position of a proposal. The numeric values
// match the order DRAFT, OPEN, ACTIVE, CLOSED.
type ProposalState uint8

const (
	StateDraft ProposalState = iota
	StateOpen
	StateActive
	StateClosed
)

// NumStates is the number of per-state indices kept by a registry.
const NumStates = 4

var stateNames = [NumStates]string{"draft", "open", "active", "closed"}

// States lists every state in lifecycle order.
func States() []ProposalState {
	return []ProposalState{StateDraft, StateOpen, StateActive, StateClosed}
}

func (s ProposalState) Valid() bool {
	return s < NumStates
}

func (s ProposalState) String() string {
	if !s.Valid() {
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
	return stateNames[s]
}

// ParseState accepts a state name in any case or its numeric value.
func ParseState(v string) (ProposalState, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for i, name := range stateNames {
		if v == name {
			return ProposalState(i), nil
		}
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < NumStates {
		return ProposalState(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidState, v)
}

func (s ProposalState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidState, s)
	}
	return []byte(s.String()), nil
}

func (s *ProposalState) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
