// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

func validateWindow(start, end uint64) error {
	if end != 0 && end < start {
		return fmt.Errorf("%w: vote end %d before vote start %d", ErrInvalidInput, end, start)
	}
	return nil
}

func validateProposalText(title, body string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: title longer than %d bytes", ErrInvalidInput, MaxTitleLength)
	}
	if len(body) > MaxBodyLength {
		return fmt.Errorf("%w: body longer than %d bytes", ErrInvalidInput, MaxBodyLength)
	}
	return nil
}

// CreateProposal instantiates a proposal authored by the sender and files it
// under DRAFT.
func (r *Registry) CreateProposal(ctx context.Context, tx Tx, title, body string, voteStart, voteEnd uint64) (common.Address, error) {
	if err := r.checkGate(ctx, r.gates.Proposals, tx.Sender, "create proposal"); err != nil {
		return common.Address{}, err
	}
	if err := validateProposalText(title, body); err != nil {
		return common.Address{}, err
	}
	if err := validateWindow(voteStart, voteEnd); err != nil {
		return common.Address{}, err
	}

	p := NewProposalRecord(r.nextAddress(), r.templates.Proposal)
	if err := p.Initialize(r.address, title, tx.Sender, body, tx.Time, voteStart, voteEnd); err != nil {
		return common.Address{}, err
	}
	r.proposals[p.address] = p
	r.file(p.address, StateDraft)
	r.touchProposal(p.address)
	return p.address, nil
}

// file appends addr to the index of state and records it as the current state.
func (r *Registry) file(addr common.Address, state ProposalState) {
	seq := r.nextSeq()
	r.indices[state].push(addr, seq)
	r.stateOf[addr] = state
	r.seqOf[addr] = seq
}

// move takes addr out of its current index and files it under state.
func (r *Registry) move(addr common.Address, state ProposalState) {
	if old, ok := r.stateOf[addr]; ok {
		r.indices[old].remove(addr)
	}
	r.file(addr, state)
	r.touchProposal(addr)
}

func (r *Registry) lookupProposal(addr common.Address) (*ProposalRecord, ProposalState, error) {
	p, ok := r.proposals[addr]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownProposal, addr.Hex())
	}
	return p, r.stateOf[addr], nil
}

// AdminMoveState moves a proposal to any state. Moving a proposal to the state
// it is already in re-files it at the tail of that index.
func (r *Registry) AdminMoveState(tx Tx, proposal common.Address, state ProposalState) error {
	if err := r.requireAdmin(tx, "move proposal state"); err != nil {
		return err
	}
	if _, _, err := r.lookupProposal(proposal); err != nil {
		return err
	}
	if !state.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidState, state)
	}
	r.move(proposal, state)
	return nil
}

// Activate moves a proposal to ACTIVE. The author or any admin may call it.
func (r *Registry) Activate(tx Tx, proposal common.Address) error {
	p, _, err := r.lookupProposal(proposal)
	if err != nil {
		return err
	}
	if isZero(tx.Sender) || (tx.Sender != p.author && !r.roles.IsAdmin(tx.Sender)) {
		return fmt.Errorf("%w: activate requires the author or an admin, got %s", ErrUnauthorized, tx.Sender.Hex())
	}
	r.move(proposal, StateActive)
	return nil
}

// SetVotingWindow replaces a proposal's voting window. Admin only.
func (r *Registry) SetVotingWindow(tx Tx, proposal common.Address, start, end uint64) error {
	if err := r.requireAdmin(tx, "set voting window"); err != nil {
		return err
	}
	p, _, err := r.lookupProposal(proposal)
	if err != nil {
		return err
	}
	if err := validateWindow(start, end); err != nil {
		return err
	}
	if err := p.SetVotingWindow(r.address, start, end); err != nil {
		return err
	}
	r.touchProposal(proposal)
	return nil
}

// SyncProposalState advances a proposal by its voting window: OPEN becomes
// ACTIVE once voting starts, OPEN or ACTIVE becomes CLOSED once voting ends.
// Anyone may call it; it returns the resulting state.
func (r *Registry) SyncProposalState(tx Tx, proposal common.Address) (ProposalState, error) {
	p, state, err := r.lookupProposal(proposal)
	if err != nil {
		return 0, err
	}
	if !p.HasWindow() {
		return state, nil
	}

	next := state
	switch {
	case (state == StateOpen || state == StateActive) && p.voteEnd != 0 && p.voteEnd <= tx.Time:
		next = StateClosed
	case state == StateOpen && p.voteStart <= tx.Time:
		next = StateActive
	}
	if next != state {
		r.move(proposal, next)
	}
	return next, nil
}

// ProposalCountByState returns the number of proposals currently in state.
func (r *Registry) ProposalCountByState(state ProposalState) int {
	if !state.Valid() {
		return 0
	}
	return r.indices[state].len()
}

// Proposals pages through the index of state.
func (r *Registry) Proposals(state ProposalState, offset, limit int, reverse bool) []common.Address {
	if !state.Valid() {
		return nil
	}
	return r.indices[state].page(offset, limit, reverse)
}

// TotalProposals is the number of proposals ever created.
func (r *Registry) TotalProposals() int {
	return len(r.proposals)
}

// StateOf returns the current state of a proposal.
func (r *Registry) StateOf(proposal common.Address) (ProposalState, error) {
	_, state, err := r.lookupProposal(proposal)
	return state, err
}
