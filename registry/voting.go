// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CastVote records the sender's vote on an ACTIVE proposal and returns the
// weight it was counted with.
func (r *Registry) CastVote(ctx context.Context, tx Tx, proposal common.Address, support bool) (*big.Int, error) {
	p, state, err := r.lookupProposal(proposal)
	if err != nil {
		return nil, err
	}
	if state != StateActive {
		return nil, fmt.Errorf("%w: cannot vote on a %s proposal", ErrInvalidState, state)
	}
	if r.policy.EnforceWindow && !p.WindowOpen(tx.Time) {
		return nil, fmt.Errorf("%w: outside voting window [%d, %d]", ErrInvalidState, p.voteStart, p.voteEnd)
	}
	if err := r.checkGate(ctx, r.gates.Votes, tx.Sender, "vote"); err != nil {
		return nil, err
	}
	if p.HasVoted(tx.Sender) {
		return nil, fmt.Errorf("%w: %s on %s", ErrAlreadyVoted, tx.Sender.Hex(), proposal.Hex())
	}

	weight, err := r.voteWeight(ctx, tx.Sender)
	if err != nil {
		return nil, err
	}
	if err := p.HubCastVote(r.address, tx.Sender, support, weight, tx.Time); err != nil {
		return nil, err
	}
	r.touchProposal(proposal)
	return weight, nil
}

func (r *Registry) voteWeight(ctx context.Context, voter common.Address) (*big.Int, error) {
	if r.policy.Weight == WeightBalance {
		return r.balanceOf(ctx, voter)
	}
	return big.NewInt(1), nil
}
