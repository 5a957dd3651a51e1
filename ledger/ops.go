// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/govhub/events"
	"github.com/danielhkuo/govhub/registry"
)

func (h *Host) SetMultisig(ctx context.Context, sender, multisig common.Address) error {
	return h.exec(ctx, "set_multisig", sender, func(tx registry.Tx) (events.Event, error) {
		return events.Event{Detail: multisig.Hex()}, h.reg.SetMultisig(tx, multisig)
	})
}

func (h *Host) ResetAllAdmins(ctx context.Context, sender, creator common.Address, elected [registry.NumElectedAdmins]common.Address) error {
	return h.exec(ctx, "reset_all_admins", sender, func(tx registry.Tx) (events.Event, error) {
		return events.Event{Detail: creator.Hex()}, h.reg.ResetAllAdmins(tx, creator, elected)
	})
}

func (h *Host) SetElectedAdmins(ctx context.Context, sender common.Address, elected [registry.NumElectedAdmins]common.Address) error {
	return h.exec(ctx, "set_elected_admins", sender, func(tx registry.Tx) (events.Event, error) {
		return events.Event{}, h.reg.SetElectedAdmins(tx, elected)
	})
}

func (h *Host) SetElectedAdmin(ctx context.Context, sender common.Address, index int, admin common.Address) error {
	return h.exec(ctx, "set_elected_admin", sender, func(tx registry.Tx) (events.Event, error) {
		return events.Event{Detail: fmt.Sprintf("%d=%s", index, admin.Hex())}, h.reg.SetElectedAdmin(tx, index, admin)
	})
}

func (h *Host) SetTemplates(ctx context.Context, sender, proposalTemplate, commentTemplate common.Address) error {
	return h.exec(ctx, "set_templates", sender, func(tx registry.Tx) (events.Event, error) {
		return events.Event{}, h.reg.SetTemplates(tx, proposalTemplate, commentTemplate)
	})
}

func (h *Host) SetTokenRequirement(ctx context.Context, sender, contract common.Address, id *big.Int) error {
	return h.exec(ctx, "set_token_requirement", sender, func(tx registry.Tx) (events.Event, error) {
		return events.Event{Detail: fmt.Sprintf("%s/%v", contract.Hex(), id)}, h.reg.SetTokenRequirement(tx, contract, id)
	})
}

func (h *Host) SetGating(ctx context.Context, sender common.Address, gates registry.Gates) error {
	return h.exec(ctx, "set_gating", sender, func(tx registry.Tx) (events.Event, error) {
		detail := fmt.Sprintf("proposals=%t comments=%t votes=%t", gates.Proposals, gates.Comments, gates.Votes)
		return events.Event{Detail: detail}, h.reg.SetGating(tx, gates)
	})
}

func (h *Host) CreateProposal(ctx context.Context, sender common.Address, title, body string, voteStart, voteEnd uint64) (common.Address, error) {
	var proposal common.Address
	err := h.exec(ctx, "create_proposal", sender, func(tx registry.Tx) (events.Event, error) {
		var err error
		proposal, err = h.reg.CreateProposal(ctx, tx, title, body, voteStart, voteEnd)
		return events.Event{Proposal: proposal.Hex()}, err
	})
	if err != nil {
		return common.Address{}, err
	}
	return proposal, nil
}

func (h *Host) AdminMoveState(ctx context.Context, sender, proposal common.Address, state registry.ProposalState) error {
	return h.exec(ctx, "admin_move_state", sender, func(tx registry.Tx) (events.Event, error) {
		return events.Event{Proposal: proposal.Hex(), Detail: state.String()}, h.reg.AdminMoveState(tx, proposal, state)
	})
}

func (h *Host) Activate(ctx context.Context, sender, proposal common.Address) error {
	return h.exec(ctx, "activate", sender, func(tx registry.Tx) (events.Event, error) {
		return events.Event{Proposal: proposal.Hex()}, h.reg.Activate(tx, proposal)
	})
}

func (h *Host) SetVotingWindow(ctx context.Context, sender, proposal common.Address, start, end uint64) error {
	return h.exec(ctx, "set_voting_window", sender, func(tx registry.Tx) (events.Event, error) {
		return events.Event{Proposal: proposal.Hex(), Detail: fmt.Sprintf("%d-%d", start, end)}, h.reg.SetVotingWindow(tx, proposal, start, end)
	})
}

func (h *Host) SyncProposalState(ctx context.Context, sender, proposal common.Address) (registry.ProposalState, error) {
	_, after, err := h.syncProposal(ctx, sender, proposal)
	return after, err
}

// syncProposal reports the state found and the state left behind, both read
// inside the same operation.
func (h *Host) syncProposal(ctx context.Context, sender, proposal common.Address) (before, after registry.ProposalState, err error) {
	err = h.exec(ctx, "sync_proposal_state", sender, func(tx registry.Tx) (events.Event, error) {
		var err error
		if before, err = h.reg.StateOf(proposal); err != nil {
			return events.Event{}, err
		}
		after, err = h.reg.SyncProposalState(tx, proposal)
		return events.Event{Proposal: proposal.Hex(), Detail: after.String()}, err
	})
	return before, after, err
}

func (h *Host) AddComment(ctx context.Context, sender, proposal common.Address, content string, sentiment registry.Sentiment) (common.Address, error) {
	var comment common.Address
	err := h.exec(ctx, "add_comment", sender, func(tx registry.Tx) (events.Event, error) {
		var err error
		comment, err = h.reg.AddComment(ctx, tx, proposal, content, sentiment)
		return events.Event{Proposal: proposal.Hex(), Comment: comment.Hex(), Detail: sentiment.String()}, err
	})
	if err != nil {
		return common.Address{}, err
	}
	return comment, nil
}

func (h *Host) AdminDeleteComment(ctx context.Context, sender, proposal, comment common.Address) error {
	return h.exec(ctx, "admin_delete_comment", sender, func(tx registry.Tx) (events.Event, error) {
		return events.Event{Proposal: proposal.Hex(), Comment: comment.Hex()}, h.reg.AdminDeleteComment(tx, proposal, comment)
	})
}

func (h *Host) CastVote(ctx context.Context, sender, proposal common.Address, support bool) (*big.Int, error) {
	var weight *big.Int
	err := h.exec(ctx, "cast_vote", sender, func(tx registry.Tx) (events.Event, error) {
		var err error
		weight, err = h.reg.CastVote(ctx, tx, proposal, support)
		return events.Event{Proposal: proposal.Hex(), Detail: fmt.Sprintf("support=%t weight=%v", support, weight)}, err
	})
	if err != nil {
		return nil, err
	}
	return weight, nil
}
