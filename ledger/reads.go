// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/govhub/registry"
)

func (h *Host) Hub() registry.HubView {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.reg.Hub()
}

func (h *Host) IsAdmin(addr common.Address) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.reg.IsAdmin(addr)
}

func (h *Host) HasToken(ctx context.Context, addr common.Address) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.reg.HasToken(ctx, addr)
}

// Counts returns the number of proposals in every state.
func (h *Host) Counts() map[registry.ProposalState]int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	counts := make(map[registry.ProposalState]int, registry.NumStates)
	for _, s := range registry.States() {
		counts[s] = h.reg.ProposalCountByState(s)
	}
	return counts
}

func (h *Host) TotalProposals() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.reg.TotalProposals()
}

func (h *Host) Proposals(state registry.ProposalState, offset, limit int, reverse bool) []common.Address {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.reg.Proposals(state, offset, limit, reverse)
}

// ProposalPage is Proposals with the details of each entry, read under one lock.
func (h *Host) ProposalPage(state registry.ProposalState, offset, limit int, reverse bool) []registry.ProposalView {
	h.mu.RLock()
	defer h.mu.RUnlock()
	addrs := h.reg.Proposals(state, offset, limit, reverse)
	views := make([]registry.ProposalView, 0, len(addrs))
	for _, a := range addrs {
		if v, err := h.reg.Proposal(a); err == nil {
			views = append(views, v)
		}
	}
	return views
}

func (h *Host) Proposal(addr common.Address) (registry.ProposalView, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.reg.Proposal(addr)
}

func (h *Host) Comment(addr common.Address) (registry.CommentView, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.reg.Comment(addr)
}

// CommentPage pages through a proposal's comments with their details.
func (h *Host) CommentPage(proposal common.Address, offset, limit int, reverse bool) ([]registry.CommentView, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	addrs, err := h.reg.Comments(proposal, offset, limit, reverse)
	if err != nil {
		return nil, err
	}
	views := make([]registry.CommentView, 0, len(addrs))
	for _, a := range addrs {
		if v, err := h.reg.Comment(a); err == nil {
			views = append(views, v)
		}
	}
	return views, nil
}
