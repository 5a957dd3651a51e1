// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/govhub/registry"
)

// committed mirrors what the store holds, so a failed commit can be rolled
// back even when the store cannot be read.
type committed struct {
	hub       *registry.HubView
	proposals map[common.Address]registry.ProposalView
	comments  map[common.Address]registry.CommentView
}

func newCommitted(full registry.Snapshot) *committed {
	c := &committed{
		proposals: make(map[common.Address]registry.ProposalView, len(full.Proposals)),
		comments:  make(map[common.Address]registry.CommentView, len(full.Comments)),
	}
	c.apply(full)
	return c
}

// apply merges a change set that has reached the store.
func (c *committed) apply(changes registry.Snapshot) {
	if changes.Hub != nil {
		hub := *changes.Hub
		c.hub = &hub
	}
	for _, p := range changes.Proposals {
		c.proposals[p.Address] = p
	}
	for _, cv := range changes.Comments {
		c.comments[cv.Address] = cv
	}
}

func (c *committed) snapshot() registry.Snapshot {
	snap := registry.Snapshot{Hub: c.hub}
	for _, p := range c.proposals {
		snap.Proposals = append(snap.Proposals, p)
	}
	for _, cv := range c.comments {
		snap.Comments = append(snap.Comments, cv)
	}
	return snap
}
