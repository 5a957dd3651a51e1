// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/govhub/registry"
)

// SyncDue runs SyncProposalState on every OPEN or ACTIVE proposal, on behalf
// of the registry itself, and returns how many changed state. A proposal
// moved by someone else in the meantime is only counted if the sync itself
// moves it.
func (h *Host) SyncDue(ctx context.Context) (int, error) {
	h.mu.RLock()
	var due []common.Address
	for _, s := range []registry.ProposalState{registry.StateOpen, registry.StateActive} {
		due = append(due, h.reg.Proposals(s, 0, h.reg.ProposalCountByState(s), false)...)
	}
	sender := h.reg.Address()
	h.mu.RUnlock()

	moved := 0
	for _, p := range due {
		if err := ctx.Err(); err != nil {
			return moved, err
		}
		before, after, err := h.syncProposal(ctx, sender, p)
		if err != nil {
			return moved, err
		}
		if after != before {
			moved++
		}
	}
	return moved, nil
}

// RunSync calls SyncDue every interval until ctx is done.
func (h *Host) RunSync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			moved, err := h.SyncDue(ctx)
			if err != nil && ctx.Err() == nil {
				slog.Warn("proposal sync failed", "error", err)
			}
			if moved > 0 {
				slog.Info("proposals advanced by voting window", "count", moved)
			}
		}
	}
}
