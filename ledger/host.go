// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/govhub/db"
	"github.com/danielhkuo/govhub/events"
	"github.com/danielhkuo/govhub/registry"
)

var (
	ErrNoGenesis    = errors.New("no stored registry and no genesis configuration")
	ErrCommitFailed = errors.New("failed to persist operation")
)

// publishTimeout bounds event delivery after a commit.
const publishTimeout = 5 * time.Second

// Store persists registry snapshots.
type Store interface {
	Load(ctx context.Context) (registry.Snapshot, error)
	Commit(ctx context.Context, snap registry.Snapshot) error
}

// Options tune a Host. Zero values pick the defaults.
type Options struct {
	Policy    registry.Policy
	Publisher events.Publisher
	Clock     func() time.Time
}

// Host serializes access to a registry and persists every committed change.
type Host struct {
	mu        sync.RWMutex
	reg       *registry.Registry
	committed *committed
	failed    error
	store     Store
	oracle    registry.TokenOracle
	policy    registry.Policy
	pub       events.Publisher
	clock     func() time.Time
}

// Open restores the registry from store, or deploys one from genesis when
// the store is empty. genesis may be nil once a registry has been stored.
func Open(ctx context.Context, store Store, genesis *registry.Config, oracle registry.TokenOracle, opts Options) (*Host, error) {
	h := &Host{
		store:  store,
		oracle: oracle,
		policy: opts.Policy,
		pub:    opts.Publisher,
		clock:  opts.Clock,
	}
	if h.policy.Weight == "" {
		h.policy = registry.DefaultPolicy()
	}
	if h.pub == nil {
		h.pub = events.Discard{}
	}
	if h.clock == nil {
		h.clock = time.Now
	}

	err := h.reload(ctx)
	switch {
	case err == nil:
		if genesis != nil {
			slog.Info("registry restored from store, genesis ignored", "registry", h.reg.Address().Hex())
		}
	case errors.Is(err, db.ErrNoHub):
		if genesis == nil {
			return nil, ErrNoGenesis
		}
		if err := h.deploy(ctx, *genesis); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	h.updateGauges()
	return h, nil
}

func (h *Host) deploy(ctx context.Context, cfg registry.Config) error {
	reg, err := registry.New(cfg, h.oracle, h.policy)
	if err != nil {
		return fmt.Errorf("failed to deploy registry: %w", err)
	}
	if err := h.store.Commit(ctx, reg.TakeChanges()); err != nil {
		return fmt.Errorf("failed to store new registry: %w", err)
	}
	h.reg = reg
	h.committed = newCommitted(reg.Snapshot())
	slog.Info("registry deployed", "registry", cfg.Address.Hex(), "creator", cfg.Roles.Creator.Hex(), "multisig", cfg.Roles.Multisig.Hex())
	return nil
}

func (h *Host) reload(ctx context.Context) error {
	snap, err := h.store.Load(ctx)
	if err != nil {
		return err
	}
	reg, err := registry.Restore(snap, h.oracle, h.policy)
	if err != nil {
		return fmt.Errorf("failed to restore registry: %w", err)
	}
	h.reg = reg
	h.committed = newCommitted(snap)
	return nil
}

// rollback drops uncommitted changes from memory. The store is the first
// choice; when it cannot be read the registry is rebuilt from the last
// committed state. If both fail the host refuses further writes.
func (h *Host) rollback(ctx context.Context) {
	err := h.reload(ctx)
	if err == nil {
		h.failed = nil
		return
	}
	slog.Error("reload after failed commit failed, restoring last committed state", "error", err)
	reg, rerr := registry.Restore(h.committed.snapshot(), h.oracle, h.policy)
	if rerr != nil {
		slog.Error("restore of last committed state failed, rejecting writes", "error", rerr)
		h.failed = rerr
		return
	}
	h.reg = reg
	h.failed = nil
}

// exec runs one mutating call. fn must perform every check before its first
// mutation; on success the changes are committed, then published.
func (h *Host) exec(ctx context.Context, op string, sender common.Address, fn func(tx registry.Tx) (events.Event, error)) error {
	start := time.Now()
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.failed != nil {
		if err := h.reload(context.WithoutCancel(ctx)); err != nil {
			observe(op, "commit_failed", start)
			return fmt.Errorf("%w: host state unrecoverable: %v", ErrCommitFailed, h.failed)
		}
		h.failed = nil
		h.updateGauges()
	}

	tx := registry.Tx{Sender: sender, Time: uint64(h.clock().Unix())}
	ev, err := fn(tx)
	if err != nil {
		h.reg.DiscardChanges()
		observe(op, registry.ErrorCode(err), start)
		slog.Debug("operation rejected", "op", op, "sender", sender.Hex(), "error", err)
		return err
	}

	changes := h.reg.TakeChanges()
	if changes.Empty() {
		observe(op, "ok", start)
		return nil
	}

	// memory already holds the new state; commit even if the caller went away
	if err := h.store.Commit(context.WithoutCancel(ctx), changes); err != nil {
		slog.Error("commit failed, rolling back", "op", op, "error", err)
		h.rollback(context.WithoutCancel(ctx))
		h.updateGauges()
		observe(op, "commit_failed", start)
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	h.committed.apply(changes)
	h.updateGauges()
	observe(op, "ok", start)

	ev.Op = op
	ev.Sender = sender.Hex()
	ev.Time = tx.Time
	// the operation is durable now; deliver its event even if the caller left
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := h.pub.Publish(pubCtx, ev); err != nil {
		slog.Warn("failed to publish event", "op", op, "error", err)
	}
	slog.Info("operation committed", "op", op, "sender", sender.Hex(), "proposal", ev.Proposal, "comment", ev.Comment)
	return nil
}

func (h *Host) updateGauges() {
	for _, s := range registry.States() {
		proposalsByState.WithLabelValues(s.String()).Set(float64(h.reg.ProposalCountByState(s)))
	}
}

// Now is the host clock in unix seconds.
func (h *Host) Now() uint64 {
	return uint64(h.clock().Unix())
}

func (h *Host) Policy() registry.Policy {
	return h.policy
}
