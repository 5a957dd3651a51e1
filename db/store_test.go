// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"encoding/json"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/govhub/registry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	conn, err := Connect(ctx, TypeSQLite, filepath.Join(t.TempDir(), "govhub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, CreateSchema(ctx, conn))
	require.NoError(t, CreateSchema(ctx, conn), "schema creation is repeatable")
	return NewStore(conn)
}

var (
	hubAddr  = common.HexToAddress("0x00000000000000000000000000000000000000aB")
	creator  = common.HexToAddress("0x1")
	multisig = common.HexToAddress("0x2")
	alice    = common.HexToAddress("0xA11CE")
	bob      = common.HexToAddress("0xB0B")
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New(registry.Config{
		Address: hubAddr,
		Roles: registry.Roles{
			Creator:  creator,
			Multisig: multisig,
			Elected:  [3]common.Address{common.HexToAddress("0x3"), common.HexToAddress("0x4"), common.HexToAddress("0x5")},
		},
		Templates: registry.Templates{Proposal: common.HexToAddress("0xf1"), Comment: common.HexToAddress("0xf2")},
	}, nil, registry.DefaultPolicy())
	require.NoError(t, err)
	return reg
}

func asJSON(t *testing.T, snap registry.Snapshot) string {
	t.Helper()
	b, err := json.Marshal(snap)
	require.NoError(t, err)
	return string(b)
}

func TestConnectRejectsUnknownType(t *testing.T) {
	_, err := Connect(context.Background(), "mysql", "whatever")
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestLoadEmpty(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoHub)
}

func TestCommitEmptySnapshot(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Commit(context.Background(), registry.Snapshot{}))
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoHub)
}

func TestCommitIncrementalChangesAndLoad(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	reg := newRegistry(t)
	commit := func() {
		t.Helper()
		require.NoError(t, store.Commit(ctx, reg.TakeChanges()))
	}
	commit()

	require.NoError(t, reg.SetTokenRequirement(registry.Tx{Sender: creator, Time: 1}, common.HexToAddress("0x1155"), big.NewInt(9)))
	require.NoError(t, reg.SetGating(registry.Tx{Sender: multisig, Time: 1}, registry.Gates{Comments: true}))
	commit()

	p1, err := reg.CreateProposal(ctx, registry.Tx{Sender: alice, Time: 10}, "First", "# First\n\nbody", 0, 0)
	require.NoError(t, err)
	p2, err := reg.CreateProposal(ctx, registry.Tx{Sender: bob, Time: 11}, "Second", "text", 100, 500)
	require.NoError(t, err)
	commit()

	require.NoError(t, reg.SetGating(registry.Tx{Sender: multisig, Time: 12}, registry.Gates{}))
	require.NoError(t, reg.AdminMoveState(registry.Tx{Sender: creator, Time: 12}, p1, registry.StateActive))
	c1, err := reg.AddComment(ctx, registry.Tx{Sender: bob, Time: 13}, p1, "looks good", registry.SentimentPositive)
	require.NoError(t, err)
	c2, err := reg.AddComment(ctx, registry.Tx{Sender: alice, Time: 14}, p1, "thanks", registry.SentimentNeutral)
	require.NoError(t, err)
	_, err = reg.CastVote(ctx, registry.Tx{Sender: bob, Time: 15}, p1, true)
	require.NoError(t, err)
	_, err = reg.CastVote(ctx, registry.Tx{Sender: alice, Time: 16}, p1, false)
	require.NoError(t, err)
	commit()

	require.NoError(t, reg.AdminDeleteComment(registry.Tx{Sender: multisig, Time: 17}, p1, c1))
	commit()

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded.Hub)
	assert.Equal(t, hubAddr, loaded.Hub.Address)
	assert.Equal(t, int64(9), loaded.Hub.Token.ID.Int64())
	require.Len(t, loaded.Proposals, 2)
	assert.Equal(t, p2, loaded.Proposals[0].Address, "proposals load in index order")
	assert.Equal(t, []common.Address{c1, c2}, loaded.Proposals[1].Comments)
	require.Len(t, loaded.Proposals[1].Ballots, 2)
	assert.Equal(t, bob, loaded.Proposals[1].Ballots[0].Voter)
	require.Len(t, loaded.Comments, 2)
	assert.True(t, loaded.Comments[0].Deleted)

	restored, err := registry.Restore(loaded, nil, registry.DefaultPolicy())
	require.NoError(t, err)
	assert.JSONEq(t, asJSON(t, reg.Snapshot()), asJSON(t, restored.Snapshot()))
}

func TestCommitFullSnapshotTwice(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	reg := newRegistry(t)

	p, err := reg.CreateProposal(ctx, registry.Tx{Sender: alice, Time: 1}, "t", "b", 0, 0)
	require.NoError(t, err)
	require.NoError(t, reg.AdminMoveState(registry.Tx{Sender: creator, Time: 2}, p, registry.StateOpen))
	_, err = reg.AddComment(ctx, registry.Tx{Sender: bob, Time: 3}, p, "hi", registry.SentimentInquiry)
	require.NoError(t, err)

	require.NoError(t, store.Commit(ctx, reg.Snapshot()))
	require.NoError(t, store.Commit(ctx, reg.Snapshot()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Proposals, 1)
	assert.Len(t, loaded.Proposals[0].Comments, 1)
	assert.Equal(t, registry.StateOpen, loaded.Proposals[0].State)
	assert.Equal(t, registry.SentimentInquiry, loaded.Comments[0].Sentiment)
}

func TestLoadRejectsMalformedRows(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	reg := newRegistry(t)
	require.NoError(t, store.Commit(ctx, reg.TakeChanges()))

	_, err := store.DB().ExecContext(ctx, `UPDATE hub_config SET multisig = 'not-an-address' WHERE id = 1`)
	require.NoError(t, err)

	_, err = store.Load(ctx)
	assert.ErrorContains(t, err, "malformed address")
}
