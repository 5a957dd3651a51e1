// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalRecordInitialize(t *testing.T) {
	hub, author := addr(0x100), addr(0xa)
	p := NewProposalRecord(addr(0x200), addr(0xf1))
	assert.False(t, p.Initialized())

	assert.ErrorIs(t, p.Initialize(common.Address{}, "t", author, "b", 1, 0, 0), ErrInvalidOwner)
	assert.False(t, p.Initialized())

	require.NoError(t, p.Initialize(hub, "Title", author, "Body", 5, 10, 20))
	assert.True(t, p.Initialized())
	assert.Equal(t, hub, p.OwnerHub())
	assert.Equal(t, "Title", p.Title())
	assert.Equal(t, author, p.Author())
	assert.Equal(t, "Body", p.Body())
	assert.Equal(t, uint64(5), p.CreatedAt())
	assert.Equal(t, uint64(10), p.VoteStart())
	assert.Equal(t, uint64(20), p.VoteEnd())
	assert.Equal(t, addr(0xf1), p.Template())

	err := p.Initialize(hub, "Again", author, "Body", 6, 0, 0)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Equal(t, "Title", p.Title())
}

func TestProposalRecordProtectedMutations(t *testing.T) {
	hub, stranger := addr(0x100), addr(0xb)
	p := NewProposalRecord(addr(0x200), addr(0xf1))

	assert.ErrorIs(t, p.AddCommentAddress(hub, addr(1)), ErrUnauthorized, "uninitialized records reject everyone")

	require.NoError(t, p.Initialize(hub, "t", addr(0xa), "b", 1, 0, 0))
	assert.ErrorIs(t, p.AddCommentAddress(stranger, addr(1)), ErrUnauthorized)
	assert.ErrorIs(t, p.HubCastVote(stranger, stranger, true, big.NewInt(1), 1), ErrUnauthorized)
	assert.ErrorIs(t, p.SetVotingWindow(stranger, 1, 2), ErrUnauthorized)
	assert.Zero(t, p.CommentCount())
	assert.Zero(t, p.VotesFor().Sign())
}

func TestProposalRecordComments(t *testing.T) {
	hub := addr(0x100)
	p := NewProposalRecord(addr(0x200), addr(0xf1))
	require.NoError(t, p.Initialize(hub, "t", addr(0xa), "b", 1, 0, 0))

	c1, c2, c3 := addr(0x301), addr(0x302), addr(0x303)
	for _, c := range []common.Address{c1, c2, c3, c2} {
		require.NoError(t, p.AddCommentAddress(hub, c))
	}

	assert.Equal(t, 4, p.CommentCount(), "duplicates are kept")
	assert.Equal(t, []common.Address{c1, c2}, p.Comments(0, 2, false))
	assert.Equal(t, []common.Address{c2, c3}, p.Comments(0, 2, true))
	assert.Equal(t, []common.Address{c3, c2}, p.Comments(2, 10, false))
	assert.Empty(t, p.Comments(4, 10, false))
	assert.Empty(t, p.Comments(0, 0, true))
}

func TestProposalRecordVoting(t *testing.T) {
	hub := addr(0x100)
	alice, bob, carol := addr(0xa), addr(0xb), addr(0xc)
	p := NewProposalRecord(addr(0x200), addr(0xf1))
	require.NoError(t, p.Initialize(hub, "t", alice, "b", 1, 0, 0))

	require.NoError(t, p.HubCastVote(hub, alice, true, big.NewInt(3), 10))
	require.NoError(t, p.HubCastVote(hub, bob, false, big.NewInt(2), 11))
	assert.ErrorIs(t, p.HubCastVote(hub, alice, false, big.NewInt(1), 12), ErrAlreadyVoted)
	assert.ErrorIs(t, p.HubCastVote(hub, carol, true, big.NewInt(0), 12), ErrZeroWeight)
	assert.ErrorIs(t, p.HubCastVote(hub, carol, true, nil, 12), ErrZeroWeight)

	assert.Equal(t, int64(3), p.VotesFor().Int64())
	assert.Equal(t, int64(2), p.VotesAgainst().Int64())
	assert.True(t, p.HasVoted(alice))
	assert.True(t, p.HasVoted(bob))
	assert.False(t, p.HasVoted(carol))

	// returned tallies are copies
	p.VotesFor().SetInt64(100)
	assert.Equal(t, int64(3), p.VotesFor().Int64())
}

func TestProposalRecordWindow(t *testing.T) {
	hub := addr(0x100)
	tests := []struct {
		name       string
		start, end uint64
		now        uint64
		open       bool
	}{
		{"no window", 0, 0, 999, true},
		{"before start", 10, 20, 9, false},
		{"at start", 10, 20, 10, true},
		{"at end", 10, 20, 20, true},
		{"after end", 10, 20, 21, false},
		{"open ended", 10, 0, 1 << 40, true},
		{"end only", 0, 20, 21, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProposalRecord(addr(0x200), addr(0xf1))
			require.NoError(t, p.Initialize(hub, "t", addr(0xa), "b", 1, tt.start, tt.end))
			assert.Equal(t, tt.open, p.WindowOpen(tt.now))
		})
	}
}

func TestCommentRecordInitialize(t *testing.T) {
	hub, proposal, author := addr(0x100), addr(0x200), addr(0xb)

	c := NewCommentRecord(addr(0x300), addr(0xf2))
	assert.ErrorIs(t, c.Initialize(common.Address{}, proposal, author, "x", SentimentNeutral, 1), ErrInvalidOwner)
	assert.ErrorIs(t, c.Initialize(hub, common.Address{}, author, "x", SentimentNeutral, 1), ErrInvalidProposal)
	assert.False(t, c.Initialized())

	require.NoError(t, c.Initialize(hub, proposal, author, "first", SentimentPositive, 7))
	assert.Equal(t, hub, c.OwnerHub())
	assert.Equal(t, proposal, c.Proposal())
	assert.Equal(t, author, c.Author())
	assert.Equal(t, "first", c.Content())
	assert.Equal(t, SentimentPositive, c.Sentiment())
	assert.Equal(t, uint64(7), c.CreatedAt())
	assert.False(t, c.Deleted())

	assert.ErrorIs(t, c.Initialize(hub, proposal, author, "second", SentimentNegative, 8), ErrAlreadyInitialized)
	assert.Equal(t, "first", c.Content())
}

func TestCommentRecordMarkDeleted(t *testing.T) {
	hub := addr(0x100)
	c := NewCommentRecord(addr(0x300), addr(0xf2))
	assert.ErrorIs(t, c.MarkDeleted(hub), ErrUnauthorized)

	require.NoError(t, c.Initialize(hub, addr(0x200), addr(0xb), "x", SentimentNeutral, 1))
	assert.ErrorIs(t, c.MarkDeleted(addr(0xb)), ErrUnauthorized)
	assert.False(t, c.Deleted())

	require.NoError(t, c.MarkDeleted(hub))
	require.NoError(t, c.MarkDeleted(hub))
	assert.True(t, c.Deleted())
}

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		in      string
		want    Sentiment
		wantErr bool
	}{
		{"positive", SentimentPositive, false},
		{" Inquiry ", SentimentInquiry, false},
		{"3", SentimentNeutral, false},
		{"0", SentimentUnspecified, false},
		{"5", 0, true},
		{"angry", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSentiment(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidInput, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "sentiment(9)", Sentiment(9).String())
}

func TestParseState(t *testing.T) {
	tests := []struct {
		in      string
		want    ProposalState
		wantErr bool
	}{
		{"draft", StateDraft, false},
		{"OPEN", StateOpen, false},
		{"2", StateActive, false},
		{"closed", StateClosed, false},
		{"4", 0, true},
		{"archived", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseState(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidState, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	text, err := StateActive.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "active", string(text))
	_, err = ProposalState(7).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateIndex(t *testing.T) {
	ix := newStateIndex()
	a, b, c := addr(1), addr(2), addr(3)
	ix.push(a, 1)
	ix.push(b, 2)
	ix.push(c, 3)

	assert.Equal(t, 3, ix.len())
	assert.Equal(t, []common.Address{a, b, c}, ix.page(0, 10, false))
	assert.Equal(t, []common.Address{c, b}, ix.page(0, 2, true))
	assert.Equal(t, []common.Address{a}, ix.page(-5, 1, false))

	assert.True(t, ix.remove(b))
	assert.False(t, ix.remove(b))
	assert.False(t, ix.contains(b))
	assert.True(t, ix.contains(a))
	assert.Equal(t, []common.Address{c, a}, ix.page(0, 10, true))
	assert.Empty(t, ix.page(2, 10, false))
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		n, offset, limit int
		skip, take       int
	}{
		{5, 0, 2, 0, 2},
		{5, 4, 2, 4, 1},
		{5, 5, 2, 0, 0},
		{5, -1, 3, 0, 3},
		{5, 1, 0, 0, 0},
		{0, 0, 10, 0, 0},
	}
	for _, tt := range tests {
		skip, take := pageBounds(tt.n, tt.offset, tt.limit)
		assert.Equal(t, tt.skip, skip, "%+v", tt)
		assert.Equal(t, tt.take, take, "%+v", tt)
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "ok", ErrorCode(nil))
	assert.Equal(t, "already_voted", ErrorCode(fmt.Errorf("%w: 0xabc", ErrAlreadyVoted)))
	assert.Equal(t, "oracle_unavailable", ErrorCode(fmt.Errorf("wrapped: %w", ErrOracleUnavailable)))
	assert.Equal(t, "internal", ErrorCode(errors.New("disk full")))
}
