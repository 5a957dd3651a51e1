// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// HubView is the registry's own persisted configuration.
type HubView struct {
	Address   common.Address
	Roles     Roles
	Templates Templates
	Token     TokenRequirement
	Gates     Gates
	Nonce     uint64
	Seq       uint64
}

// ProposalView is a detached copy of a proposal record and its index position.
type ProposalView struct {
	Address      common.Address
	Template     common.Address
	OwnerHub     common.Address
	State        ProposalState
	IndexSeq     uint64
	Title        string
	Author       common.Address
	Body         string
	CreatedAt    uint64
	VoteStart    uint64
	VoteEnd      uint64
	VotesFor     *big.Int
	VotesAgainst *big.Int
	Ballots      []Ballot
	Comments     []common.Address
}

// CommentView is a detached copy of a comment record.
type CommentView struct {
	Address   common.Address
	Template  common.Address
	OwnerHub  common.Address
	Proposal  common.Address
	Author    common.Address
	Content   string
	Sentiment Sentiment
	CreatedAt uint64
	Deleted   bool
}

// Snapshot is a set of entity views: the full state when produced by
// Registry.Snapshot, or only what changed when produced by TakeChanges.
// Hub is nil when the hub configuration is absent or unchanged.
type Snapshot struct {
	Hub       *HubView
	Proposals []ProposalView
	Comments  []CommentView
}

// Empty reports whether the snapshot carries nothing.
func (s Snapshot) Empty() bool {
	return s.Hub == nil && len(s.Proposals) == 0 && len(s.Comments) == 0
}

func (r *Registry) hubView() HubView {
	return HubView{
		Address:   r.address,
		Roles:     r.roles,
		Templates: r.templates,
		Token:     r.token.copy(),
		Gates:     r.gates,
		Nonce:     r.nonce,
		Seq:       r.seq,
	}
}

// Hub returns the registry's current configuration.
func (r *Registry) Hub() HubView {
	return r.hubView()
}

func (r *Registry) proposalView(p *ProposalRecord) ProposalView {
	ballots := make([]Ballot, len(p.ballots))
	for i, b := range p.ballots {
		ballots[i] = Ballot{Voter: b.Voter, Support: b.Support, Weight: new(big.Int).Set(b.Weight), CastAt: b.CastAt}
	}
	return ProposalView{
		Address:      p.address,
		Template:     p.template,
		OwnerHub:     p.ownerHub,
		State:        r.stateOf[p.address],
		IndexSeq:     r.seqOf[p.address],
		Title:        p.title,
		Author:       p.author,
		Body:         p.body,
		CreatedAt:    p.createdAt,
		VoteStart:    p.voteStart,
		VoteEnd:      p.voteEnd,
		VotesFor:     p.VotesFor(),
		VotesAgainst: p.VotesAgainst(),
		Ballots:      ballots,
		Comments:     append([]common.Address(nil), p.comments...),
	}
}

func commentView(c *CommentRecord) CommentView {
	return CommentView{
		Address:   c.address,
		Template:  c.template,
		OwnerHub:  c.ownerHub,
		Proposal:  c.proposal,
		Author:    c.author,
		Content:   c.content,
		Sentiment: c.sentiment,
		CreatedAt: c.createdAt,
		Deleted:   c.deleted,
	}
}

// Proposal returns a copy of a proposal created by this registry.
func (r *Registry) Proposal(addr common.Address) (ProposalView, error) {
	p, _, err := r.lookupProposal(addr)
	if err != nil {
		return ProposalView{}, err
	}
	return r.proposalView(p), nil
}

// Comment returns a copy of a comment created by this registry.
func (r *Registry) Comment(addr common.Address) (CommentView, error) {
	c, ok := r.comments[addr]
	if !ok {
		return CommentView{}, fmt.Errorf("%w: %s", ErrUnknownComment, addr.Hex())
	}
	return commentView(c), nil
}

// Snapshot exports the whole registry state.
func (r *Registry) Snapshot() Snapshot {
	hub := r.hubView()
	snap := Snapshot{Hub: &hub}
	for _, p := range r.proposals {
		snap.Proposals = append(snap.Proposals, r.proposalView(p))
	}
	for _, c := range r.comments {
		snap.Comments = append(snap.Comments, commentView(c))
	}
	sortSnapshot(&snap)
	return snap
}

// TakeChanges returns the entities touched since the previous call and
// forgets them.
func (r *Registry) TakeChanges() Snapshot {
	var snap Snapshot
	if r.dirty.hub {
		hub := r.hubView()
		snap.Hub = &hub
	}
	for addr := range r.dirty.proposals {
		if p, ok := r.proposals[addr]; ok {
			snap.Proposals = append(snap.Proposals, r.proposalView(p))
		}
	}
	for addr := range r.dirty.comments {
		if c, ok := r.comments[addr]; ok {
			snap.Comments = append(snap.Comments, commentView(c))
		}
	}
	r.dirty = newChangeSet()
	sortSnapshot(&snap)
	return snap
}

// DiscardChanges forgets touched entities without exporting them.
func (r *Registry) DiscardChanges() {
	r.dirty = newChangeSet()
}

func sortSnapshot(s *Snapshot) {
	sort.Slice(s.Proposals, func(i, j int) bool { return s.Proposals[i].IndexSeq < s.Proposals[j].IndexSeq })
	sort.Slice(s.Comments, func(i, j int) bool {
		a, b := s.Comments[i], s.Comments[j]
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return bytes.Compare(a.Address[:], b.Address[:]) < 0
	})
}

// Restore rebuilds a registry from a full snapshot.
func Restore(snap Snapshot, oracle TokenOracle, policy Policy) (*Registry, error) {
	if snap.Hub == nil {
		return nil, fmt.Errorf("%w: snapshot has no hub", ErrInvalidInput)
	}
	hub := snap.Hub
	if isZero(hub.Address) {
		return nil, fmt.Errorf("%w: registry address", ErrInvalidAddress)
	}
	if err := hub.Roles.validate(); err != nil {
		return nil, err
	}

	r := newRegistry(hub.Address, oracle, policy)
	r.roles = hub.Roles
	r.templates = hub.Templates
	r.gates = hub.Gates
	r.nonce = hub.Nonce
	r.seq = hub.Seq
	r.token = hub.Token.copy()

	views := append([]ProposalView(nil), snap.Proposals...)
	sort.Slice(views, func(i, j int) bool { return views[i].IndexSeq < views[j].IndexSeq })
	for _, v := range views {
		if !v.State.Valid() {
			return nil, fmt.Errorf("%w: proposal %s in %d", ErrInvalidState, v.Address.Hex(), v.State)
		}
		p := NewProposalRecord(v.Address, v.Template)
		if err := p.Initialize(v.OwnerHub, v.Title, v.Author, v.Body, v.CreatedAt, v.VoteStart, v.VoteEnd); err != nil {
			return nil, fmt.Errorf("restore proposal %s: %w", v.Address.Hex(), err)
		}
		for _, b := range v.Ballots {
			if b.Weight == nil || b.Weight.Sign() <= 0 || p.HasVoted(b.Voter) {
				return nil, fmt.Errorf("%w: ballot of %s on %s", ErrInvalidInput, b.Voter.Hex(), v.Address.Hex())
			}
			p.recordBallot(Ballot{Voter: b.Voter, Support: b.Support, Weight: new(big.Int).Set(b.Weight), CastAt: b.CastAt})
		}
		p.comments = append(p.comments, v.Comments...)

		r.proposals[v.Address] = p
		r.indices[v.State].push(v.Address, v.IndexSeq)
		r.stateOf[v.Address] = v.State
		r.seqOf[v.Address] = v.IndexSeq
	}

	for _, v := range snap.Comments {
		if _, ok := r.proposals[v.Proposal]; !ok {
			return nil, fmt.Errorf("restore comment %s: %w: %s", v.Address.Hex(), ErrUnknownProposal, v.Proposal.Hex())
		}
		c := NewCommentRecord(v.Address, v.Template)
		if err := c.Initialize(v.OwnerHub, v.Proposal, v.Author, v.Content, v.Sentiment, v.CreatedAt); err != nil {
			return nil, fmt.Errorf("restore comment %s: %w", v.Address.Hex(), err)
		}
		c.deleted = v.Deleted
		r.comments[v.Address] = c
	}
	return r, nil
}
