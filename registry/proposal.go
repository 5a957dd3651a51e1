// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// phase tags the one-way construct-then-initialize transition of a record.
type phase uint8

const (
	phaseUninitialized phase = iota
	phaseInitialized
)

// Ballot is one accepted vote on a proposal.
type Ballot struct {
	Voter   common.Address `json:"voter"`
	Support bool           `json:"support"`
	Weight  *big.Int       `json:"weight"`
	CastAt  uint64         `json:"cast_at"`
}

// ProposalRecord holds a proposal's metadata, tally and comment references.
// Protected mutations are accepted only from the owning registry.
type ProposalRecord struct {
	address  common.Address
	template common.Address
	phase    phase

	ownerHub  common.Address
	title     string
	author    common.Address
	body      string
	createdAt uint64
	voteStart uint64
	voteEnd   uint64

	votesFor     *big.Int
	votesAgainst *big.Int
	hasVoted     map[common.Address]struct{}
	ballots      []Ballot

	comments []common.Address
}

// NewProposalRecord returns an uninitialized record at address, cloned from template.
func NewProposalRecord(address, template common.Address) *ProposalRecord {
	return &ProposalRecord{
		address:      address,
		template:     template,
		votesFor:     new(big.Int),
		votesAgainst: new(big.Int),
		hasVoted:     make(map[common.Address]struct{}),
	}
}

// Initialize sets the record's metadata. It succeeds at most once.
func (p *ProposalRecord) Initialize(owner common.Address, title string, author common.Address, body string, createdAt, voteStart, voteEnd uint64) error {
	if p.phase != phaseUninitialized {
		return fmt.Errorf("%w: proposal %s", ErrAlreadyInitialized, p.address.Hex())
	}
	if isZero(owner) {
		return ErrInvalidOwner
	}
	p.ownerHub = owner
	p.title = title
	p.author = author
	p.body = body
	p.createdAt = createdAt
	p.voteStart = voteStart
	p.voteEnd = voteEnd
	p.phase = phaseInitialized
	return nil
}

func (p *ProposalRecord) requireHub(caller common.Address) error {
	if p.phase != phaseInitialized || caller != p.ownerHub {
		return fmt.Errorf("%w: caller %s is not the owner hub of %s", ErrUnauthorized, caller.Hex(), p.address.Hex())
	}
	return nil
}

// AddCommentAddress appends a comment reference. Repeated addresses are kept.
func (p *ProposalRecord) AddCommentAddress(caller, comment common.Address) error {
	if err := p.requireHub(caller); err != nil {
		return err
	}
	p.comments = append(p.comments, comment)
	return nil
}

// Comments pages through the comment references.
func (p *ProposalRecord) Comments(offset, limit int, reverse bool) []common.Address {
	return paginate(p.comments, offset, limit, reverse)
}

// HubCastVote records a vote for or against the proposal on behalf of voter.
func (p *ProposalRecord) HubCastVote(caller, voter common.Address, support bool, weight *big.Int, at uint64) error {
	if err := p.requireHub(caller); err != nil {
		return err
	}
	if _, ok := p.hasVoted[voter]; ok {
		return fmt.Errorf("%w: %s on %s", ErrAlreadyVoted, voter.Hex(), p.address.Hex())
	}
	if weight == nil || weight.Sign() <= 0 {
		return ErrZeroWeight
	}
	p.recordBallot(Ballot{Voter: voter, Support: support, Weight: new(big.Int).Set(weight), CastAt: at})
	return nil
}

func (p *ProposalRecord) recordBallot(b Ballot) {
	p.hasVoted[b.Voter] = struct{}{}
	p.ballots = append(p.ballots, b)
	if b.Support {
		p.votesFor.Add(p.votesFor, b.Weight)
	} else {
		p.votesAgainst.Add(p.votesAgainst, b.Weight)
	}
}

// SetVotingWindow replaces the stored voting window.
func (p *ProposalRecord) SetVotingWindow(caller common.Address, start, end uint64) error {
	if err := p.requireHub(caller); err != nil {
		return err
	}
	p.voteStart = start
	p.voteEnd = end
	return nil
}

func (p *ProposalRecord) Address() common.Address  { return p.address }
func (p *ProposalRecord) Template() common.Address { return p.template }
func (p *ProposalRecord) Initialized() bool        { return p.phase == phaseInitialized }
func (p *ProposalRecord) OwnerHub() common.Address { return p.ownerHub }
func (p *ProposalRecord) Title() string            { return p.title }
func (p *ProposalRecord) Author() common.Address   { return p.author }
func (p *ProposalRecord) Body() string             { return p.body }
func (p *ProposalRecord) CreatedAt() uint64        { return p.createdAt }
func (p *ProposalRecord) VoteStart() uint64        { return p.voteStart }
func (p *ProposalRecord) VoteEnd() uint64          { return p.voteEnd }
func (p *ProposalRecord) CommentCount() int        { return len(p.comments) }

func (p *ProposalRecord) VotesFor() *big.Int     { return new(big.Int).Set(p.votesFor) }
func (p *ProposalRecord) VotesAgainst() *big.Int { return new(big.Int).Set(p.votesAgainst) }

func (p *ProposalRecord) HasVoted(voter common.Address) bool {
	_, ok := p.hasVoted[voter]
	return ok
}

// HasWindow reports whether a voting window is stored.
func (p *ProposalRecord) HasWindow() bool {
	return p.voteStart != 0 || p.voteEnd != 0
}

// WindowOpen reports whether now falls inside the voting window. A zero end
// leaves the window open-ended; no window at all is always open.
func (p *ProposalRecord) WindowOpen(now uint64) bool {
	if !p.HasWindow() {
		return true
	}
	if now < p.voteStart {
		return false
	}
	return p.voteEnd == 0 || now <= p.voteEnd
}
