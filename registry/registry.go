// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Tx carries what the host supplies with every call: the authenticated
// sender and the block time in unix seconds.
type Tx struct {
	Sender common.Address
	Time   uint64
}

// WeightPolicy decides how much a single vote counts.
type WeightPolicy string

const (
	// WeightFlat counts every vote as 1.
	WeightFlat WeightPolicy = "flat"
	// WeightBalance counts a vote with the voter's balance of the gating token.
	WeightBalance WeightPolicy = "balance"
)

func ParseWeightPolicy(v string) (WeightPolicy, error) {
	switch WeightPolicy(v) {
	case "", WeightFlat:
		return WeightFlat, nil
	case WeightBalance:
		return WeightBalance, nil
	}
	return "", fmt.Errorf("%w: vote weight policy %q", ErrInvalidInput, v)
}

// Policy holds the operator-chosen voting rules. It is not part of the
// persisted state.
type Policy struct {
	Weight        WeightPolicy
	EnforceWindow bool
}

// DefaultPolicy counts votes flat and enforces stored voting windows.
func DefaultPolicy() Policy {
	return Policy{Weight: WeightFlat, EnforceWindow: true}
}

// Templates are the prototype addresses new records are instantiated from.
type Templates struct {
	Proposal common.Address `json:"proposal"`
	Comment  common.Address `json:"comment"`
}

// Config describes a registry at deployment.
type Config struct {
	Address   common.Address
	Roles     Roles
	Templates Templates
	Token     TokenRequirement
	Gates     Gates
}

// Content limits, in bytes.
const (
	MaxTitleLength   = 256
	MaxBodyLength    = 8192
	MaxCommentLength = 2048
)

// Registry is the governance hub: it authorizes every call, creates proposal
// and comment records, and keeps the per-state proposal indices.
//
// A Registry is not safe for concurrent use; the host serializes calls.
type Registry struct {
	address   common.Address
	roles     Roles
	templates Templates
	token     TokenRequirement
	gates     Gates
	policy    Policy
	oracle    TokenOracle

	// nonce derives record addresses, seq orders index entries.
	nonce uint64
	seq   uint64

	proposals map[common.Address]*ProposalRecord
	comments  map[common.Address]*CommentRecord
	stateOf   map[common.Address]ProposalState
	seqOf     map[common.Address]uint64
	indices   [NumStates]*stateIndex

	dirty changeSet
}

type changeSet struct {
	hub       bool
	proposals map[common.Address]struct{}
	comments  map[common.Address]struct{}
}

func newChangeSet() changeSet {
	return changeSet{
		proposals: make(map[common.Address]struct{}),
		comments:  make(map[common.Address]struct{}),
	}
}

func newRegistry(address common.Address, oracle TokenOracle, policy Policy) *Registry {
	if policy.Weight == "" {
		policy.Weight = WeightFlat
	}
	r := &Registry{
		address:   address,
		policy:    policy,
		oracle:    oracle,
		token:     TokenRequirement{ID: new(big.Int)},
		proposals: make(map[common.Address]*ProposalRecord),
		comments:  make(map[common.Address]*CommentRecord),
		stateOf:   make(map[common.Address]ProposalState),
		seqOf:     make(map[common.Address]uint64),
		dirty:     newChangeSet(),
	}
	for i := range r.indices {
		r.indices[i] = newStateIndex()
	}
	return r
}

// New deploys a registry. Every role and both templates must be non-zero.
func New(cfg Config, oracle TokenOracle, policy Policy) (*Registry, error) {
	if isZero(cfg.Address) {
		return nil, fmt.Errorf("%w: registry address", ErrInvalidAddress)
	}
	if err := cfg.Roles.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Templates.validate(); err != nil {
		return nil, err
	}

	r := newRegistry(cfg.Address, oracle, policy)
	r.roles = cfg.Roles
	r.templates = cfg.Templates
	r.gates = cfg.Gates
	if cfg.Token.ID != nil && cfg.Token.ID.Sign() < 0 {
		return nil, fmt.Errorf("%w: token id must be non-negative", ErrInvalidInput)
	}
	r.token = cfg.Token.copy()
	r.touchHub()
	return r, nil
}

func (t Templates) validate() error {
	if isZero(t.Proposal) {
		return fmt.Errorf("%w: proposal template", ErrInvalidAddress)
	}
	if isZero(t.Comment) {
		return fmt.Errorf("%w: comment template", ErrInvalidAddress)
	}
	return nil
}

// Address is the registry's own address, the owner hub of every record it creates.
func (r *Registry) Address() common.Address {
	return r.address
}

func (r *Registry) Templates() Templates {
	return r.templates
}

func (r *Registry) Policy() Policy {
	return r.policy
}

// SetTemplates changes the prototypes used for records created from now on.
func (r *Registry) SetTemplates(tx Tx, proposalTemplate, commentTemplate common.Address) error {
	if err := r.requireCreatorOrMultisig(tx, "set templates"); err != nil {
		return err
	}
	t := Templates{Proposal: proposalTemplate, Comment: commentTemplate}
	if err := t.validate(); err != nil {
		return err
	}
	r.templates = t
	r.touchHub()
	return nil
}

// nextAddress derives a fresh record address the way contract creation does.
func (r *Registry) nextAddress() common.Address {
	addr := crypto.CreateAddress(r.address, r.nonce)
	r.nonce++
	r.touchHub()
	return addr
}

func (r *Registry) nextSeq() uint64 {
	r.seq++
	r.touchHub()
	return r.seq
}

func (r *Registry) touchHub() {
	r.dirty.hub = true
}

func (r *Registry) touchProposal(addr common.Address) {
	r.dirty.proposals[addr] = struct{}{}
}

func (r *Registry) touchComment(addr common.Address) {
	r.dirty.comments[addr] = struct{}{}
}
