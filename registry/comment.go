// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Sentiment is the commenter's stance on the proposal.
type Sentiment uint8

const (
	SentimentUnspecified Sentiment = iota
	SentimentPositive
	SentimentNegative
	SentimentNeutral
	SentimentInquiry
)

var sentimentNames = [...]string{"unspecified", "positive", "negative", "neutral", "inquiry"}

func (s Sentiment) Valid() bool {
	return int(s) < len(sentimentNames)
}

func (s Sentiment) String() string {
	if !s.Valid() {
		return "sentiment(" + strconv.Itoa(int(s)) + ")"
	}
	return sentimentNames[s]
}

// ParseSentiment accepts a sentiment name or its numeric value.
func ParseSentiment(v string) (Sentiment, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for i, name := range sentimentNames {
		if v == name {
			return Sentiment(i), nil
		}
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < len(sentimentNames) {
		return Sentiment(n), nil
	}
	return 0, fmt.Errorf("%w: sentiment %q", ErrInvalidInput, v)
}

// CommentRecord is a single comment on a proposal. After initialization only
// the deleted flag can change, and only through the owning registry.
type CommentRecord struct {
	address  common.Address
	template common.Address
	phase    phase

	ownerHub  common.Address
	proposal  common.Address
	author    common.Address
	content   string
	sentiment Sentiment
	createdAt uint64
	deleted   bool
}

// NewCommentRecord returns an uninitialized record at address, cloned from template.
func NewCommentRecord(address, template common.Address) *CommentRecord {
	return &CommentRecord{address: address, template: template}
}

// Initialize sets the comment's content. It succeeds at most once.
func (c *CommentRecord) Initialize(owner, proposal, author common.Address, content string, sentiment Sentiment, createdAt uint64) error {
	if c.phase != phaseUninitialized {
		return fmt.Errorf("%w: comment %s", ErrAlreadyInitialized, c.address.Hex())
	}
	if isZero(owner) {
		return ErrInvalidOwner
	}
	if isZero(proposal) {
		return ErrInvalidProposal
	}
	c.ownerHub = owner
	c.proposal = proposal
	c.author = author
	c.content = content
	c.sentiment = sentiment
	c.createdAt = createdAt
	c.phase = phaseInitialized
	return nil
}

// MarkDeleted soft-deletes the comment. Marking an already deleted comment
// succeeds and changes nothing.
func (c *CommentRecord) MarkDeleted(caller common.Address) error {
	if c.phase != phaseInitialized || caller != c.ownerHub {
		return fmt.Errorf("%w: caller %s is not the owner hub of %s", ErrUnauthorized, caller.Hex(), c.address.Hex())
	}
	c.deleted = true
	return nil
}

func (c *CommentRecord) Address() common.Address  { return c.address }
func (c *CommentRecord) Template() common.Address { return c.template }
func (c *CommentRecord) Initialized() bool        { return c.phase == phaseInitialized }
func (c *CommentRecord) OwnerHub() common.Address { return c.ownerHub }
func (c *CommentRecord) Proposal() common.Address { return c.proposal }
func (c *CommentRecord) Author() common.Address   { return c.author }
func (c *CommentRecord) Content() string          { return c.content }
func (c *CommentRecord) Sentiment() Sentiment     { return c.sentiment }
func (c *CommentRecord) CreatedAt() uint64        { return c.createdAt }
func (c *CommentRecord) Deleted() bool            { return c.deleted }

func (s Sentiment) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: sentiment %d", ErrInvalidInput, s)
	}
	return []byte(s.String()), nil
}

func (s *Sentiment) UnmarshalText(text []byte) error {
	parsed, err := ParseSentiment(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
