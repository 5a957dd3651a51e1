// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AddComment attaches a comment by the sender to an OPEN or ACTIVE proposal.
func (r *Registry) AddComment(ctx context.Context, tx Tx, proposal common.Address, content string, sentiment Sentiment) (common.Address, error) {
	p, state, err := r.lookupProposal(proposal)
	if err != nil {
		return common.Address{}, err
	}
	if state != StateOpen && state != StateActive {
		return common.Address{}, fmt.Errorf("%w: cannot comment on a %s proposal", ErrInvalidState, state)
	}
	if err := r.checkGate(ctx, r.gates.Comments, tx.Sender, "comment"); err != nil {
		return common.Address{}, err
	}
	if strings.TrimSpace(content) == "" {
		return common.Address{}, fmt.Errorf("%w: comment cannot be empty", ErrInvalidInput)
	}
	if len(content) > MaxCommentLength {
		return common.Address{}, fmt.Errorf("%w: comment longer than %d bytes", ErrInvalidInput, MaxCommentLength)
	}
	if !sentiment.Valid() {
		return common.Address{}, fmt.Errorf("%w: sentiment %d", ErrInvalidInput, sentiment)
	}
	if sentiment == SentimentUnspecified {
		sentiment = SentimentNeutral
	}

	c := NewCommentRecord(r.nextAddress(), r.templates.Comment)
	if err := c.Initialize(r.address, proposal, tx.Sender, content, sentiment, tx.Time); err != nil {
		return common.Address{}, err
	}
	if err := p.AddCommentAddress(r.address, c.address); err != nil {
		return common.Address{}, err
	}
	r.comments[c.address] = c
	r.touchComment(c.address)
	r.touchProposal(proposal)
	return c.address, nil
}

// AdminDeleteComment soft-deletes a comment of proposal. Only the multisig may
// call it; deleting an already deleted comment succeeds.
func (r *Registry) AdminDeleteComment(tx Tx, proposal, comment common.Address) error {
	if err := r.requireMultisig(tx, "delete comment"); err != nil {
		return err
	}
	if _, _, err := r.lookupProposal(proposal); err != nil {
		return err
	}
	c, ok := r.comments[comment]
	if !ok || c.proposal != proposal {
		return fmt.Errorf("%w: %s on %s", ErrUnknownComment, comment.Hex(), proposal.Hex())
	}
	if c.deleted {
		return nil
	}
	if err := c.MarkDeleted(r.address); err != nil {
		return err
	}
	r.touchComment(comment)
	return nil
}

// Comments pages through the comment addresses of a proposal.
func (r *Registry) Comments(proposal common.Address, offset, limit int, reverse bool) ([]common.Address, error) {
	p, _, err := r.lookupProposal(proposal)
	if err != nil {
		return nil, err
	}
	return p.Comments(offset, limit, reverse), nil
}
