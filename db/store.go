// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/govhub/registry"
)

// ErrNoHub is returned by Load when no registry has been committed yet.
var ErrNoHub = errors.New("no registry stored")

// Store saves and loads registry snapshots.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Commit writes every entity in snap inside a single transaction.
func (s *Store) Commit(ctx context.Context, snap registry.Snapshot) error {
	if snap.Empty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if snap.Hub != nil {
		if err := upsertHub(ctx, tx, snap.Hub); err != nil {
			return err
		}
	}
	for i := range snap.Proposals {
		if err := upsertProposal(ctx, tx, &snap.Proposals[i]); err != nil {
			return err
		}
	}
	for i := range snap.Comments {
		if err := upsertComment(ctx, tx, &snap.Comments[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func upsertHub(ctx context.Context, tx *sql.Tx, h *registry.HubView) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO hub_config (id, address, creator, multisig, elected_admin_0, elected_admin_1, elected_admin_2,
			proposal_template, comment_template, token_contract, token_id,
			gate_proposals, gate_comments, gate_votes, nonce, seq)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			address = excluded.address,
			creator = excluded.creator,
			multisig = excluded.multisig,
			elected_admin_0 = excluded.elected_admin_0,
			elected_admin_1 = excluded.elected_admin_1,
			elected_admin_2 = excluded.elected_admin_2,
			proposal_template = excluded.proposal_template,
			comment_template = excluded.comment_template,
			token_contract = excluded.token_contract,
			token_id = excluded.token_id,
			gate_proposals = excluded.gate_proposals,
			gate_comments = excluded.gate_comments,
			gate_votes = excluded.gate_votes,
			nonce = excluded.nonce,
			seq = excluded.seq
	`, h.Address.Hex(), h.Roles.Creator.Hex(), h.Roles.Multisig.Hex(),
		h.Roles.Elected[0].Hex(), h.Roles.Elected[1].Hex(), h.Roles.Elected[2].Hex(),
		h.Templates.Proposal.Hex(), h.Templates.Comment.Hex(),
		h.Token.Contract.Hex(), bigText(h.Token.ID),
		h.Gates.Proposals, h.Gates.Comments, h.Gates.Votes,
		int64(h.Nonce), int64(h.Seq))
	if err != nil {
		return fmt.Errorf("failed to save hub: %w", err)
	}
	return nil
}

func upsertProposal(ctx context.Context, tx *sql.Tx, p *registry.ProposalView) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO proposal_record (address, template, owner_hub, state, index_seq, title, author, body,
			created_at, vote_start, vote_end, votes_for, votes_against)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (address) DO UPDATE SET
			state = excluded.state,
			index_seq = excluded.index_seq,
			vote_start = excluded.vote_start,
			vote_end = excluded.vote_end,
			votes_for = excluded.votes_for,
			votes_against = excluded.votes_against
	`, p.Address.Hex(), p.Template.Hex(), p.OwnerHub.Hex(), int(p.State), int64(p.IndexSeq),
		p.Title, p.Author.Hex(), p.Body,
		int64(p.CreatedAt), int64(p.VoteStart), int64(p.VoteEnd),
		bigText(p.VotesFor), bigText(p.VotesAgainst))
	if err != nil {
		return fmt.Errorf("failed to save proposal %s: %w", p.Address.Hex(), err)
	}

	for i, b := range p.Ballots {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO proposal_ballot (proposal, position, voter, support, weight, cast_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (proposal, position) DO NOTHING
		`, p.Address.Hex(), i, b.Voter.Hex(), b.Support, bigText(b.Weight), int64(b.CastAt))
		if err != nil {
			return fmt.Errorf("failed to save ballot of %s: %w", b.Voter.Hex(), err)
		}
	}

	for i, c := range p.Comments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO proposal_comment (proposal, position, comment)
			VALUES ($1, $2, $3)
			ON CONFLICT (proposal, position) DO NOTHING
		`, p.Address.Hex(), i, c.Hex())
		if err != nil {
			return fmt.Errorf("failed to save comment reference %s: %w", c.Hex(), err)
		}
	}
	return nil
}

func upsertComment(ctx context.Context, tx *sql.Tx, c *registry.CommentView) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO comment_record (address, template, owner_hub, proposal, author, content, sentiment, created_at, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (address) DO UPDATE SET deleted = excluded.deleted
	`, c.Address.Hex(), c.Template.Hex(), c.OwnerHub.Hex(), c.Proposal.Hex(), c.Author.Hex(),
		c.Content, int(c.Sentiment), int64(c.CreatedAt), c.Deleted)
	if err != nil {
		return fmt.Errorf("failed to save comment %s: %w", c.Address.Hex(), err)
	}
	return nil
}

// Load reads the full registry state. It returns ErrNoHub on an empty database.
func (s *Store) Load(ctx context.Context) (registry.Snapshot, error) {
	var snap registry.Snapshot

	hub, err := s.loadHub(ctx)
	if err != nil {
		return snap, err
	}
	snap.Hub = hub

	proposals, err := s.loadProposals(ctx)
	if err != nil {
		return snap, err
	}
	if err := s.loadBallots(ctx, proposals); err != nil {
		return snap, err
	}
	if err := s.loadCommentRefs(ctx, proposals); err != nil {
		return snap, err
	}
	for _, p := range proposals.order {
		snap.Proposals = append(snap.Proposals, *proposals.byAddr[p])
	}

	snap.Comments, err = s.loadComments(ctx)
	if err != nil {
		return snap, err
	}
	return snap, nil
}

func (s *Store) loadHub(ctx context.Context) (*registry.HubView, error) {
	var (
		h                                registry.HubView
		address, creator, multisig       string
		e0, e1, e2                       string
		proposalTmpl, commentTmpl, token string
		tokenID                          string
		nonce, seq                       int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT address, creator, multisig, elected_admin_0, elected_admin_1, elected_admin_2,
			proposal_template, comment_template, token_contract, token_id,
			gate_proposals, gate_comments, gate_votes, nonce, seq
		FROM hub_config WHERE id = 1
	`).Scan(&address, &creator, &multisig, &e0, &e1, &e2,
		&proposalTmpl, &commentTmpl, &token, &tokenID,
		&h.Gates.Proposals, &h.Gates.Comments, &h.Gates.Votes, &nonce, &seq)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoHub
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load hub: %w", err)
	}

	var p addrParser
	h.Address = p.parse(address)
	h.Roles.Creator = p.parse(creator)
	h.Roles.Multisig = p.parse(multisig)
	h.Roles.Elected = [registry.NumElectedAdmins]common.Address{p.parse(e0), p.parse(e1), p.parse(e2)}
	h.Templates.Proposal = p.parse(proposalTmpl)
	h.Templates.Comment = p.parse(commentTmpl)
	h.Token.Contract = p.parse(token)
	h.Token.ID = p.parseBig(tokenID)
	if p.err != nil {
		return nil, fmt.Errorf("failed to load hub: %w", p.err)
	}
	h.Nonce = uint64(nonce)
	h.Seq = uint64(seq)
	return &h, nil
}

type proposalSet struct {
	order  []common.Address
	byAddr map[common.Address]*registry.ProposalView
}

func (s *Store) loadProposals(ctx context.Context) (*proposalSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT address, template, owner_hub, state, index_seq, title, author, body,
			created_at, vote_start, vote_end, votes_for, votes_against
		FROM proposal_record
		ORDER BY index_seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query proposals: %w", err)
	}
	defer rows.Close()

	set := &proposalSet{byAddr: make(map[common.Address]*registry.ProposalView)}
	for rows.Next() {
		var (
			v                                  registry.ProposalView
			address, template, owner, author   string
			state                              int
			seq, createdAt, voteStart, voteEnd int64
			votesFor, votesAgainst             string
		)
		if err := rows.Scan(&address, &template, &owner, &state, &seq, &v.Title, &author, &v.Body,
			&createdAt, &voteStart, &voteEnd, &votesFor, &votesAgainst); err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}

		var p addrParser
		v.Address = p.parse(address)
		v.Template = p.parse(template)
		v.OwnerHub = p.parse(owner)
		v.Author = p.parse(author)
		v.VotesFor = p.parseBig(votesFor)
		v.VotesAgainst = p.parseBig(votesAgainst)
		if p.err != nil {
			return nil, fmt.Errorf("failed to load proposal %s: %w", address, p.err)
		}
		v.State = registry.ProposalState(state)
		v.IndexSeq = uint64(seq)
		v.CreatedAt = uint64(createdAt)
		v.VoteStart = uint64(voteStart)
		v.VoteEnd = uint64(voteEnd)

		set.order = append(set.order, v.Address)
		set.byAddr[v.Address] = &v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read proposals: %w", err)
	}
	return set, nil
}

func (s *Store) loadBallots(ctx context.Context, set *proposalSet) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT proposal, voter, support, weight, cast_at
		FROM proposal_ballot
		ORDER BY proposal, position
	`)
	if err != nil {
		return fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			proposal, voter, weight string
			support                 bool
			castAt                  int64
		)
		if err := rows.Scan(&proposal, &voter, &support, &weight, &castAt); err != nil {
			return fmt.Errorf("failed to scan ballot: %w", err)
		}
		var p addrParser
		b := registry.Ballot{Voter: p.parse(voter), Support: support, Weight: p.parseBig(weight), CastAt: uint64(castAt)}
		owner := p.parse(proposal)
		if p.err != nil {
			return fmt.Errorf("failed to load ballot: %w", p.err)
		}
		v, ok := set.byAddr[owner]
		if !ok {
			return fmt.Errorf("ballot for unknown proposal %s", proposal)
		}
		v.Ballots = append(v.Ballots, b)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read ballots: %w", err)
	}
	return nil
}

func (s *Store) loadCommentRefs(ctx context.Context, set *proposalSet) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT proposal, comment
		FROM proposal_comment
		ORDER BY proposal, position
	`)
	if err != nil {
		return fmt.Errorf("failed to query comment references: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var proposal, comment string
		if err := rows.Scan(&proposal, &comment); err != nil {
			return fmt.Errorf("failed to scan comment reference: %w", err)
		}
		var p addrParser
		owner, ref := p.parse(proposal), p.parse(comment)
		if p.err != nil {
			return fmt.Errorf("failed to load comment reference: %w", p.err)
		}
		v, ok := set.byAddr[owner]
		if !ok {
			return fmt.Errorf("comment reference for unknown proposal %s", proposal)
		}
		v.Comments = append(v.Comments, ref)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read comment references: %w", err)
	}
	return nil
}

func (s *Store) loadComments(ctx context.Context) ([]registry.CommentView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT address, template, owner_hub, proposal, author, content, sentiment, created_at, deleted
		FROM comment_record
		ORDER BY created_at, address
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []registry.CommentView
	for rows.Next() {
		var (
			v                                          registry.CommentView
			address, template, owner, proposal, author string
			sentiment                                  int
			createdAt                                  int64
		)
		if err := rows.Scan(&address, &template, &owner, &proposal, &author, &v.Content, &sentiment, &createdAt, &v.Deleted); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		var p addrParser
		v.Address = p.parse(address)
		v.Template = p.parse(template)
		v.OwnerHub = p.parse(owner)
		v.Proposal = p.parse(proposal)
		v.Author = p.parse(author)
		if p.err != nil {
			return nil, fmt.Errorf("failed to load comment %s: %w", address, p.err)
		}
		v.Sentiment = registry.Sentiment(sentiment)
		v.CreatedAt = uint64(createdAt)
		comments = append(comments, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	return comments, nil
}

// addrParser keeps the first parse failure so a row can be decoded in one pass.
type addrParser struct {
	err error
}

func (p *addrParser) parse(s string) common.Address {
	if p.err == nil && !common.IsHexAddress(s) {
		p.err = fmt.Errorf("malformed address %q", s)
	}
	return common.HexToAddress(s)
}

func (p *addrParser) parseBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		if p.err == nil {
			p.err = fmt.Errorf("malformed integer %q", s)
		}
		return new(big.Int)
	}
	return n
}

func bigText(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}
