// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "github.com/danielhkuo/govhub/content"

// Addresses travel as 0x-prefixed hex strings and token amounts as decimal
// strings, so clients never lose precision.

// Request types

type AddressRequest struct {
	Address string `json:"address"`
}

type ResetAdminsRequest struct {
	Creator       string   `json:"creator"`
	ElectedAdmins []string `json:"elected_admins"`
}

type ElectedAdminsRequest struct {
	ElectedAdmins []string `json:"elected_admins"`
}

type TemplatesRequest struct {
	ProposalTemplate string `json:"proposal_template"`
	CommentTemplate  string `json:"comment_template"`
}

type TokenRequirementRequest struct {
	Contract string `json:"contract"`
	ID       string `json:"id"`
}

type GatingRequest struct {
	Proposals bool `json:"proposals"`
	Comments  bool `json:"comments"`
	Votes     bool `json:"votes"`
}

// Body is markdown; BodyHTML, from a rich-text editor, is converted to
// markdown and used when Body is empty.
type CreateProposalRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	BodyHTML  string `json:"body_html,omitempty"`
	VoteStart uint64 `json:"vote_start"`
	VoteEnd   uint64 `json:"vote_end"`
}

type MoveStateRequest struct {
	State string `json:"state"`
}

type VotingWindowRequest struct {
	VoteStart uint64 `json:"vote_start"`
	VoteEnd   uint64 `json:"vote_end"`
}

type CreateCommentRequest struct {
	Content   string `json:"content"`
	Sentiment string `json:"sentiment"`
}

// Support is a pointer so a missing field is rejected rather than read as "against".
type CastVoteRequest struct {
	Support *bool `json:"support"`
}

// Response types

type CreateProposalResponse struct {
	Proposal string `json:"proposal"`
}

type CreateCommentResponse struct {
	Comment string `json:"comment"`
}

type CastVoteResponse struct {
	Proposal string `json:"proposal"`
	Support  bool   `json:"support"`
	Weight   string `json:"weight"`
}

type StateResponse struct {
	Proposal string `json:"proposal"`
	State    string `json:"state"`
}

type AdminCheckResponse struct {
	Address string `json:"address"`
	IsAdmin bool   `json:"is_admin"`
}

type TokenCheckResponse struct {
	Address  string `json:"address"`
	HasToken bool   `json:"has_token"`
}

type CountsResponse struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

type HubResponse struct {
	Address       string                  `json:"address"`
	Creator       string                  `json:"creator"`
	Multisig      string                  `json:"multisig"`
	ElectedAdmins []string                `json:"elected_admins"`
	Templates     TemplatesRequest        `json:"templates"`
	Token         TokenRequirementRequest `json:"token"`
	Gating        GatingRequest           `json:"gating"`
	Policy        VotePolicy              `json:"vote_policy"`
	Counts        CountsResponse          `json:"proposals"`
}

type VotePolicy struct {
	Weight        string `json:"weight"`
	EnforceWindow bool   `json:"enforce_window"`
}

type ProposalListResponse struct {
	State     string     `json:"state"`
	Offset    int        `json:"offset"`
	Limit     int        `json:"limit"`
	Reverse   bool       `json:"reverse"`
	Total     int        `json:"total"`
	Proposals []Proposal `json:"proposals"`
}

type CommentListResponse struct {
	Proposal string    `json:"proposal"`
	Offset   int       `json:"offset"`
	Limit    int       `json:"limit"`
	Reverse  bool      `json:"reverse"`
	Total    int       `json:"total"`
	Comments []Comment `json:"comments"`
}

type VotesResponse struct {
	Proposal     string   `json:"proposal"`
	State        string   `json:"state"`
	VotesFor     string   `json:"votes_for"`
	VotesAgainst string   `json:"votes_against"`
	Ballots      []Ballot `json:"ballots"`
}

// Domain types

type Proposal struct {
	Address      string                   `json:"address"`
	State        string                   `json:"state"`
	Title        string                   `json:"title"`
	Author       string                   `json:"author"`
	Body         string                   `json:"body"`
	Document     content.ProposalDocument `json:"document"`
	CreatedAt    uint64                   `json:"created_at"`
	VoteStart    uint64                   `json:"vote_start"`
	VoteEnd      uint64                   `json:"vote_end"`
	VotesFor     string                   `json:"votes_for"`
	VotesAgainst string                   `json:"votes_against"`
	BallotCount  int                      `json:"ballot_count"`
	CommentCount int                      `json:"comment_count"`
}

type Comment struct {
	Address   string `json:"address"`
	Proposal  string `json:"proposal"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	Sentiment string `json:"sentiment"`
	CreatedAt uint64 `json:"created_at"`
	Deleted   bool   `json:"deleted"`
}

type Ballot struct {
	Voter   string `json:"voter"`
	Support bool   `json:"support"`
	Weight  string `json:"weight"`
	CastAt  uint64 `json:"cast_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
