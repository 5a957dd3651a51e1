// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

Addresses are 0x-prefixed hex strings. Token amounts and vote tallies are
decimal strings. Timestamps are unix seconds of the host clock.

# Request Types

  - AddressRequest: address (multisig rotation)
  - ResetAdminsRequest: creator, elected_admins
  - ElectedAdminsRequest: elected_admins
  - TemplatesRequest: proposal_template, comment_template
  - TokenRequirementRequest: contract, id
  - GatingRequest: proposals, comments, votes
  - CreateProposalRequest: title, body or body_html, vote_start, vote_end
  - MoveStateRequest: state
  - VotingWindowRequest: vote_start, vote_end
  - CreateCommentRequest: content, sentiment
  - CastVoteRequest: support

# Response Types

  - HubResponse: roles, templates, token, gating, vote policy, counts
  - ProposalListResponse, CommentListResponse: one page of details
  - VotesResponse: tallies and ballots
  - CreateProposalResponse, CreateCommentResponse, CastVoteResponse
  - StateResponse, AdminCheckResponse, TokenCheckResponse, CountsResponse
  - ErrorResponse: error, code, message

# Domain Types

  - Proposal: record fields plus the parsed markdown document
  - Comment: comment record, including the deleted flag
  - Ballot: one accepted vote
*/
package models
