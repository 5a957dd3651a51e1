// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the governance registry API.

# Handler Types

Each handler is a struct over the ledger host:

  - HubHandler: roles, templates, token requirement, gating
  - ProposalHandler: proposal creation, listing, state changes, voting window sync
  - CommentHandler: discussion and moderation
  - VotingHandler: ballots and tallies

Constructors take the host and, where text is accepted, a content processor:

	proposals := handlers.NewProposalHandler(host, content.NewProcessor())

# Authentication

Reads are public. Every mutating handler acts for the caller that
middleware.WithCaller authenticated from the bearer token; the registry
decides whether that caller may perform the operation.

# Proposal Lifecycle

Proposals start in draft and are moved by admins, by their author
(activate), or by the voting window (sync):

	POST /proposals                  → CreateProposal
	POST /proposals/{addr}/state     → MoveState (admin)
	POST /proposals/{addr}/activate  → Activate (author or admin)
	POST /proposals/{addr}/window    → SetVotingWindow (admin)
	POST /proposals/{addr}/sync      → Sync (anyone)

Titles and comments are stripped of markup. Bodies arrive as markdown or as
editor HTML (body_html), which is sanitized and converted to markdown. The
stored body is the composed document "# title", "Author: 0x...", blank line,
body; detail responses include it parsed back into its parts.

# Errors

Registry errors map to statuses by their code:

	unauthorized, forbidden                           → 403
	unknown_proposal, unknown_comment                 → 404
	invalid_state, already_voted, already_initialized → 409
	zero_weight, invalid_*                            → 400
	oracle_unavailable                                → 502
	anything else                                     → 500

# Pagination

List endpoints accept offset, limit (default 20, at most 100) and reverse.
*/
package handlers
