// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/govhub/content"
	"github.com/danielhkuo/govhub/middleware"
	"github.com/danielhkuo/govhub/models"
	"github.com/danielhkuo/govhub/registry"
)

// Page sizes for list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// StatusForCode maps a registry error code to its HTTP status.
func StatusForCode(code string) int {
	switch code {
	case "unauthorized", "forbidden":
		return http.StatusForbidden
	case "unknown_proposal", "unknown_comment":
		return http.StatusNotFound
	case "invalid_state", "already_voted", "already_initialized":
		return http.StatusConflict
	case "zero_weight", "invalid_owner", "invalid_proposal", "invalid_address", "invalid_input":
		return http.StatusBadRequest
	case "oracle_unavailable":
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError answers a failed registry operation.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := registry.ErrorCode(err)
	status := StatusForCode(code)
	if status == http.StatusInternalServerError {
		slog.Error("operation failed", "request_id", middleware.RequestID(r.Context()), "path", r.URL.Path, "error", err)
		middleware.ErrorCodeResponse(w, status, code, "internal error")
		return
	}
	middleware.ErrorCodeResponse(w, status, code, err.Error())
}

func invalidInput(w http.ResponseWriter, message string) {
	middleware.ErrorCodeResponse(w, http.StatusBadRequest, "invalid_input", message)
}

// callerOf returns the authenticated caller. Routes that reach a mutating
// handler are wrapped in WithCaller, so a missing caller is a wiring bug.
func callerOf(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		middleware.ErrorCodeResponse(w, http.StatusUnauthorized, "unauthenticated", "caller token required")
	}
	return caller, ok
}

func parseAddress(s string) (common.Address, bool) {
	if !common.IsHexAddress(s) {
		return common.Address{}, false
	}
	return common.HexToAddress(s), true
}

// pathAddress reads an address path parameter, answering 400 when malformed.
func pathAddress(w http.ResponseWriter, r *http.Request, name string) (common.Address, bool) {
	addr, ok := parseAddress(r.PathValue(name))
	if !ok {
		invalidInput(w, name+" must be a hex address")
	}
	return addr, ok
}

// parseElected reads exactly NumElectedAdmins addresses.
func parseElected(raw []string) ([registry.NumElectedAdmins]common.Address, bool) {
	var elected [registry.NumElectedAdmins]common.Address
	if len(raw) != registry.NumElectedAdmins {
		return elected, false
	}
	for i, s := range raw {
		addr, ok := parseAddress(s)
		if !ok {
			return elected, false
		}
		elected[i] = addr
	}
	return elected, true
}

type page struct {
	offset, limit int
	reverse       bool
}

// parsePage reads offset, limit and reverse from the query string.
func parsePage(r *http.Request) (page, bool) {
	q := r.URL.Query()
	p := page{limit: DefaultPageSize}
	var err error
	if v := q.Get("offset"); v != "" {
		if p.offset, err = strconv.Atoi(v); err != nil || p.offset < 0 {
			return p, false
		}
	}
	if v := q.Get("limit"); v != "" {
		if p.limit, err = strconv.Atoi(v); err != nil || p.limit < 0 {
			return p, false
		}
	}
	if p.limit > MaxPageSize {
		p.limit = MaxPageSize
	}
	if v := q.Get("reverse"); v != "" {
		if p.reverse, err = strconv.ParseBool(v); err != nil {
			return p, false
		}
	}
	return p, true
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func proposalModel(v registry.ProposalView) models.Proposal {
	return models.Proposal{
		Address:      v.Address.Hex(),
		State:        v.State.String(),
		Title:        v.Title,
		Author:       v.Author.Hex(),
		Body:         v.Body,
		Document:     content.ParseProposalMarkdown(v.Body),
		CreatedAt:    v.CreatedAt,
		VoteStart:    v.VoteStart,
		VoteEnd:      v.VoteEnd,
		VotesFor:     bigString(v.VotesFor),
		VotesAgainst: bigString(v.VotesAgainst),
		BallotCount:  len(v.Ballots),
		CommentCount: len(v.Comments),
	}
}

func commentModel(v registry.CommentView) models.Comment {
	return models.Comment{
		Address:   v.Address.Hex(),
		Proposal:  v.Proposal.Hex(),
		Author:    v.Author.Hex(),
		Content:   v.Content,
		Sentiment: v.Sentiment.String(),
		CreatedAt: v.CreatedAt,
		Deleted:   v.Deleted,
	}
}

func ballotModels(ballots []registry.Ballot) []models.Ballot {
	out := make([]models.Ballot, 0, len(ballots))
	for _, b := range ballots {
		out = append(out, models.Ballot{
			Voter:   b.Voter.Hex(),
			Support: b.Support,
			Weight:  bigString(b.Weight),
			CastAt:  b.CastAt,
		})
	}
	return out
}
