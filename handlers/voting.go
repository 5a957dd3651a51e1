// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/govhub/ledger"
	"github.com/danielhkuo/govhub/middleware"
	"github.com/danielhkuo/govhub/models"
)

type VotingHandler struct {
	host *ledger.Host
}

func NewVotingHandler(host *ledger.Host) *VotingHandler {
	return &VotingHandler{host: host}
}

// CastVote handles POST /proposals/{addr}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	proposal, ok := pathAddress(w, r, "addr")
	if !ok {
		return
	}
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Support == nil {
		invalidInput(w, "support is required")
		return
	}

	weight, err := h.host.CastVote(r.Context(), caller, proposal, *req.Support)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("vote cast", "proposal", proposal.Hex(), "voter", caller.Hex(), "support", *req.Support, "weight", weight)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Proposal: proposal.Hex(),
		Support:  *req.Support,
		Weight:   bigString(weight),
	})
}

// GetVotes handles GET /proposals/{addr}/votes
func (h *VotingHandler) GetVotes(w http.ResponseWriter, r *http.Request) {
	proposal, ok := pathAddress(w, r, "addr")
	if !ok {
		return
	}
	view, err := h.host.Proposal(proposal)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VotesResponse{
		Proposal:     proposal.Hex(),
		State:        view.State.String(),
		VotesFor:     bigString(view.VotesFor),
		VotesAgainst: bigString(view.VotesAgainst),
		Ballots:      ballotModels(view.Ballots),
	})
}
