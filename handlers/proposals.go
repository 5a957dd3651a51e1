// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/govhub/content"
	"github.com/danielhkuo/govhub/ledger"
	"github.com/danielhkuo/govhub/middleware"
	"github.com/danielhkuo/govhub/models"
	"github.com/danielhkuo/govhub/registry"
)

type ProposalHandler struct {
	host    *ledger.Host
	content *content.Processor
}

func NewProposalHandler(host *ledger.Host, processor *content.Processor) *ProposalHandler {
	return &ProposalHandler{host: host, content: processor}
}

// CreateProposal handles POST /proposals
func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req models.CreateProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	title := strings.TrimSpace(h.content.StripTags(req.Title))
	body := strings.TrimSpace(h.content.StripTags(req.Body))
	if body == "" && req.BodyHTML != "" {
		converted, err := h.content.HTMLToMarkdown(req.BodyHTML)
		if err != nil {
			invalidInput(w, "body_html could not be converted")
			return
		}
		body = converted
	}

	doc := content.ComposeProposalMarkdown(title, caller.Hex(), body)
	proposal, err := h.host.CreateProposal(r.Context(), caller, title, doc, req.VoteStart, req.VoteEnd)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("proposal created", "proposal", proposal.Hex(), "author", caller.Hex())

	middleware.JSONResponse(w, http.StatusCreated, models.CreateProposalResponse{
		Proposal: proposal.Hex(),
	})
}

// ListProposals handles GET /proposals?state=&offset=&limit=&reverse=
func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	state, err := registry.ParseState(r.URL.Query().Get("state"))
	if err != nil {
		invalidInput(w, "state must be one of draft, open, active, closed")
		return
	}
	p, ok := parsePage(r)
	if !ok {
		invalidInput(w, "offset, limit and reverse must be non-negative integers and a boolean")
		return
	}

	views := h.host.ProposalPage(state, p.offset, p.limit, p.reverse)
	proposals := make([]models.Proposal, 0, len(views))
	for _, v := range views {
		proposals = append(proposals, proposalModel(v))
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProposalListResponse{
		State:     state.String(),
		Offset:    p.offset,
		Limit:     p.limit,
		Reverse:   p.reverse,
		Total:     h.host.Counts()[state],
		Proposals: proposals,
	})
}

// Counts handles GET /proposals/counts
func (h *ProposalHandler) Counts(w http.ResponseWriter, r *http.Request) {
	resp := models.CountsResponse{Counts: make(map[string]int, registry.NumStates)}
	for state, n := range h.host.Counts() {
		resp.Counts[state.String()] = n
	}
	resp.Total = h.host.TotalProposals()
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetProposal handles GET /proposals/{addr}
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	addr, ok := pathAddress(w, r, "addr")
	if !ok {
		return
	}
	view, err := h.host.Proposal(addr)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, proposalModel(view))
}

// MoveState handles POST /proposals/{addr}/state
func (h *ProposalHandler) MoveState(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	addr, ok := pathAddress(w, r, "addr")
	if !ok {
		return
	}
	var req models.MoveStateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	state, err := registry.ParseState(req.State)
	if err != nil {
		invalidInput(w, "state must be one of draft, open, active, closed")
		return
	}

	if err := h.host.AdminMoveState(r.Context(), caller, addr, state); err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.StateResponse{Proposal: addr.Hex(), State: state.String()})
}

// Activate handles POST /proposals/{addr}/activate
func (h *ProposalHandler) Activate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	addr, ok := pathAddress(w, r, "addr")
	if !ok {
		return
	}

	if err := h.host.Activate(r.Context(), caller, addr); err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.StateResponse{Proposal: addr.Hex(), State: registry.StateActive.String()})
}

// SetVotingWindow handles POST /proposals/{addr}/window
func (h *ProposalHandler) SetVotingWindow(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	addr, ok := pathAddress(w, r, "addr")
	if !ok {
		return
	}
	var req models.VotingWindowRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.host.SetVotingWindow(r.Context(), caller, addr, req.VoteStart, req.VoteEnd); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sync handles POST /proposals/{addr}/sync
func (h *ProposalHandler) Sync(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	addr, ok := pathAddress(w, r, "addr")
	if !ok {
		return
	}

	state, err := h.host.SyncProposalState(r.Context(), caller, addr)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.StateResponse{Proposal: addr.Hex(), State: state.String()})
}
