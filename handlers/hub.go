// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/danielhkuo/govhub/ledger"
	"github.com/danielhkuo/govhub/middleware"
	"github.com/danielhkuo/govhub/models"
	"github.com/danielhkuo/govhub/registry"
)

type HubHandler struct {
	host *ledger.Host
}

func NewHubHandler(host *ledger.Host) *HubHandler {
	return &HubHandler{host: host}
}

// GetHub handles GET /hub
func (h *HubHandler) GetHub(w http.ResponseWriter, r *http.Request) {
	hub := h.host.Hub()
	policy := h.host.Policy()

	elected := make([]string, 0, registry.NumElectedAdmins)
	for _, e := range hub.Roles.Elected {
		elected = append(elected, e.Hex())
	}

	middleware.JSONResponse(w, http.StatusOK, models.HubResponse{
		Address:       hub.Address.Hex(),
		Creator:       hub.Roles.Creator.Hex(),
		Multisig:      hub.Roles.Multisig.Hex(),
		ElectedAdmins: elected,
		Templates: models.TemplatesRequest{
			ProposalTemplate: hub.Templates.Proposal.Hex(),
			CommentTemplate:  hub.Templates.Comment.Hex(),
		},
		Token: models.TokenRequirementRequest{
			Contract: hub.Token.Contract.Hex(),
			ID:       bigString(hub.Token.ID),
		},
		Gating: models.GatingRequest{
			Proposals: hub.Gates.Proposals,
			Comments:  hub.Gates.Comments,
			Votes:     hub.Gates.Votes,
		},
		Policy: models.VotePolicy{
			Weight:        string(policy.Weight),
			EnforceWindow: policy.EnforceWindow,
		},
		Counts: h.counts(),
	})
}

func (h *HubHandler) counts() models.CountsResponse {
	resp := models.CountsResponse{Counts: make(map[string]int, registry.NumStates)}
	for state, n := range h.host.Counts() {
		resp.Counts[state.String()] = n
		resp.Total += n
	}
	return resp
}

// IsAdmin handles GET /hub/admins/{addr}
func (h *HubHandler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	addr, ok := pathAddress(w, r, "addr")
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.AdminCheckResponse{
		Address: addr.Hex(),
		IsAdmin: h.host.IsAdmin(addr),
	})
}

// HasToken handles GET /hub/token/{addr}
func (h *HubHandler) HasToken(w http.ResponseWriter, r *http.Request) {
	addr, ok := pathAddress(w, r, "addr")
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.TokenCheckResponse{
		Address:  addr.Hex(),
		HasToken: h.host.HasToken(r.Context(), addr),
	})
}

// SetMultisig handles POST /hub/multisig
func (h *HubHandler) SetMultisig(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req models.AddressRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	multisig, ok := parseAddress(req.Address)
	if !ok {
		invalidInput(w, "address must be a hex address")
		return
	}

	if err := h.host.SetMultisig(r.Context(), caller, multisig); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetAllAdmins handles POST /hub/admins/reset
func (h *HubHandler) ResetAllAdmins(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req models.ResetAdminsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	creator, ok := parseAddress(req.Creator)
	if !ok {
		invalidInput(w, "creator must be a hex address")
		return
	}
	elected, ok := parseElected(req.ElectedAdmins)
	if !ok {
		invalidInput(w, "elected_admins must be "+strconv.Itoa(registry.NumElectedAdmins)+" hex addresses")
		return
	}

	if err := h.host.ResetAllAdmins(r.Context(), caller, creator, elected); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetElectedAdmins handles POST /hub/admins/elected
func (h *HubHandler) SetElectedAdmins(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req models.ElectedAdminsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	elected, ok := parseElected(req.ElectedAdmins)
	if !ok {
		invalidInput(w, "elected_admins must be "+strconv.Itoa(registry.NumElectedAdmins)+" hex addresses")
		return
	}

	if err := h.host.SetElectedAdmins(r.Context(), caller, elected); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetElectedAdmin handles POST /hub/admins/elected/{index}
func (h *HubHandler) SetElectedAdmin(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		invalidInput(w, "index must be an integer")
		return
	}
	var req models.AddressRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	admin, ok := parseAddress(req.Address)
	if !ok {
		invalidInput(w, "address must be a hex address")
		return
	}

	if err := h.host.SetElectedAdmin(r.Context(), caller, index, admin); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetTemplates handles POST /hub/templates
func (h *HubHandler) SetTemplates(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req models.TemplatesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	proposalTemplate, ok := parseAddress(req.ProposalTemplate)
	if !ok {
		invalidInput(w, "proposal_template must be a hex address")
		return
	}
	commentTemplate, ok := parseAddress(req.CommentTemplate)
	if !ok {
		invalidInput(w, "comment_template must be a hex address")
		return
	}

	if err := h.host.SetTemplates(r.Context(), caller, proposalTemplate, commentTemplate); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetTokenRequirement handles POST /hub/token-requirement
func (h *HubHandler) SetTokenRequirement(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req models.TokenRequirementRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	contract, ok := parseAddress(req.Contract)
	if !ok {
		invalidInput(w, "contract must be a hex address")
		return
	}
	id := new(big.Int)
	if req.ID != "" {
		if _, ok := id.SetString(req.ID, 10); !ok {
			invalidInput(w, "id must be a decimal integer")
			return
		}
	}

	if err := h.host.SetTokenRequirement(r.Context(), caller, contract, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetGating handles POST /hub/gating
func (h *HubHandler) SetGating(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	var req models.GatingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	gates := registry.Gates{Proposals: req.Proposals, Comments: req.Comments, Votes: req.Votes}
	if err := h.host.SetGating(r.Context(), caller, gates); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
