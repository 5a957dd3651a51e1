// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/govhub/content"
	"github.com/danielhkuo/govhub/ledger"
	"github.com/danielhkuo/govhub/middleware"
	"github.com/danielhkuo/govhub/models"
	"github.com/danielhkuo/govhub/registry"
)

type CommentHandler struct {
	host    *ledger.Host
	content *content.Processor
}

func NewCommentHandler(host *ledger.Host, processor *content.Processor) *CommentHandler {
	return &CommentHandler{host: host, content: processor}
}

// AddComment handles POST /proposals/{addr}/comments
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	proposal, ok := pathAddress(w, r, "addr")
	if !ok {
		return
	}
	var req models.CreateCommentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	text := strings.TrimSpace(h.content.StripTags(req.Content))
	sentiment := registry.SentimentUnspecified
	if req.Sentiment != "" {
		var err error
		if sentiment, err = registry.ParseSentiment(req.Sentiment); err != nil {
			writeError(w, r, err)
			return
		}
	}

	comment, err := h.host.AddComment(r.Context(), caller, proposal, text, sentiment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, models.CreateCommentResponse{Comment: comment.Hex()})
}

// ListComments handles GET /proposals/{addr}/comments?offset=&limit=&reverse=
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	proposal, ok := pathAddress(w, r, "addr")
	if !ok {
		return
	}
	p, ok := parsePage(r)
	if !ok {
		invalidInput(w, "offset, limit and reverse must be non-negative integers and a boolean")
		return
	}

	view, err := h.host.Proposal(proposal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views, err := h.host.CommentPage(proposal, p.offset, p.limit, p.reverse)
	if err != nil {
		writeError(w, r, err)
		return
	}

	comments := make([]models.Comment, 0, len(views))
	for _, v := range views {
		comments = append(comments, commentModel(v))
	}
	middleware.JSONResponse(w, http.StatusOK, models.CommentListResponse{
		Proposal: proposal.Hex(),
		Offset:   p.offset,
		Limit:    p.limit,
		Reverse:  p.reverse,
		Total:    len(view.Comments),
		Comments: comments,
	})
}

// GetComment handles GET /comments/{addr}
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	addr, ok := pathAddress(w, r, "addr")
	if !ok {
		return
	}
	view, err := h.host.Comment(addr)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, commentModel(view))
}

// DeleteComment handles DELETE /proposals/{addr}/comments/{comment}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}
	proposal, ok := pathAddress(w, r, "addr")
	if !ok {
		return
	}
	comment, ok := pathAddress(w, r, "comment")
	if !ok {
		return
	}

	if err := h.host.AdminDeleteComment(r.Context(), caller, proposal, comment); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
