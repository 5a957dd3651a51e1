// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/govhub/cliparse"
	"github.com/danielhkuo/govhub/content"
	"github.com/danielhkuo/govhub/handlers"
	"github.com/danielhkuo/govhub/ledger"
	"github.com/danielhkuo/govhub/middleware"
)

func NewRouter(host *ledger.Host, cfg cliparse.Config, processor *content.Processor) *http.ServeMux {
	mux := http.NewServeMux()
	secret := []byte(cfg.JWTSecret)

	// Initialize handlers
	hubHandler := handlers.NewHubHandler(host)
	proposalHandler := handlers.NewProposalHandler(host, processor)
	commentHandler := handlers.NewCommentHandler(host, processor)
	votingHandler := handlers.NewVotingHandler(host)

	public := middleware.WithLogging
	caller := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithCaller(secret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	metrics := prometheus.NewRegistry()
	metrics.MustRegister(ledger.Collectors()...)
	metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics, promhttp.HandlerOpts{}))

	// Hub configuration
	mux.HandleFunc("GET /hub", public(hubHandler.GetHub))
	mux.HandleFunc("GET /hub/admins/{addr}", public(hubHandler.IsAdmin))
	mux.HandleFunc("GET /hub/token/{addr}", public(hubHandler.HasToken))
	mux.HandleFunc("POST /hub/multisig", caller(hubHandler.SetMultisig))
	mux.HandleFunc("POST /hub/admins/reset", caller(hubHandler.ResetAllAdmins))
	mux.HandleFunc("POST /hub/admins/elected", caller(hubHandler.SetElectedAdmins))
	mux.HandleFunc("POST /hub/admins/elected/{index}", caller(hubHandler.SetElectedAdmin))
	mux.HandleFunc("POST /hub/templates", caller(hubHandler.SetTemplates))
	mux.HandleFunc("POST /hub/token-requirement", caller(hubHandler.SetTokenRequirement))
	mux.HandleFunc("POST /hub/gating", caller(hubHandler.SetGating))

	// Proposals
	mux.HandleFunc("POST /proposals", caller(proposalHandler.CreateProposal))
	mux.HandleFunc("GET /proposals", public(proposalHandler.ListProposals))
	mux.HandleFunc("GET /proposals/counts", public(proposalHandler.Counts))
	mux.HandleFunc("GET /proposals/{addr}", public(proposalHandler.GetProposal))
	mux.HandleFunc("POST /proposals/{addr}/state", caller(proposalHandler.MoveState))
	mux.HandleFunc("POST /proposals/{addr}/activate", caller(proposalHandler.Activate))
	mux.HandleFunc("POST /proposals/{addr}/window", caller(proposalHandler.SetVotingWindow))
	mux.HandleFunc("POST /proposals/{addr}/sync", caller(proposalHandler.Sync))

	// Discussion
	mux.HandleFunc("GET /proposals/{addr}/comments", public(commentHandler.ListComments))
	mux.HandleFunc("POST /proposals/{addr}/comments", caller(commentHandler.AddComment))
	mux.HandleFunc("DELETE /proposals/{addr}/comments/{comment}", caller(commentHandler.DeleteComment))
	mux.HandleFunc("GET /comments/{addr}", public(commentHandler.GetComment))

	// Voting
	mux.HandleFunc("POST /proposals/{addr}/votes", caller(votingHandler.CastVote))
	mux.HandleFunc("GET /proposals/{addr}/votes", public(votingHandler.GetVotes))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("govhub API v1"))
	})

	return mux
}
