// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/danielhkuo/govhub/content"
	"github.com/danielhkuo/govhub/middleware"
	"github.com/danielhkuo/govhub/models"
	"github.com/danielhkuo/govhub/registry"
	"github.com/danielhkuo/govhub/testutil"
)

type fixture struct {
	env       *testutil.Env
	hub       *HubHandler
	proposals *ProposalHandler
	comments  *CommentHandler
	voting    *VotingHandler
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithPolicy(t, registry.DefaultPolicy())
}

func newFixtureWithPolicy(t *testing.T, policy registry.Policy) *fixture {
	env := testutil.NewEnvWithPolicy(t, policy)
	processor := content.NewProcessor()
	return &fixture{
		env:       env,
		hub:       NewHubHandler(env.Host),
		proposals: NewProposalHandler(env.Host, processor),
		comments:  NewCommentHandler(env.Host, processor),
		voting:    NewVotingHandler(env.Host),
	}
}

// do runs h with the given path values. Requests carrying a bearer token go
// through WithCaller the way the router wires mutating routes.
func do(h http.HandlerFunc, req *http.Request, pathValues ...string) *httptest.ResponseRecorder {
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	if req.Header.Get("Authorization") != "" {
		h = middleware.WithCaller([]byte(testutil.TestSecret), h)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

// as builds an authenticated request.
func as(t *testing.T, caller common.Address, method, path string, body interface{}) *http.Request {
	return testutil.MakeRequest(method, path, body, testutil.AuthHeader(t, caller))
}

// assertCode checks the status and error code of a failed request.
func assertCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	testutil.AssertStatus(t, w, status)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Code != code {
		t.Errorf("Expected code %q, got %q (%s)", code, resp.Code, resp.Message)
	}
}

// createProposal posts a markdown proposal and returns its address.
func (f *fixture) createProposal(t *testing.T, author common.Address, title string) common.Address {
	t.Helper()
	w := do(f.proposals.CreateProposal, as(t, author, "POST", "/proposals", models.CreateProposalRequest{
		Title: title,
		Body:  "Spend the treasury on " + title + ".",
	}))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.CreateProposalResponse
	testutil.AssertJSON(t, w, &resp)
	return common.HexToAddress(resp.Proposal)
}
