// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /hub", middleware.WithLogging(handler))

Every request gets a request_id, taken from X-Request-ID when the client
sent one and generated otherwise. The id is echoed in the response header,
stored in the request context (RequestID) and attached to the start and
completion log lines along with status and duration_ms.

# Caller Authentication

Mutating routes act for the address in a bearer token:

	mux.HandleFunc("POST /proposals", middleware.WithLogging(
		middleware.WithCaller(secret, handler)))

	caller, _ := middleware.CallerFrom(r.Context())

Missing or invalid tokens are answered with 401 and code "unauthenticated"
before the handler runs.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ErrorCodeResponse(w, http.StatusConflict, "already_voted", "message")

	var req models.CreateProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

GetClientIP honours X-Forwarded-For and X-Real-IP before RemoteAddr. It is
logged as "remote" with every request.
*/
package middleware
