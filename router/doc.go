// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the govhub API.

# Route Registration

	mux := router.NewRouter(host, cfg, content.NewProcessor())

Every route except /health and /metrics is wrapped in request logging.
Write routes also require a caller token (see middleware.WithCaller).

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Hub:

	GET  /hub                          - Roles, templates, gating, counts
	GET  /hub/admins/{addr}            - Is addr an admin
	GET  /hub/token/{addr}             - Does addr hold the gating token
	POST /hub/multisig                 - Rotate the multisig (multisig)
	POST /hub/admins/reset             - Replace creator and elected admins (multisig)
	POST /hub/admins/elected           - Replace elected admins (multisig)
	POST /hub/admins/elected/{index}   - Replace one elected admin (multisig)
	POST /hub/templates                - Set record templates (creator or multisig)
	POST /hub/token-requirement        - Set gating token (creator or multisig)
	POST /hub/gating                   - Toggle gates (multisig)

Proposals:

	POST /proposals                    - Create (gated)
	GET  /proposals?state=             - Page through one state
	GET  /proposals/counts             - Counts by state
	GET  /proposals/{addr}             - Details
	POST /proposals/{addr}/state       - Move to any state (admin)
	POST /proposals/{addr}/activate    - Move to active (author or admin)
	POST /proposals/{addr}/window      - Set voting window (admin)
	POST /proposals/{addr}/sync        - Advance by voting window

Discussion and voting:

	GET    /proposals/{addr}/comments            - Page through comments
	POST   /proposals/{addr}/comments            - Comment (gated)
	DELETE /proposals/{addr}/comments/{comment}  - Soft delete (multisig)
	GET    /comments/{addr}                      - Comment details
	POST   /proposals/{addr}/votes               - Vote (gated)
	GET    /proposals/{addr}/votes               - Tallies and ballots
*/
package router
