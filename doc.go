// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the govhub API server.

govhub is a token-gated governance registry. A registry keeps an
administrative role set (creator, multisig, three elected admins), creates
proposal and comment records, files every proposal in exactly one per-state
index (draft, open, active, closed) and tallies one vote per address.

# Starting the Server

	DATABASE_URL=govhub.db JWT_SECRET=... GENESIS_FILE=genesis.yaml go run .

The first start deploys a registry from the genesis file; later starts
restore it from the database and ignore the file.

# Caller Tokens

Writes act for the address in a bearer token. For local development:

	go run . token -addr 0x... -ttl 24h

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or postgres connection string
  - JWT_SECRET (-jwt-secret): caller token secret
  - GENESIS_FILE (-g): on first start only

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ETH_RPC_URL (-rpc): read ERC-1155 balances from a chain instead of the in-memory ledger
  - REDIS_URL, REDIS_STREAM: publish committed operations to a Redis stream
  - VOTE_WEIGHT: flat or balance (default: flat)
  - ENFORCE_VOTE_WINDOW: reject votes outside the voting window (default: true)
  - SYNC_INTERVAL: voting window sweep period (default: 1m)

# Architecture

  - registry: roles, gating, proposal and comment records, per-state indices
  - ledger: serializes operations, commits them, publishes events, metrics
  - oracle: ERC-1155 balance lookups and the in-memory token ledger
  - db: schema and snapshot store
  - events: Redis stream publisher
  - content: sanitizing and markdown conversion
  - genesis: deployment file
  - handlers, router, middleware, models: HTTP API
  - auth: caller tokens
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
