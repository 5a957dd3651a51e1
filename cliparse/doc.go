// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: sqlite path or postgres connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - JWTSecret: Caller token signing secret (required)
  - GenesisPath: Deployment YAML, needed until a registry is stored
  - EthRPCURL: JSON-RPC endpoint for ERC-1155 balances
  - RedisURL, RedisStream: Event stream target
  - VoteWeight: flat or balance (default: flat)
  - EnforceVoteWindow: Reject votes outside the window (default: true)
  - SyncInterval: Voting window sweep period (default: 1m)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-g               Genesis file
	-rpc             Ethereum JSON-RPC URL
	-redis           Redis URL
	-stream          Redis stream
	-vote-weight     Vote weight policy
	-enforce-window  Voting window enforcement
	-sync-interval   Voting window sweep period
	-jwt-secret      Token secret
	-env             Dotenv file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	DATABASE_URL        → -d
	DATABASE_TYPE       → -t
	GENESIS_FILE        → -g
	ETH_RPC_URL         → -rpc
	REDIS_URL           → -redis
	REDIS_STREAM        → -stream
	VOTE_WEIGHT         → -vote-weight
	ENFORCE_VOTE_WINDOW → -enforce-window
	SYNC_INTERVAL       → -sync-interval
	JWT_SECRET          → -jwt-secret

CLI flags take precedence over environment variables, and the environment
takes precedence over the dotenv file.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - JWT_SECRET must be provided
  - DATABASE_TYPE, VOTE_WEIGHT, ENFORCE_VOTE_WINDOW and SYNC_INTERVAL must parse
*/
package cliparse
