// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types and the driver registered for each.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Connect opens and pings a database of the given type.
func Connect(ctx context.Context, dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case TypeSQLite, "":
		driver = "sqlite"
	case TypePostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == "sqlite" {
		// a single writer avoids SQLITE_BUSY between pooled connections
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS hub_config (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    address TEXT NOT NULL,
    creator TEXT NOT NULL,
    multisig TEXT NOT NULL,
    elected_admin_0 TEXT NOT NULL,
    elected_admin_1 TEXT NOT NULL,
    elected_admin_2 TEXT NOT NULL,
    proposal_template TEXT NOT NULL,
    comment_template TEXT NOT NULL,
    token_contract TEXT NOT NULL,
    token_id TEXT NOT NULL,
    gate_proposals BOOLEAN NOT NULL,
    gate_comments BOOLEAN NOT NULL,
    gate_votes BOOLEAN NOT NULL,
    nonce BIGINT NOT NULL,
    seq BIGINT NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS proposal_record (
    address TEXT PRIMARY KEY,
    template TEXT NOT NULL,
    owner_hub TEXT NOT NULL,
    state SMALLINT NOT NULL CHECK (state >= 0 AND state <= 3),
    index_seq BIGINT NOT NULL,
    title TEXT NOT NULL,
    author TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    vote_start BIGINT NOT NULL,
    vote_end BIGINT NOT NULL,
    votes_for TEXT NOT NULL,
    votes_against TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_proposal_record_state ON proposal_record(state, index_seq)`,

	`CREATE TABLE IF NOT EXISTS proposal_ballot (
    proposal TEXT NOT NULL REFERENCES proposal_record(address) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    voter TEXT NOT NULL,
    support BOOLEAN NOT NULL,
    weight TEXT NOT NULL,
    cast_at BIGINT NOT NULL,
    PRIMARY KEY (proposal, position),
    UNIQUE (proposal, voter)
)`,

	`CREATE TABLE IF NOT EXISTS proposal_comment (
    proposal TEXT NOT NULL REFERENCES proposal_record(address) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    comment TEXT NOT NULL,
    PRIMARY KEY (proposal, position)
)`,

	`CREATE TABLE IF NOT EXISTS comment_record (
    address TEXT PRIMARY KEY,
    template TEXT NOT NULL,
    owner_hub TEXT NOT NULL,
    proposal TEXT NOT NULL REFERENCES proposal_record(address) ON DELETE CASCADE,
    author TEXT NOT NULL,
    content TEXT NOT NULL,
    sentiment SMALLINT NOT NULL,
    created_at BIGINT NOT NULL,
    deleted BOOLEAN NOT NULL DEFAULT FALSE
)`,
	`CREATE INDEX IF NOT EXISTS idx_comment_record_proposal ON comment_record(proposal)`,
}
