// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db persists registry state in sqlite or postgres.

# Connecting

Connect opens a database by type and CreateSchema initializes all tables:

	conn, err := db.Connect(ctx, db.TypeSQLite, "govhub.db")
	if err != nil {
		log.Fatal(err)
	}
	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - hub_config: the single registry row (roles, templates, token, gates, counters)
  - proposal_record: proposal metadata, tallies, state and index position
  - proposal_ballot: accepted votes, in cast order
  - proposal_comment: comment references of a proposal, in append order
  - comment_record: comment content and deleted flag

Addresses are stored as checksummed hex, token amounts and ids as decimal
text, times as unix seconds.

# Relationships

	proposal_record 1──* proposal_ballot
	proposal_record 1──* proposal_comment
	proposal_record 1──* comment_record

# Store

Store.Commit upserts a registry.Snapshot in one transaction; ballots and
comment references are append-only and only inserted. Store.Load reads the
whole state back for registry.Restore.
*/
package db
