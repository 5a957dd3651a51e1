// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registry implements the governance hub: an access-controlled registry
of proposals and their comment threads.

# Records

Proposals and comments are independent records with their own address,
derived from the registry address and a nonce. Each record is built in two
phases, constructed and then initialized exactly once, and after that only
accepts protected mutations from its owner hub:

	p := registry.NewProposalRecord(addr, template)
	err := p.Initialize(hub, "Title", author, "Body", now, 0, 0)

# Roles

A registry has a creator, a multisig controller and three elected admins.
Any of them is an admin. The multisig rotates itself and replaces the other
roles; the creator and the multisig manage templates and the token
requirement; only the multisig toggles gating and deletes comments.

# Lifecycle

Proposals move through DRAFT, OPEN, ACTIVE and CLOSED. Admins may move a
proposal between any two states. Each state keeps an ordered index that can
be paged from either end:

	newest := reg.Proposals(registry.StateOpen, 0, 10, true)

Comments are accepted only while a proposal is OPEN or ACTIVE, votes only
while it is ACTIVE.

# Gating

Proposals, comments and votes can each be gated on holding a positive
balance of a token, read through a TokenOracle.

# Errors

Every rejection wraps one of the Err* sentinels; test with errors.Is.
A rejected call never leaves a partial change behind.

# Concurrency

A Registry is not safe for concurrent use. The ledger package serializes
calls and persists TakeChanges after each successful one.
*/
package registry
