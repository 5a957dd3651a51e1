// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger hosts a registry the way a chain hosts a contract.

Every mutating call runs under one lock, so calls are totally ordered and
each one either commits completely or not at all. The host stamps each call
with its authenticated sender and the current time, persists the changed
entities through a Store, then publishes an event and records metrics.

	host, err := ledger.Open(ctx, store, genesisConfig, oracle, ledger.Options{})
	proposal, err := host.CreateProposal(ctx, sender, "Title", body, 0, 0)

If persisting fails the in-memory registry is rebuilt from the store, so
memory never runs ahead of what was committed.

Reads take a shared lock and see only committed state.
*/
package ledger
