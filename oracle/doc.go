// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package oracle provides token balance sources for registry gating.
//
// ERC1155 reads balanceOf from a contract over Ethereum JSON-RPC. Ledger is an
// in-memory multi-token ledger used for development and tests; it supports
// minting, batch minting and transfers so gated flows can be exercised
// without a node.
package oracle
