// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import "github.com/ethereum/go-ethereum/common"

// pageBounds returns how many entries to skip from the walking end and how many
// to take, for a sequence of length n.
func pageBounds(n, offset, limit int) (skip, take int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= n {
		return 0, 0
	}
	take = n - offset
	if take > limit {
		take = limit
	}
	return offset, take
}

// paginate walks items oldest-to-newest, or newest-to-oldest when reverse is set.
func paginate(items []common.Address, offset, limit int, reverse bool) []common.Address {
	skip, take := pageBounds(len(items), offset, limit)
	out := make([]common.Address, 0, take)
	for i := 0; i < take; i++ {
		if reverse {
			out = append(out, items[len(items)-1-skip-i])
		} else {
			out = append(out, items[skip+i])
		}
	}
	return out
}
