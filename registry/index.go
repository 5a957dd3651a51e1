// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"container/list"

	"github.com/ethereum/go-ethereum/common"
)

type indexEntry struct {
	addr common.Address
	seq  uint64
}

// stateIndex keeps insertion order for one proposal state. Elements are looked
// up by address so a move between states never scans the list.
type stateIndex struct {
	order *list.List
	pos   map[common.Address]*list.Element
}

func newStateIndex() *stateIndex {
	return &stateIndex{
		order: list.New(),
		pos:   make(map[common.Address]*list.Element),
	}
}

func (ix *stateIndex) push(addr common.Address, seq uint64) {
	ix.pos[addr] = ix.order.PushBack(indexEntry{addr: addr, seq: seq})
}

func (ix *stateIndex) remove(addr common.Address) bool {
	el, ok := ix.pos[addr]
	if !ok {
		return false
	}
	ix.order.Remove(el)
	delete(ix.pos, addr)
	return true
}

func (ix *stateIndex) contains(addr common.Address) bool {
	_, ok := ix.pos[addr]
	return ok
}

func (ix *stateIndex) len() int {
	return ix.order.Len()
}

func (ix *stateIndex) page(offset, limit int, reverse bool) []common.Address {
	skip, take := pageBounds(ix.order.Len(), offset, limit)
	out := make([]common.Address, 0, take)

	el := ix.order.Front()
	if reverse {
		el = ix.order.Back()
	}
	step := func(e *list.Element) *list.Element {
		if reverse {
			return e.Prev()
		}
		return e.Next()
	}

	for i := 0; i < skip && el != nil; i++ {
		el = step(el)
	}
	for ; el != nil && len(out) < take; el = step(el) {
		out = append(out, el.Value.(indexEntry).addr)
	}
	return out
}
