// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package oracle

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrZeroRecipient       = errors.New("transfer to the zero address")
	ErrLengthMismatch      = errors.New("ids and amounts length mismatch")
)

type holding struct {
	contract common.Address
	account  common.Address
	id       string
}

// Ledger is an in-memory ERC-1155 style balance sheet covering any number of
// token contracts. It is safe for concurrent use.
type Ledger struct {
	mu       sync.RWMutex
	balances map[holding]*big.Int
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[holding]*big.Int)}
}

func key(contract, account common.Address, id *big.Int) holding {
	if id == nil {
		id = new(big.Int)
	}
	return holding{contract: contract, account: account, id: id.String()}
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Mint credits amount of token id to account.
func (l *Ledger) Mint(contract, to common.Address, id, amount *big.Int) error {
	return l.MintBatch(contract, to, []*big.Int{id}, []*big.Int{amount})
}

// MintBatch credits several token ids at once. Nothing is credited if any
// entry is invalid.
func (l *Ledger) MintBatch(contract, to common.Address, ids, amounts []*big.Int) error {
	if to == (common.Address{}) {
		return ErrZeroRecipient
	}
	if len(ids) != len(amounts) {
		return fmt.Errorf("%w: %d ids, %d amounts", ErrLengthMismatch, len(ids), len(amounts))
	}
	for _, a := range amounts {
		if err := checkAmount(a); err != nil {
			return err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i, id := range ids {
		l.add(key(contract, to, id), amounts[i])
	}
	return nil
}

// Transfer moves amount of token id between accounts.
func (l *Ledger) Transfer(contract, from, to common.Address, id, amount *big.Int) error {
	if to == (common.Address{}) {
		return ErrZeroRecipient
	}
	if err := checkAmount(amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	src := key(contract, from, id)
	have := l.balances[src]
	if have == nil || have.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s holds %v of %s", ErrInsufficientBalance, from.Hex(), have, src.id)
	}
	l.add(src, new(big.Int).Neg(amount))
	l.add(key(contract, to, id), amount)
	return nil
}

func (l *Ledger) add(k holding, delta *big.Int) {
	cur, ok := l.balances[k]
	if !ok {
		cur = new(big.Int)
		l.balances[k] = cur
	}
	cur.Add(cur, delta)
	if cur.Sign() == 0 {
		delete(l.balances, k)
	}
}

// BalanceOf implements registry.TokenOracle.
func (l *Ledger) BalanceOf(_ context.Context, contract, account common.Address, id *big.Int) (*big.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if b, ok := l.balances[key(contract, account, id)]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}
