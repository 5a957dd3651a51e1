// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenOracle reports token balances held on an external token contract.
type TokenOracle interface {
	BalanceOf(ctx context.Context, contract, account common.Address, id *big.Int) (*big.Int, error)
}

// Gates switches token gating on per action.
type Gates struct {
	Proposals bool `json:"proposals"`
	Comments  bool `json:"comments"`
	Votes     bool `json:"votes"`
}

// TokenRequirement names the token a gated action requires. A zero contract
// means no token is configured and nobody holds one.
type TokenRequirement struct {
	Contract common.Address `json:"contract"`
	ID       *big.Int       `json:"id"`
}

func (t TokenRequirement) copy() TokenRequirement {
	id := new(big.Int)
	if t.ID != nil {
		id.Set(t.ID)
	}
	return TokenRequirement{Contract: t.Contract, ID: id}
}

// Gates returns the current gate flags.
func (r *Registry) Gates() Gates {
	return r.gates
}

// TokenRequirement returns the configured token contract and id.
func (r *Registry) TokenRequirement() TokenRequirement {
	return r.token.copy()
}

// SetTokenRequirement points gating at another token. A zero contract clears it.
func (r *Registry) SetTokenRequirement(tx Tx, contract common.Address, id *big.Int) error {
	if err := r.requireCreatorOrMultisig(tx, "set token requirement"); err != nil {
		return err
	}
	if id == nil || id.Sign() < 0 {
		return fmt.Errorf("%w: token id must be non-negative", ErrInvalidInput)
	}
	r.token = TokenRequirement{Contract: contract, ID: new(big.Int).Set(id)}
	r.touchHub()
	return nil
}

// SetGating sets all three gate flags. Only the multisig may call it.
func (r *Registry) SetGating(tx Tx, gates Gates) error {
	if err := r.requireMultisig(tx, "set gating"); err != nil {
		return err
	}
	r.gates = gates
	r.touchHub()
	return nil
}

// HasToken reports whether addr holds a positive balance of the configured token.
// An unset contract, a missing oracle or an oracle failure all count as no token.
func (r *Registry) HasToken(ctx context.Context, addr common.Address) bool {
	balance, err := r.balanceOf(ctx, addr)
	return err == nil && balance.Sign() > 0
}

func (r *Registry) balanceOf(ctx context.Context, addr common.Address) (*big.Int, error) {
	if isZero(r.token.Contract) || r.oracle == nil {
		return new(big.Int), nil
	}
	balance, err := r.oracle.BalanceOf(ctx, r.token.Contract, addr, r.token.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	if balance == nil || balance.Sign() < 0 {
		return new(big.Int), nil
	}
	return balance, nil
}

// checkGate enforces a gate flag against the caller's balance.
func (r *Registry) checkGate(ctx context.Context, enabled bool, addr common.Address, action string) error {
	if !enabled {
		return nil
	}
	balance, err := r.balanceOf(ctx, addr)
	if err != nil {
		return err
	}
	if balance.Sign() <= 0 {
		return fmt.Errorf("%w: %s by %s", ErrForbidden, action, addr.Hex())
	}
	return nil
}
