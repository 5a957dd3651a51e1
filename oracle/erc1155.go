// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package oracle

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

const balanceOfABI = `[{
	"name": "balanceOf",
	"type": "function",
	"stateMutability": "view",
	"inputs": [
		{"name": "account", "type": "address"},
		{"name": "id", "type": "uint256"}
	],
	"outputs": [{"name": "", "type": "uint256"}]
}]`

var ErrUnexpectedResult = errors.New("unexpected balanceOf result")

// ContractCaller executes read-only contract calls. *ethclient.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// ERC1155 reads balances from ERC-1155 contracts.
type ERC1155 struct {
	caller  ContractCaller
	abi     abi.ABI
	timeout time.Duration
	close   func()
}

// NewERC1155 wraps an existing caller. A zero timeout leaves calls bounded
// only by the caller's context.
func NewERC1155(caller ContractCaller, timeout time.Duration) (*ERC1155, error) {
	parsed, err := abi.JSON(strings.NewReader(balanceOfABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse balanceOf abi: %w", err)
	}
	return &ERC1155{caller: caller, abi: parsed, timeout: timeout, close: func() {}}, nil
}

// Dial connects to a JSON-RPC endpoint.
func Dial(ctx context.Context, rawURL string, timeout time.Duration) (*ERC1155, error) {
	client, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rawURL, err)
	}
	o, err := NewERC1155(client, timeout)
	if err != nil {
		client.Close()
		return nil, err
	}
	o.close = client.Close
	return o, nil
}

// BalanceOf calls balanceOf(account, id) on contract at the latest block.
func (o *ERC1155) BalanceOf(ctx context.Context, contract, account common.Address, id *big.Int) (*big.Int, error) {
	if id == nil {
		id = new(big.Int)
	}
	input, err := o.abi.Pack("balanceOf", account, id)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf: %w", err)
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	out, err := o.caller.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("balanceOf on %s: %w", contract.Hex(), err)
	}

	values, err := o.abi.Unpack("balanceOf", out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResult, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%w: %d values", ErrUnexpectedResult, len(values))
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedResult, values[0])
	}
	return balance, nil
}

// Close releases the RPC connection, if Dial opened one.
func (o *ERC1155) Close() {
	o.close()
}
