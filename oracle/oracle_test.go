// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package oracle

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/govhub/registry"
)

var (
	_ registry.TokenOracle = (*Ledger)(nil)
	_ registry.TokenOracle = (*ERC1155)(nil)
)

// chain answers balanceOf calls from a table, decoding the calldata with the
// same abi the oracle uses.
type chain struct {
	o        *ERC1155
	balances map[common.Address]int64
	err      error
	raw      []byte
	lastTo   common.Address
}

func (c *chain) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.raw != nil {
		return c.raw, nil
	}
	c.lastTo = *call.To
	method := c.o.abi.Methods["balanceOf"]
	args, err := method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}
	account := args[0].(common.Address)
	return method.Outputs.Pack(big.NewInt(c.balances[account]))
}

func newChainOracle(t *testing.T) (*ERC1155, *chain) {
	t.Helper()
	c := &chain{balances: map[common.Address]int64{}}
	o, err := NewERC1155(c, time.Second)
	require.NoError(t, err)
	c.o = o
	return o, c
}

func TestERC1155BalanceOf(t *testing.T) {
	o, c := newChainOracle(t)
	contract := common.HexToAddress("0x1155000000000000000000000000000000001155")
	holder := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	c.balances[holder] = 42

	got, err := o.BalanceOf(context.Background(), contract, holder, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Int64())
	assert.Equal(t, contract, c.lastTo)

	got, err = o.BalanceOf(context.Background(), contract, common.Address{}, nil)
	require.NoError(t, err)
	assert.Zero(t, got.Sign())
}

func TestERC1155Errors(t *testing.T) {
	o, c := newChainOracle(t)

	c.err = errors.New("connection refused")
	_, err := o.BalanceOf(context.Background(), common.Address{1}, common.Address{2}, big.NewInt(0))
	assert.ErrorContains(t, err, "connection refused")

	c.err = nil
	c.raw = []byte{0x01}
	_, err = o.BalanceOf(context.Background(), common.Address{1}, common.Address{2}, big.NewInt(0))
	assert.ErrorIs(t, err, ErrUnexpectedResult)
}

func TestERC1155GatesRegistry(t *testing.T) {
	o, c := newChainOracle(t)
	holder := common.HexToAddress("0xa1")
	c.balances[holder] = 1

	reg, err := registry.New(registry.Config{
		Address:   common.HexToAddress("0x100"),
		Roles:     registry.Roles{Creator: common.HexToAddress("0x1"), Multisig: common.HexToAddress("0x2"), Elected: [3]common.Address{common.HexToAddress("0x3"), common.HexToAddress("0x4"), common.HexToAddress("0x5")}},
		Templates: registry.Templates{Proposal: common.HexToAddress("0xf1"), Comment: common.HexToAddress("0xf2")},
		Token:     registry.TokenRequirement{Contract: common.HexToAddress("0x1155"), ID: big.NewInt(1)},
	}, o, registry.DefaultPolicy())
	require.NoError(t, err)

	assert.True(t, reg.HasToken(context.Background(), holder))
	assert.False(t, reg.HasToken(context.Background(), common.HexToAddress("0xb2")))
}

func TestLedgerMintAndTransfer(t *testing.T) {
	l := NewLedger()
	ctx := context.Background()
	token := common.HexToAddress("0x1155")
	alice, bob := common.HexToAddress("0xa"), common.HexToAddress("0xb")
	id := big.NewInt(1)

	require.NoError(t, l.Mint(token, alice, id, big.NewInt(10)))
	require.NoError(t, l.Transfer(token, alice, bob, id, big.NewInt(4)))

	balance, err := l.BalanceOf(ctx, token, alice, id)
	require.NoError(t, err)
	assert.Equal(t, int64(6), balance.Int64())
	balance, err = l.BalanceOf(ctx, token, bob, id)
	require.NoError(t, err)
	assert.Equal(t, int64(4), balance.Int64())

	// other ids and contracts are separate balances
	balance, err = l.BalanceOf(ctx, token, alice, big.NewInt(2))
	require.NoError(t, err)
	assert.Zero(t, balance.Sign())
	balance, err = l.BalanceOf(ctx, common.HexToAddress("0x721"), alice, id)
	require.NoError(t, err)
	assert.Zero(t, balance.Sign())

	err = l.Transfer(token, bob, alice, id, big.NewInt(5))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	err = l.Transfer(token, bob, common.Address{}, id, big.NewInt(1))
	assert.ErrorIs(t, err, ErrZeroRecipient)
	err = l.Transfer(token, bob, alice, id, big.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// draining a balance leaves zero, not a negative
	require.NoError(t, l.Transfer(token, bob, alice, id, big.NewInt(4)))
	balance, err = l.BalanceOf(ctx, token, bob, id)
	require.NoError(t, err)
	assert.Zero(t, balance.Sign())
}

func TestLedgerMintBatch(t *testing.T) {
	l := NewLedger()
	token := common.HexToAddress("0x1155")
	alice := common.HexToAddress("0xa")

	err := l.MintBatch(token, alice, []*big.Int{big.NewInt(1), big.NewInt(2)}, []*big.Int{big.NewInt(1)})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	err = l.MintBatch(token, alice, []*big.Int{big.NewInt(1), big.NewInt(2)}, []*big.Int{big.NewInt(3), big.NewInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	balance, _ := l.BalanceOf(context.Background(), token, alice, big.NewInt(1))
	assert.Zero(t, balance.Sign(), "a rejected batch credits nothing")

	err = l.MintBatch(token, common.Address{}, []*big.Int{big.NewInt(1)}, []*big.Int{big.NewInt(1)})
	assert.ErrorIs(t, err, ErrZeroRecipient)

	require.NoError(t, l.MintBatch(token, alice, []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(1)}, []*big.Int{big.NewInt(3), big.NewInt(5), big.NewInt(2)}))
	balance, _ = l.BalanceOf(context.Background(), token, alice, big.NewInt(1))
	assert.Equal(t, int64(5), balance.Int64())
	balance, _ = l.BalanceOf(context.Background(), token, alice, big.NewInt(2))
	assert.Equal(t, int64(5), balance.Int64())
}
