// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package genesis reads the deployment file a registry is bootstrapped from.
//
// A minimal file names the role holders; everything else has a default:
//
//	creator: "0x..."
//	multisig: "0x..."
//	elected_admins: ["0x...", "0x...", "0x..."]
//
// Omitted template and registry addresses are derived from the creator in
// deployment order: proposal template, comment template, registry.
package genesis

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/govhub/oracle"
	"github.com/danielhkuo/govhub/registry"
)

var ErrInvalidGenesis = errors.New("invalid genesis")

type file struct {
	Registry      string   `yaml:"registry"`
	Creator       string   `yaml:"creator"`
	Multisig      string   `yaml:"multisig"`
	ElectedAdmins []string `yaml:"elected_admins"`
	Templates     struct {
		Proposal string `yaml:"proposal"`
		Comment  string `yaml:"comment"`
	} `yaml:"templates"`
	Token struct {
		Contract string `yaml:"contract"`
		ID       string `yaml:"id"`
	} `yaml:"token"`
	Gates struct {
		Proposals bool `yaml:"proposals"`
		Comments  bool `yaml:"comments"`
		Votes     bool `yaml:"votes"`
	} `yaml:"gates"`
	Balances []struct {
		Contract string `yaml:"contract"`
		Account  string `yaml:"account"`
		ID       string `yaml:"id"`
		Amount   string `yaml:"amount"`
	} `yaml:"balances"`
}

// Balance is an initial token holding for the in-memory ledger.
type Balance struct {
	Contract common.Address
	Account  common.Address
	ID       *big.Int
	Amount   *big.Int
}

// Genesis is a validated deployment description.
type Genesis struct {
	Config   registry.Config
	Balances []Balance
}

// Load reads and validates a genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis file: %w", err)
	}
	return Parse(data)
}

// Parse validates a genesis document.
func Parse(data []byte) (*Genesis, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGenesis, err)
	}

	var g Genesis
	var err error
	cfg := &g.Config

	if cfg.Roles.Creator, err = address("creator", f.Creator); err != nil {
		return nil, err
	}
	if cfg.Roles.Multisig, err = address("multisig", f.Multisig); err != nil {
		return nil, err
	}
	if len(f.ElectedAdmins) != registry.NumElectedAdmins {
		return nil, fmt.Errorf("%w: need exactly %d elected_admins, got %d", ErrInvalidGenesis, registry.NumElectedAdmins, len(f.ElectedAdmins))
	}
	for i, e := range f.ElectedAdmins {
		if cfg.Roles.Elected[i], err = address(fmt.Sprintf("elected_admins[%d]", i), e); err != nil {
			return nil, err
		}
	}

	creator := cfg.Roles.Creator
	if cfg.Templates.Proposal, err = addressOr("templates.proposal", f.Templates.Proposal, crypto.CreateAddress(creator, 0)); err != nil {
		return nil, err
	}
	if cfg.Templates.Comment, err = addressOr("templates.comment", f.Templates.Comment, crypto.CreateAddress(creator, 1)); err != nil {
		return nil, err
	}
	if cfg.Address, err = addressOr("registry", f.Registry, crypto.CreateAddress(creator, 2)); err != nil {
		return nil, err
	}

	if f.Token.Contract != "" {
		if cfg.Token.Contract, err = address("token.contract", f.Token.Contract); err != nil {
			return nil, err
		}
	}
	if cfg.Token.ID, err = amount("token.id", f.Token.ID, true); err != nil {
		return nil, err
	}
	cfg.Gates = registry.Gates{Proposals: f.Gates.Proposals, Comments: f.Gates.Comments, Votes: f.Gates.Votes}

	for i, b := range f.Balances {
		field := fmt.Sprintf("balances[%d]", i)
		var bal Balance
		bal.Contract = cfg.Token.Contract
		if b.Contract != "" {
			if bal.Contract, err = address(field+".contract", b.Contract); err != nil {
				return nil, err
			}
		}
		if bal.Contract == (common.Address{}) {
			return nil, fmt.Errorf("%w: %s has no contract and token.contract is unset", ErrInvalidGenesis, field)
		}
		if bal.Account, err = address(field+".account", b.Account); err != nil {
			return nil, err
		}
		if bal.ID, err = amount(field+".id", b.ID, true); err != nil {
			return nil, err
		}
		if b.ID == "" {
			bal.ID = new(big.Int).Set(cfg.Token.ID)
		}
		if bal.Amount, err = amount(field+".amount", b.Amount, false); err != nil {
			return nil, err
		}
		g.Balances = append(g.Balances, bal)
	}

	return &g, nil
}

// Seed mints the genesis balances into an in-memory ledger.
func (g *Genesis) Seed(l *oracle.Ledger) error {
	for _, b := range g.Balances {
		if err := l.Mint(b.Contract, b.Account, b.ID, b.Amount); err != nil {
			return fmt.Errorf("failed to seed balance of %s: %w", b.Account.Hex(), err)
		}
	}
	return nil
}

func address(field, v string) (common.Address, error) {
	if !common.IsHexAddress(v) {
		return common.Address{}, fmt.Errorf("%w: %s %q is not an address", ErrInvalidGenesis, field, v)
	}
	a := common.HexToAddress(v)
	if a == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %s is the zero address", ErrInvalidGenesis, field)
	}
	return a, nil
}

func addressOr(field, v string, fallback common.Address) (common.Address, error) {
	if v == "" {
		return fallback, nil
	}
	return address(field, v)
}

// amount parses a non-negative decimal. Empty means zero when allowZero is set.
func amount(field, v string, allowZero bool) (*big.Int, error) {
	if v == "" {
		v = "0"
	}
	n, ok := new(big.Int).SetString(v, 10)
	if !ok || n.Sign() < 0 || (!allowZero && n.Sign() == 0) {
		return nil, fmt.Errorf("%w: %s %q", ErrInvalidGenesis, field, v)
	}
	return n, nil
}
