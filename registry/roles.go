// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// NumElectedAdmins is the fixed size of the elected admin set.
const NumElectedAdmins = 3

// Roles is the administrative role set of a registry.
type Roles struct {
	Creator  common.Address                   `json:"creator"`
	Multisig common.Address                   `json:"multisig"`
	Elected  [NumElectedAdmins]common.Address `json:"elected_admins"`
}

// IsAdmin reports whether addr holds any administrative role.
func (r Roles) IsAdmin(addr common.Address) bool {
	if isZero(addr) {
		return false
	}
	if addr == r.Creator || addr == r.Multisig {
		return true
	}
	for _, e := range r.Elected {
		if addr == e {
			return true
		}
	}
	return false
}

func (r Roles) validate() error {
	if isZero(r.Creator) {
		return fmt.Errorf("%w: creator", ErrInvalidAddress)
	}
	if isZero(r.Multisig) {
		return fmt.Errorf("%w: multisig", ErrInvalidAddress)
	}
	return validateElected(r.Elected)
}

func validateElected(elected [NumElectedAdmins]common.Address) error {
	for i, e := range elected {
		if isZero(e) {
			return fmt.Errorf("%w: elected admin %d", ErrInvalidAddress, i)
		}
	}
	return nil
}

func isZero(addr common.Address) bool {
	return addr == (common.Address{})
}

func (r *Registry) requireMultisig(tx Tx, action string) error {
	if tx.Sender != r.roles.Multisig || isZero(tx.Sender) {
		return fmt.Errorf("%w: %s requires the multisig, got %s", ErrUnauthorized, action, tx.Sender.Hex())
	}
	return nil
}

func (r *Registry) requireCreatorOrMultisig(tx Tx, action string) error {
	if isZero(tx.Sender) || (tx.Sender != r.roles.Creator && tx.Sender != r.roles.Multisig) {
		return fmt.Errorf("%w: %s requires the creator or the multisig, got %s", ErrUnauthorized, action, tx.Sender.Hex())
	}
	return nil
}

func (r *Registry) requireAdmin(tx Tx, action string) error {
	if !r.roles.IsAdmin(tx.Sender) {
		return fmt.Errorf("%w: %s requires an admin, got %s", ErrUnauthorized, action, tx.Sender.Hex())
	}
	return nil
}

// IsAdmin reports whether addr is the creator, the multisig or an elected admin.
func (r *Registry) IsAdmin(addr common.Address) bool {
	return r.roles.IsAdmin(addr)
}

// Roles returns a copy of the current role set.
func (r *Registry) Roles() Roles {
	return r.roles
}

// SetMultisig rotates the multisig controller. Only the current multisig may call it.
func (r *Registry) SetMultisig(tx Tx, addr common.Address) error {
	if err := r.requireMultisig(tx, "set multisig"); err != nil {
		return err
	}
	if isZero(addr) {
		return fmt.Errorf("%w: multisig", ErrInvalidAddress)
	}
	r.roles.Multisig = addr
	r.touchHub()
	return nil
}

// ResetAllAdmins replaces the creator and the whole elected set at once.
func (r *Registry) ResetAllAdmins(tx Tx, creator common.Address, elected [NumElectedAdmins]common.Address) error {
	if err := r.requireMultisig(tx, "reset admins"); err != nil {
		return err
	}
	if isZero(creator) {
		return fmt.Errorf("%w: creator", ErrInvalidAddress)
	}
	if err := validateElected(elected); err != nil {
		return err
	}
	r.roles.Creator = creator
	r.roles.Elected = elected
	r.touchHub()
	return nil
}

// SetElectedAdmins replaces the elected admin set.
func (r *Registry) SetElectedAdmins(tx Tx, elected [NumElectedAdmins]common.Address) error {
	if err := r.requireMultisig(tx, "set elected admins"); err != nil {
		return err
	}
	if err := validateElected(elected); err != nil {
		return err
	}
	r.roles.Elected = elected
	r.touchHub()
	return nil
}

// SetElectedAdmin replaces a single elected admin slot.
func (r *Registry) SetElectedAdmin(tx Tx, index int, addr common.Address) error {
	if err := r.requireMultisig(tx, "set elected admin"); err != nil {
		return err
	}
	if index < 0 || index >= NumElectedAdmins {
		return fmt.Errorf("%w: elected admin index %d", ErrInvalidInput, index)
	}
	if isZero(addr) {
		return fmt.Errorf("%w: elected admin %d", ErrInvalidAddress, index)
	}
	r.roles.Elected[index] = addr
	r.touchHub()
	return nil
}
