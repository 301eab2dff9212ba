// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/eventdb"
	"github.com/vechain/stakevault/transfer"
	"github.com/vechain/stakevault/vault"
)

var (
	// ErrVaultExists is returned by Tx.Create when the record is already present.
	ErrVaultExists = errors.New("vault already exists")
	// ErrVaultNotFound is returned when a vault record does not exist.
	ErrVaultNotFound = errors.New("vault not found")
)

// Tx is the exclusive view of one vault handed to an Exec callback.
// Nothing it does is visible outside until the callback returns nil.
type Tx struct {
	id      acct.Address
	now     uint64
	vault   *vault.Vault
	deleted bool
	staged  *staged
	book    *transfer.Book
	events  []*eventdb.Event
}

func newTx(id acct.Address, now uint64, v *vault.Vault, st *staged) *Tx {
	return &Tx{
		id:     id,
		now:    now,
		vault:  v,
		staged: st,
		book:   transfer.NewBook(st),
	}
}

// ID returns the vault address.
func (tx *Tx) ID() acct.Address { return tx.id }

// Now returns the trusted time of the transaction.
func (tx *Tx) Now() uint64 { return tx.now }

// Vault returns the private copy of the vault record, or nil if it does not exist.
func (tx *Tx) Vault() *vault.Vault {
	if tx.deleted {
		return nil
	}
	return tx.vault
}

// MustVault is like Vault but fails with ErrVaultNotFound.
func (tx *Tx) MustVault() (*vault.Vault, error) {
	if v := tx.Vault(); v != nil {
		return v, nil
	}
	return nil, errors.WithMessagef(ErrVaultNotFound, "vault %v", tx.id)
}

// Create installs v as the vault record.
func (tx *Tx) Create(v *vault.Vault) error {
	if tx.Vault() != nil {
		return errors.WithMessagef(ErrVaultExists, "vault %v", tx.id)
	}
	tx.vault = v
	tx.deleted = false
	return nil
}

// Delete removes the vault record.
func (tx *Tx) Delete() {
	tx.deleted = true
}

// Book returns the token book staged in this transaction.
func (tx *Tx) Book() *transfer.Book { return tx.book }

// Checkpoint marks the staged book state, see Revert.
func (tx *Tx) Checkpoint() int {
	return tx.staged.sm.Push()
}

// Revert drops staged book writes made after checkpoint cp.
func (tx *Tx) Revert(cp int) {
	tx.staged.sm.PopTo(cp)
}

// Emit queues an event to be journaled after a successful commit.
func (tx *Tx) Emit(kind eventdb.Kind, signer acct.Address, payload eventdb.Payload) {
	tx.events = append(tx.events, &eventdb.Event{
		Vault:   tx.id,
		Kind:    kind,
		Signer:  signer,
		Time:    tx.now,
		Payload: payload,
	})
}
