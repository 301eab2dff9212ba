// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package transfer implements the asset-transfer primitive vaults rely on.
package transfer

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/kv"
)

var (
	// ErrInsufficientFunds is returned when the source balance cannot cover a transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnauthorized is returned when the authority does not own the source account.
	ErrUnauthorized = errors.New("authority does not own source account")
	// ErrBalanceOverflow is returned when a credit would overflow the target balance.
	ErrBalanceOverflow = errors.New("balance overflow")
)

// Transferrer moves amount of mint from one owner to another.
// authority is the signer of the movement and must own from.
type Transferrer interface {
	Transfer(mint, from, to, authority acct.Address, amount uint64) error
}

// Bucket holds the balances in the underlying store.
const Bucket = kv.Bucket("b/")

// Book is a token balance book keyed by (mint, owner).
type Book struct {
	getter kv.Getter
	putter kv.Putter
}

var _ Transferrer = (*Book)(nil)

// NewBook creates a book over store.
func NewBook(store kv.GetPutter) *Book {
	return &Book{
		Bucket.NewGetter(store),
		Bucket.NewPutter(store),
	}
}

func balanceKey(mint, owner acct.Address) []byte {
	return append(mint.Bytes(), owner.Bytes()...)
}

// Balance returns the balance of owner in mint.
func (b *Book) Balance(mint, owner acct.Address) (uint64, error) {
	data, err := kv.GetValue(b.getter, balanceKey(mint, owner))
	if err != nil {
		return 0, errors.Wrap(err, "get balance")
	}
	if len(data) == 0 {
		return 0, nil
	}
	var bal uint64
	if err := rlp.DecodeBytes(data, &bal); err != nil {
		return 0, errors.Wrap(err, "decode balance")
	}
	return bal, nil
}

func (b *Book) setBalance(mint, owner acct.Address, bal uint64) error {
	key := balanceKey(mint, owner)
	if bal == 0 {
		return b.putter.Delete(key)
	}
	data, err := rlp.EncodeToBytes(bal)
	if err != nil {
		return err
	}
	return b.putter.Put(key, data)
}

// Mint credits owner with amount of newly issued tokens.
func (b *Book) Mint(mint, owner acct.Address, amount uint64) error {
	bal, err := b.Balance(mint, owner)
	if err != nil {
		return err
	}
	if bal+amount < bal {
		return ErrBalanceOverflow
	}
	return b.setBalance(mint, owner, bal+amount)
}

// Transfer implements Transferrer.
func (b *Book) Transfer(mint, from, to, authority acct.Address, amount uint64) error {
	if authority != from {
		return ErrUnauthorized
	}
	fromBal, err := b.Balance(mint, from)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return errors.WithMessagef(ErrInsufficientFunds, "have %d, want %d", fromBal, amount)
	}
	if from == to || amount == 0 {
		return nil
	}
	toBal, err := b.Balance(mint, to)
	if err != nil {
		return err
	}
	if toBal+amount < toBal {
		return ErrBalanceOverflow
	}
	if err := b.setBalance(mint, from, fromBal-amount); err != nil {
		return err
	}
	return b.setBalance(mint, to, toBal+amount)
}
