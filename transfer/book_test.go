// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfer

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/lvldb"
	"github.com/vechain/stakevault/test/datagen"
)

func newBook(t *testing.T) *Book {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBook(db)
}

func TestBookTransfer(t *testing.T) {
	book := newBook(t)
	mint := datagen.RandAddress()
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	bal, err := book.Balance(mint, alice)
	require.NoError(t, err)
	assert.Zero(t, bal)

	require.NoError(t, book.Mint(mint, alice, 100))
	require.NoError(t, book.Transfer(mint, alice, bob, alice, 40))

	bal, _ = book.Balance(mint, alice)
	assert.Equal(t, uint64(60), bal)
	bal, _ = book.Balance(mint, bob)
	assert.Equal(t, uint64(40), bal)

	// balances are per mint
	bal, _ = book.Balance(datagen.RandAddress(), bob)
	assert.Zero(t, bal)
}

func TestBookTransferErrors(t *testing.T) {
	book := newBook(t)
	mint := datagen.RandAddress()
	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, book.Mint(mint, alice, 10))

	err := book.Transfer(mint, alice, bob, bob, 1)
	assert.Equal(t, ErrUnauthorized, err)

	err = book.Transfer(mint, alice, bob, alice, 11)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))

	require.NoError(t, book.Mint(mint, bob, math.MaxUint64))
	err = book.Transfer(mint, alice, bob, alice, 1)
	assert.Equal(t, ErrBalanceOverflow, err)
	assert.Equal(t, ErrBalanceOverflow, book.Mint(mint, bob, 1))

	bal, _ := book.Balance(mint, alice)
	assert.Equal(t, uint64(10), bal, "failed transfers leave balances untouched")
}

func TestBookSelfTransfer(t *testing.T) {
	book := newBook(t)
	mint, alice := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, book.Mint(mint, alice, 5))

	require.NoError(t, book.Transfer(mint, alice, alice, alice, 5))
	bal, _ := book.Balance(mint, alice)
	assert.Equal(t, uint64(5), bal)
}
