// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package acct

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Derive computes a program-owned address from the program id, a bump byte and seeds.
// Nobody holds a key for a derived address, so only the owning program can act as its
// signing authority.
func Derive(program Address, bump uint8, seeds ...[]byte) Address {
	data, _ := rlp.EncodeToBytes([]any{program, seeds, bump})
	return BytesToAddress(crypto.Keccak256(data))
}

// VaultSeed is the leading seed of every vault address.
var VaultSeed = []byte("vault")

// DeriveVault returns the vault address for the given stake mint and creator.
func DeriveVault(program Address, bump uint8, mint, creator Address) Address {
	return Derive(program, bump, VaultSeed, mint.Bytes(), creator.Bytes())
}
