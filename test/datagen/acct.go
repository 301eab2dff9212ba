// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/vechain/stakevault/acct"
)

func RandAddress() (a acct.Address) {
	rand.Read(a[:])
	return
}

func RandAddresses(n int) []acct.Address {
	addrs := make([]acct.Address, n)
	for i := range addrs {
		addrs[i] = RandAddress()
	}
	return addrs
}
