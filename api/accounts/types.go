// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakevault/acct"
)

// Balance for marshal balance
type Balance struct {
	Owner   acct.Address        `json:"owner"`
	Mint    acct.Address        `json:"mint"`
	Balance math.HexOrDecimal64 `json:"balance"`
}

// MintRequest credits an account from the faucet.
type MintRequest struct {
	Mint   acct.Address        `json:"mint"`
	Amount math.HexOrDecimal64 `json:"amount"`
}
