// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/vechain/stakevault/acct"
)

// Kind names the instruction that produced an event.
type Kind string

const (
	KindInitialize Kind = "initialize"
	KindUpdate     Kind = "update"
	KindFund       Kind = "fund"
	KindWithdraw   Kind = "withdraw"
	KindStake      Kind = "stake"
	KindUnstake    Kind = "unstake"
	KindClaim      Kind = "claim"
	KindClose      Kind = "close"
)

// Event is a record of one executed instruction on a vault.
type Event struct {
	Seq    uint64       `json:"seq"`
	Vault  acct.Address `json:"vault"`
	Kind   Kind         `json:"kind"`
	Signer acct.Address `json:"signer"`
	Time   uint64       `json:"time"`
	Payload
}

// Payload carries the amounts of an event plus the vault totals right after it.
type Payload struct {
	Amount      uint64 `json:"amount"`
	Forfeited   uint64 `json:"forfeited"`
	TotalStaked uint64 `json:"totalStaked"`
	RewardPool  uint64 `json:"rewardPool"`
	DailyPayout uint64 `json:"dailyPayout"`
}

// Range is an inclusive time range in unix seconds.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Filter selects events.
type Filter struct {
	Vault   *acct.Address `json:"vault"`
	Signer  *acct.Address `json:"signer"`
	Kinds   []Kind        `json:"kinds"`
	Range   *Range        `json:"range"`
	Order   Order         `json:"order"` // default asc
	Options *Options      `json:"options"`
}
