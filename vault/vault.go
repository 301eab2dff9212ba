// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/vechain/stakevault/acct"
)

const (
	// Capacity is the fixed number of participant slots in a vault.
	Capacity = 2000
	// SecondsPerDay is the period DailyPayout is distributed over.
	SecondsPerDay = 86400
	// NeverUpdated is the LastUpdated sentinel of a vault that has never run an accrual refresh.
	NeverUpdated = 0
)

// Participant is the bookkeeping entry of one staking identity.
type Participant struct {
	Identity acct.Address
	Staked   uint64 // principal currently deposited, > 0 while registered
	Earned   uint64 // accrued and unclaimed reward
}

// IsEmpty returns whether the slot is unused.
func (p *Participant) IsEmpty() bool {
	return *p == Participant{}
}

// Vault is the pool-level ledger record. It owns every participant entry.
//
// A Vault is not safe for concurrent use: the caller must serialize all
// operations on one record and discard it when an operation fails.
type Vault struct {
	authority   acct.Address
	stakeMint   acct.Address
	rewardPool  uint64
	totalStaked uint64
	dailyPayout uint64
	lastUpdated uint64

	participants [Capacity]Participant
	count        uint16

	bump uint8
}

// New creates an empty vault.
func New(authority, stakeMint acct.Address, dailyPayout uint64, bump uint8) *Vault {
	return &Vault{
		authority:   authority,
		stakeMint:   stakeMint,
		dailyPayout: dailyPayout,
		bump:        bump,
	}
}

// Reconfigure replaces the authority, the stake mint and the daily payout.
// Rewards pending at the old rate are flushed first so a new payout never applies retroactively.
func (v *Vault) Reconfigure(now uint64, authority, stakeMint acct.Address, dailyPayout uint64) error {
	if v.lastUpdated != NeverUpdated && dailyPayout != v.dailyPayout {
		acc, err := v.computeAccrual(now)
		if err != nil {
			return err
		}
		v.applyAccrual(acc)
	}
	v.authority = authority
	v.stakeMint = stakeMint
	v.dailyPayout = dailyPayout
	return nil
}

// Copy returns a deep copy of the vault.
func (v *Vault) Copy() *Vault {
	cpy := *v
	return &cpy
}

func (v *Vault) Authority() acct.Address { return v.authority }
func (v *Vault) StakeMint() acct.Address { return v.stakeMint }
func (v *Vault) RewardPool() uint64      { return v.rewardPool }
func (v *Vault) TotalStaked() uint64     { return v.totalStaked }
func (v *Vault) DailyPayout() uint64     { return v.dailyPayout }
func (v *Vault) LastUpdated() uint64     { return v.lastUpdated }
func (v *Vault) Bump() uint8             { return v.bump }

// Count returns the number of registered participants.
func (v *Vault) Count() int {
	return int(v.count)
}

// IsFull returns whether no more identities can be registered.
func (v *Vault) IsFull() bool {
	return v.count == Capacity
}

// Participant returns the entry of the given identity.
func (v *Vault) Participant(id acct.Address) (Participant, bool) {
	if i := v.find(id); i >= 0 {
		return v.participants[i], true
	}
	return Participant{}, false
}

// Participants returns a copy of all live entries in registry order.
func (v *Vault) Participants() []Participant {
	out := make([]Participant, v.count)
	copy(out, v.participants[:v.count])
	return out
}
