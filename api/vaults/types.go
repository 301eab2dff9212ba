// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vaults

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/vault"
)

// Participant is a registry entry.
type Participant struct {
	Identity acct.Address        `json:"identity"`
	Staked   math.HexOrDecimal64 `json:"staked"`
	Earned   math.HexOrDecimal64 `json:"earned"`
}

// PendingParticipant is a registry entry with rewards accrued up to now.
type PendingParticipant struct {
	Participant
	Pending math.HexOrDecimal64 `json:"pending"`
}

// Vault is the JSON view of a vault record.
type Vault struct {
	ID           acct.Address        `json:"id"`
	Authority    acct.Address        `json:"authority"`
	StakeMint    acct.Address        `json:"stakeMint"`
	RewardPool   math.HexOrDecimal64 `json:"rewardPool"`
	TotalStaked  math.HexOrDecimal64 `json:"totalStaked"`
	DailyPayout  math.HexOrDecimal64 `json:"dailyPayout"`
	LastUpdated  uint64              `json:"lastUpdated"`
	Bump         uint8               `json:"bump"`
	Count        int                 `json:"count"`
	Participants []Participant       `json:"participants,omitempty"`
}

func convertParticipant(p vault.Participant) Participant {
	return Participant{
		Identity: p.Identity,
		Staked:   math.HexOrDecimal64(p.Staked),
		Earned:   math.HexOrDecimal64(p.Earned),
	}
}

func convertVault(id acct.Address, v *vault.Vault, withParticipants bool) *Vault {
	out := &Vault{
		ID:          id,
		Authority:   v.Authority(),
		StakeMint:   v.StakeMint(),
		RewardPool:  math.HexOrDecimal64(v.RewardPool()),
		TotalStaked: math.HexOrDecimal64(v.TotalStaked()),
		DailyPayout: math.HexOrDecimal64(v.DailyPayout()),
		LastUpdated: v.LastUpdated(),
		Bump:        v.Bump(),
		Count:       v.Count(),
	}
	if withParticipants {
		out.Participants = make([]Participant, 0, v.Count())
		for _, p := range v.Participants() {
			out.Participants = append(out.Participants, convertParticipant(p))
		}
	}
	return out
}

// CreateRequest creates a vault.
type CreateRequest struct {
	Signer      acct.Address        `json:"signer"`
	Mint        acct.Address        `json:"mint"`
	DailyPayout math.HexOrDecimal64 `json:"dailyPayout"`
}

// UpdateRequest reconfigures a vault.
type UpdateRequest struct {
	Signer      acct.Address        `json:"signer"`
	Authority   acct.Address        `json:"authority"`
	Mint        acct.Address        `json:"mint"`
	DailyPayout math.HexOrDecimal64 `json:"dailyPayout"`
}

// AmountRequest is the body of fund, withdraw, stake and unstake.
type AmountRequest struct {
	Signer acct.Address        `json:"signer"`
	Amount math.HexOrDecimal64 `json:"amount"`
}

// SignerRequest is the body of claim and close.
type SignerRequest struct {
	Signer acct.Address `json:"signer"`
}

// CreateResponse carries the address of a created vault.
type CreateResponse struct {
	ID acct.Address `json:"id"`
}

// UnstakeResponse reports the outcome of an unstake.
type UnstakeResponse struct {
	Removed   bool                `json:"removed"`
	Forfeited math.HexOrDecimal64 `json:"forfeited"`
}

// ClaimResponse reports the amount paid by a claim.
type ClaimResponse struct {
	Amount math.HexOrDecimal64 `json:"amount"`
}
