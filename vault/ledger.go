// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/vault/faults"
)

// UnstakeResult describes the registry effect of an unstake.
type UnstakeResult struct {
	Removed   bool   // the participant's stake reached zero and its entry was removed
	Forfeited uint64 // unclaimed reward dropped with the removed entry; it stays in the reward pool
}

// Every mutation below checks all of its preconditions before writing,
// so a returned error leaves the vault exactly as it was.

// Stake records a principal deposit, after flushing accrual so the deposit does not earn past rewards.
func (v *Vault) Stake(now uint64, id acct.Address, amount uint64) error {
	if amount == 0 {
		return faults.New(faults.InvalidAmount, "stake amount must be greater than 0")
	}
	i := v.find(id)
	if i < 0 && v.IsFull() {
		return faults.Newf(faults.CapacityExceeded, "vault is full: %d participants", Capacity)
	}
	var staked uint64
	if i >= 0 {
		var err error
		if staked, err = add(v.participants[i].Staked, amount, "staked amount"); err != nil {
			return err
		}
	}
	total, err := add(v.totalStaked, amount, "total staked")
	if err != nil {
		return err
	}
	acc, err := v.computeAccrual(now)
	if err != nil {
		return err
	}

	v.applyAccrual(acc)
	if i >= 0 {
		v.participants[i].Staked = staked
	} else {
		v.insert(Participant{Identity: id, Staked: amount})
	}
	v.totalStaked = total
	return nil
}

// Unstake withdraws principal. When the stake reaches zero the entry is removed and any
// reward not claimed beforehand is forfeited; the result reports how much.
func (v *Vault) Unstake(now uint64, id acct.Address, amount uint64) (UnstakeResult, error) {
	if amount == 0 {
		return UnstakeResult{}, faults.New(faults.InvalidAmount, "unstake amount must be greater than 0")
	}
	i := v.find(id)
	if i < 0 {
		return UnstakeResult{}, faults.Newf(faults.NotFound, "participant %v not found", id)
	}
	p := &v.participants[i]
	if p.Staked < amount {
		return UnstakeResult{}, faults.Newf(faults.InsufficientStake, "insufficient stake: has %d, unstaking %d", p.Staked, amount)
	}
	total, err := sub(v.totalStaked, amount, "total staked")
	if err != nil {
		return UnstakeResult{}, err
	}
	acc, err := v.computeAccrual(now)
	if err != nil {
		return UnstakeResult{}, err
	}

	v.applyAccrual(acc)
	var res UnstakeResult
	p.Staked -= amount
	if p.Staked == 0 {
		res = UnstakeResult{Removed: true, Forfeited: p.Earned}
		v.remove(i)
	}
	v.totalStaked = total
	return res, nil
}

// Claim zeroes the identity's accrued reward and takes it out of the reward pool.
// Claiming for an unknown identity pays 0 and succeeds.
func (v *Vault) Claim(now uint64, id acct.Address) (uint64, error) {
	acc, err := v.computeAccrual(now)
	if err != nil {
		return 0, err
	}
	i := v.find(id)
	if i < 0 {
		v.applyAccrual(acc)
		return 0, nil
	}
	earned := v.participants[i].Earned
	if acc.earned != nil {
		earned = acc.earned[i]
	}
	pool, err := sub(v.rewardPool, earned, "reward pool")
	if err != nil {
		return 0, err
	}

	v.applyAccrual(acc)
	v.participants[i].Earned = 0
	v.rewardPool = pool
	return earned, nil
}

// Fund adds transferred-in reward funds to the pool.
func (v *Vault) Fund(amount uint64) error {
	pool, err := add(v.rewardPool, amount, "reward pool")
	if err != nil {
		return err
	}
	v.rewardPool = pool
	return nil
}

// Withdraw takes transferred-out reward funds from the pool.
func (v *Vault) Withdraw(amount uint64) error {
	pool, err := sub(v.rewardPool, amount, "reward pool")
	if err != nil {
		return err
	}
	v.rewardPool = pool
	return nil
}
