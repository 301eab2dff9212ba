// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/vault/faults"
)

// accrual is a computed but not yet applied accrual refresh.
type accrual struct {
	now    uint64
	earned []uint64 // new Earned of each live slot, nil when nothing accrues
}

// RewardRate returns the reward credited per staked unit over elapsed seconds.
//
// The divisions truncate left to right: dailyPayout * elapsed / 86400 / totalStaked.
// Dividing before the final multiplication by a participant's stake loses precision,
// and a rate below one unit truncates to zero for everyone. The order is kept so
// existing vault records keep accruing exactly as they always have.
func RewardRate(dailyPayout, elapsed, totalStaked uint64) (uint64, error) {
	if totalStaked == 0 {
		return 0, faults.DivisionByZero("reward rate")
	}
	x, err := mul(dailyPayout, elapsed, "payout over elapsed time")
	if err != nil {
		return 0, err
	}
	return x / SecondsPerDay / totalStaked, nil
}

// computeAccrual works out the refresh at now without touching the vault.
func (v *Vault) computeAccrual(now uint64) (*accrual, error) {
	if v.lastUpdated == NeverUpdated {
		return &accrual{now: now}, nil
	}
	if now < v.lastUpdated {
		return nil, faults.Newf(faults.Arithmetic, "clock went backward: now %d, last updated %d", now, v.lastUpdated)
	}
	elapsed := now - v.lastUpdated
	// with no stake there is nobody to credit; time still advances
	if elapsed == 0 || v.totalStaked == 0 {
		return &accrual{now: now}, nil
	}

	rate, err := RewardRate(v.dailyPayout, elapsed, v.totalStaked)
	if err != nil {
		return nil, err
	}
	earned := make([]uint64, v.count)
	for i := range earned {
		p := &v.participants[i]
		reward, err := mul(rate, p.Staked, "participant reward")
		if err != nil {
			return nil, err
		}
		if earned[i], err = add(p.Earned, reward, "earned amount"); err != nil {
			return nil, err
		}
	}
	return &accrual{now: now, earned: earned}, nil
}

func (v *Vault) applyAccrual(a *accrual) {
	for i, e := range a.earned {
		v.participants[i].Earned = e
	}
	v.lastUpdated = a.now
}

// Update rolls pending rewards forward to now for every participant.
// The first call on a vault only records now; there is no interval to accrue over yet.
func (v *Vault) Update(now uint64) error {
	acc, err := v.computeAccrual(now)
	if err != nil {
		return err
	}
	v.applyAccrual(acc)
	return nil
}

// PendingReward returns what Claim would pay the identity at now, without mutating the vault.
func (v *Vault) PendingReward(now uint64, id acct.Address) (uint64, error) {
	i := v.find(id)
	if i < 0 {
		return 0, nil
	}
	acc, err := v.computeAccrual(now)
	if err != nil {
		return 0, err
	}
	if acc.earned == nil {
		return v.participants[i].Earned, nil
	}
	return acc.earned[i], nil
}

func mul(a, b uint64, what string) (uint64, error) {
	z := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	if !z.IsUint64() {
		return 0, faults.Overflow(what)
	}
	return z.Uint64(), nil
}

func add(a, b uint64, what string) (uint64, error) {
	z := new(uint256.Int).Add(uint256.NewInt(a), uint256.NewInt(b))
	if !z.IsUint64() {
		return 0, faults.Overflow(what)
	}
	return z.Uint64(), nil
}

func sub(a, b uint64, what string) (uint64, error) {
	if a < b {
		return 0, faults.Underflow(what)
	}
	return a - b, nil
}
