// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/test/datagen"
	"github.com/vechain/stakevault/vault/faults"
)

const t0 = uint64(1_700_000_000)

func newTestVault(dailyPayout uint64) *Vault {
	return New(datagen.RandAddress(), datagen.RandAddress(), dailyPayout, 255)
}

func assertSumInvariant(t *testing.T, v *Vault) {
	t.Helper()
	var sum uint64
	for _, p := range v.Participants() {
		assert.NotZero(t, p.Staked)
		sum += p.Staked
	}
	assert.Equal(t, v.TotalStaked(), sum)
	assert.NoError(t, v.Validate())
}

func TestScenarioA_SingleParticipant(t *testing.T) {
	v := newTestVault(86400)
	staker := datagen.RandAddress()

	require.NoError(t, v.Stake(t0, staker, 100))
	assert.Equal(t, t0, v.LastUpdated())

	require.NoError(t, v.Update(t0+86400))
	p, ok := v.Participant(staker)
	require.True(t, ok)
	assert.Equal(t, uint64(86400), p.Earned)
	assertSumInvariant(t, v)
}

func TestScenarioB_ProRata(t *testing.T) {
	v := newTestVault(400)
	a, b := datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, v.Stake(t0, a, 100))
	require.NoError(t, v.Stake(t0, b, 300))
	assert.Equal(t, uint64(400), v.TotalStaked())

	require.NoError(t, v.Update(t0+86400))
	pa, _ := v.Participant(a)
	pb, _ := v.Participant(b)
	assert.Equal(t, uint64(100), pa.Earned)
	assert.Equal(t, uint64(300), pb.Earned)
	assert.Equal(t, v.DailyPayout(), pa.Earned+pb.Earned)
}

func TestScenarioC_FullUnstakeRemoves(t *testing.T) {
	v := newTestVault(86400)
	a, b := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, v.Fund(1_000_000))
	require.NoError(t, v.Stake(t0, a, 100))
	require.NoError(t, v.Stake(t0, b, 50))

	res, err := v.Unstake(t0+10, a, 100)
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.Equal(t, 1, v.Count())
	assert.Equal(t, uint64(50), v.TotalStaked())

	_, ok := v.Participant(a)
	assert.False(t, ok)

	claimed, err := v.Claim(t0+20, a)
	require.NoError(t, err)
	assert.Zero(t, claimed)
	assertSumInvariant(t, v)
}

func TestScenarioD_ClaimZeroesEarned(t *testing.T) {
	v := newTestVault(86400)
	staker := datagen.RandAddress()
	require.NoError(t, v.Fund(1_000_000))
	require.NoError(t, v.Stake(t0, staker, 100))

	claimed, err := v.Claim(t0+86400, staker)
	require.NoError(t, err)
	assert.Equal(t, uint64(86400), claimed)
	assert.Equal(t, uint64(1_000_000-86400), v.RewardPool())

	p, _ := v.Participant(staker)
	assert.Zero(t, p.Earned)

	claimed, err = v.Claim(t0+86400, staker)
	require.NoError(t, err)
	assert.Zero(t, claimed)
	assert.Equal(t, uint64(1_000_000-86400), v.RewardPool())
}

func TestCapacity(t *testing.T) {
	v := newTestVault(1000)
	for i, id := range datagen.RandAddresses(Capacity) {
		require.NoError(t, v.Stake(t0+uint64(i), id, 1))
	}
	assert.True(t, v.IsFull())
	assert.Equal(t, Capacity, v.Count())

	before := v.Copy()
	err := v.Stake(t0+Capacity+100, datagen.RandAddress(), 1)
	assert.True(t, faults.Is(err, faults.CapacityExceeded))
	assert.Equal(t, before, v, "failed stake must leave the vault untouched")

	// existing participants can still top up
	first := v.Participants()[0].Identity
	require.NoError(t, v.Stake(t0+Capacity+100, first, 1))
	assert.Equal(t, uint64(Capacity+1), v.TotalStaked())
	assertSumInvariant(t, v)
}

func TestUpdateIdempotent(t *testing.T) {
	v := newTestVault(86400)
	staker := datagen.RandAddress()
	require.NoError(t, v.Stake(t0, staker, 100))
	require.NoError(t, v.Update(t0+3600))

	snapshot := v.Copy()
	require.NoError(t, v.Update(t0+3600))
	assert.Equal(t, snapshot, v)
}

func TestUpdateFirstCallOnlyRecordsTime(t *testing.T) {
	v := newTestVault(86400)
	assert.Equal(t, uint64(NeverUpdated), v.LastUpdated())
	require.NoError(t, v.Update(t0))
	assert.Equal(t, t0, v.LastUpdated())
}

func TestUpdateClockBackward(t *testing.T) {
	v := newTestVault(86400)
	require.NoError(t, v.Stake(t0, datagen.RandAddress(), 100))

	before := v.Copy()
	err := v.Update(t0 - 1)
	assert.True(t, faults.Is(err, faults.Arithmetic))
	assert.Equal(t, before, v)
}

func TestUpdateWithoutStakeSkipsAccrual(t *testing.T) {
	v := newTestVault(86400)
	staker := datagen.RandAddress()
	require.NoError(t, v.Stake(t0, staker, 100))
	_, err := v.Unstake(t0, staker, 100)
	require.NoError(t, err)
	assert.Zero(t, v.TotalStaked())

	require.NoError(t, v.Update(t0+86400))
	assert.Equal(t, t0+86400, v.LastUpdated())

	_, err = RewardRate(86400, 86400, 0)
	assert.True(t, faults.Is(err, faults.Arithmetic))
}

func TestTruncationOrder(t *testing.T) {
	// 100 * 86400 / 86400 / 1000 truncates to 0 before multiplying by the stake
	v := newTestVault(100)
	a, b := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, v.Stake(t0, a, 500))
	require.NoError(t, v.Stake(t0, b, 500))

	require.NoError(t, v.Update(t0+86400))
	pa, _ := v.Participant(a)
	pb, _ := v.Participant(b)
	assert.Zero(t, pa.Earned)
	assert.Zero(t, pb.Earned)

	rate, err := RewardRate(1000, 86400+43200, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), rate) // 1000*129600/86400 = 1500, /3 = 500
}

func TestStakeTopUp(t *testing.T) {
	v := newTestVault(86400)
	staker := datagen.RandAddress()
	require.NoError(t, v.Stake(t0, staker, 100))
	require.NoError(t, v.Stake(t0+86400, staker, 100))

	p, _ := v.Participant(staker)
	assert.Equal(t, uint64(200), p.Staked)
	assert.Equal(t, uint64(86400), p.Earned, "accrual flushed before the top-up")
	assert.Equal(t, 1, v.Count())
}

func TestStakeInvalidAmount(t *testing.T) {
	v := newTestVault(86400)
	err := v.Stake(t0, datagen.RandAddress(), 0)
	assert.True(t, faults.Is(err, faults.InvalidAmount))
	assert.Zero(t, v.Count())
	assert.Equal(t, uint64(NeverUpdated), v.LastUpdated())
}

func TestStakeOverflow(t *testing.T) {
	v := newTestVault(0)
	a, b := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, v.Stake(t0, a, math.MaxUint64))

	err := v.Stake(t0, a, 1)
	assert.True(t, faults.Is(err, faults.Arithmetic))
	err = v.Stake(t0, b, 1)
	assert.True(t, faults.Is(err, faults.Arithmetic))
	assert.Equal(t, 1, v.Count())
}

func TestAccrualOverflow(t *testing.T) {
	v := newTestVault(math.MaxUint64)
	require.NoError(t, v.Stake(t0, datagen.RandAddress(), 1))

	before := v.Copy()
	err := v.Update(t0 + 2)
	assert.True(t, faults.Is(err, faults.Arithmetic))
	assert.Equal(t, before, v)
}

func TestUnstakeErrors(t *testing.T) {
	v := newTestVault(86400)
	staker := datagen.RandAddress()
	require.NoError(t, v.Stake(t0, staker, 100))

	_, err := v.Unstake(t0+1, datagen.RandAddress(), 1)
	assert.True(t, faults.Is(err, faults.NotFound))

	_, err = v.Unstake(t0+1, staker, 101)
	assert.True(t, faults.Is(err, faults.InsufficientStake))

	_, err = v.Unstake(t0+1, staker, 0)
	assert.True(t, faults.Is(err, faults.InvalidAmount))

	assert.Equal(t, t0, v.LastUpdated(), "failed unstakes do not refresh")
}

func TestUnstakePartial(t *testing.T) {
	v := newTestVault(86400)
	staker := datagen.RandAddress()
	require.NoError(t, v.Stake(t0, staker, 100))

	res, err := v.Unstake(t0+86400, staker, 40)
	require.NoError(t, err)
	assert.False(t, res.Removed)
	p, _ := v.Participant(staker)
	assert.Equal(t, uint64(60), p.Staked)
	assert.Equal(t, uint64(86400), p.Earned)
	assert.Equal(t, uint64(60), v.TotalStaked())
}

func TestUnstakeForfeitsUnclaimedReward(t *testing.T) {
	v := newTestVault(86400)
	staker := datagen.RandAddress()
	require.NoError(t, v.Fund(100_000))
	require.NoError(t, v.Stake(t0, staker, 100))

	res, err := v.Unstake(t0+86400, staker, 100)
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.Equal(t, uint64(86400), res.Forfeited)
	assert.Equal(t, uint64(100_000), v.RewardPool(), "forfeited reward stays in the pool")

	// re-staking starts from a clean entry
	require.NoError(t, v.Stake(t0+86400, staker, 1))
	p, _ := v.Participant(staker)
	assert.Zero(t, p.Earned)
}

func TestSwapRemove(t *testing.T) {
	v := newTestVault(0)
	ids := datagen.RandAddresses(4)
	for _, id := range ids {
		require.NoError(t, v.Stake(t0, id, 10))
	}

	_, err := v.Unstake(t0, ids[1], 10)
	require.NoError(t, err)

	got := v.Participants()
	require.Len(t, got, 3)
	assert.Equal(t, []acct.Address{ids[0], ids[3], ids[2]}, []acct.Address{got[0].Identity, got[1].Identity, got[2].Identity})
	assert.True(t, v.participants[3].IsEmpty())

	// removing the last entry needs no swap
	_, err = v.Unstake(t0, ids[2], 10)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Count())
	assert.True(t, v.participants[2].IsEmpty())
	assertSumInvariant(t, v)
}

func TestClaimUnderfundedPool(t *testing.T) {
	v := newTestVault(86400)
	staker := datagen.RandAddress()
	require.NoError(t, v.Fund(10))
	require.NoError(t, v.Stake(t0, staker, 100))

	before := v.Copy()
	_, err := v.Claim(t0+86400, staker)
	assert.True(t, faults.Is(err, faults.Arithmetic))
	assert.Equal(t, before, v)
}

func TestClaimUnknownStillRefreshes(t *testing.T) {
	v := newTestVault(86400)
	staker := datagen.RandAddress()
	require.NoError(t, v.Stake(t0, staker, 100))

	claimed, err := v.Claim(t0+86400, datagen.RandAddress())
	require.NoError(t, err)
	assert.Zero(t, claimed)
	assert.Equal(t, t0+86400, v.LastUpdated())
	p, _ := v.Participant(staker)
	assert.Equal(t, uint64(86400), p.Earned)
}

func TestFundWithdraw(t *testing.T) {
	v := newTestVault(0)
	require.NoError(t, v.Fund(500))
	require.NoError(t, v.Withdraw(200))
	assert.Equal(t, uint64(300), v.RewardPool())

	assert.True(t, faults.Is(v.Withdraw(301), faults.Arithmetic))
	assert.Equal(t, uint64(300), v.RewardPool())

	require.NoError(t, v.Fund(math.MaxUint64-300))
	assert.True(t, faults.Is(v.Fund(1), faults.Arithmetic))
}

func TestPendingReward(t *testing.T) {
	v := newTestVault(86400)
	staker := datagen.RandAddress()
	require.NoError(t, v.Stake(t0, staker, 100))

	pending, err := v.PendingReward(t0+43200, staker)
	require.NoError(t, err)
	assert.Equal(t, uint64(43200), pending)
	assert.Equal(t, t0, v.LastUpdated(), "pending reward does not mutate")

	pending, err = v.PendingReward(t0+43200, datagen.RandAddress())
	require.NoError(t, err)
	assert.Zero(t, pending)

	_, err = v.PendingReward(t0-1, staker)
	assert.True(t, faults.Is(err, faults.Arithmetic))
}

func TestReconfigure(t *testing.T) {
	v := newTestVault(86400)
	staker := datagen.RandAddress()
	require.NoError(t, v.Stake(t0, staker, 100))

	newAuthority, newMint := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, v.Reconfigure(t0+86400, newAuthority, newMint, 0))
	assert.Equal(t, newAuthority, v.Authority())
	assert.Equal(t, newMint, v.StakeMint())
	assert.Equal(t, uint64(0), v.DailyPayout())

	// the day at the old rate was flushed, nothing accrues at the new one
	require.NoError(t, v.Update(t0+2*86400))
	p, _ := v.Participant(staker)
	assert.Equal(t, uint64(86400), p.Earned)
}
