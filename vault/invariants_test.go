// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/test/datagen"
)

type opKind uint8

const (
	opStake opKind = iota
	opUnstake
	opClaim
	opUpdate
	opFund
	opCount
)

type op struct {
	Kind    opKind
	Who     uint8
	Amount  uint32
	Advance uint16
}

// TestRandomSequencesKeepInvariants drives random operation sequences and checks that
// the stake sum, capacity, time monotonicity and fault atomicity hold after every step.
func TestRandomSequencesKeepInvariants(t *testing.T) {
	identities := datagen.RandAddresses(16)

	for seed := range int64(20) {
		f := fuzz.NewWithSeed(seed).NilChance(0).NumElements(200, 400).Funcs(
			func(o *op, c fuzz.Continue) {
				o.Kind = opKind(c.Intn(int(opCount)))
				o.Who = uint8(c.Intn(len(identities)))
				o.Amount = uint32(c.Intn(1000))
				o.Advance = uint16(c.Intn(7200))
			},
		)
		var ops []op
		f.Fuzz(&ops)

		v := New(datagen.RandAddress(), datagen.RandAddress(), 86400*1000, 255)
		now := t0
		for _, o := range ops {
			now += uint64(o.Advance)
			before := v.Copy()
			prevUpdated := v.LastUpdated()

			var err error
			id := identities[o.Who]
			switch o.Kind {
			case opStake:
				err = v.Stake(now, id, uint64(o.Amount))
			case opUnstake:
				_, err = v.Unstake(now, id, uint64(o.Amount))
			case opClaim:
				_, err = v.Claim(now, id)
			case opUpdate:
				err = v.Update(now)
			case opFund:
				err = v.Fund(uint64(o.Amount) * 1000)
			}

			if err != nil {
				require.Equal(t, before, v, "seed %d: failed %v must not mutate", seed, o.Kind)
			}
			require.GreaterOrEqual(t, v.LastUpdated(), prevUpdated)
			require.LessOrEqual(t, v.Count(), Capacity)
			require.NoError(t, v.Validate(), "seed %d", seed)
		}
	}
}

func TestRewardsNeverExceedPayout(t *testing.T) {
	v := New(acct.Address{}, acct.Address{}, 1_000_000, 255)
	ids := datagen.RandAddresses(7)
	for _, id := range ids {
		require.NoError(t, v.Stake(t0, id, datagen.RandAmount(10_000)))
	}
	require.NoError(t, v.Update(t0+86400))

	var total uint64
	for _, p := range v.Participants() {
		total += p.Earned
	}
	assert.LessOrEqual(t, total, uint64(1_000_000), "truncation only ever rounds down")
}
