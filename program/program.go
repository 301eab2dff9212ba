// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package program pairs vault ledger mutations with the token movements
// they stand for, and runs each pair as one host transaction.
package program

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/eventdb"
	"github.com/vechain/stakevault/host"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/vault"
	"github.com/vechain/stakevault/vault/faults"
)

var logger = log.WithContext("pkg", "program")

// DefaultBump is the bump used when deriving vault addresses.
const DefaultBump uint8 = 255

// Program executes vault instructions.
type Program struct {
	id     acct.Address
	host   *host.Host
	events *eventdb.EventDB
}

// New creates a program identified by id. events may be nil.
func New(id acct.Address, h *host.Host, events *eventdb.EventDB) *Program {
	return &Program{id: id, host: h, events: events}
}

// ID returns the program id.
func (p *Program) ID() acct.Address { return p.id }

// VaultAddress returns the address of the vault creator would create for mint.
func (p *Program) VaultAddress(mint, creator acct.Address) acct.Address {
	return acct.DeriveVault(p.id, DefaultBump, mint, creator)
}

func (p *Program) exec(ctx context.Context, name string, id acct.Address, fn func(tx *host.Tx) error) error {
	err := p.host.Exec(ctx, id, fn)
	if err != nil {
		kind := failureKind(err)
		metricFailures().AddWithLabel(1, map[string]string{"instruction": name, "kind": kind})
		logger.Debug("instruction failed", "instruction", name, "vault", id, "kind", kind, "err", err)
		return err
	}
	metricInstructions().AddWithLabel(1, map[string]string{"instruction": name})
	if v, err := p.host.Vault(id); err == nil {
		labels := map[string]string{"vault": id.AbbrevString()}
		metricParticipants().SetWithLabel(int64(v.Count()), labels)
		metricTotalStaked().SetWithLabel(int64(min(v.TotalStaked(), 1<<63-1)), labels)
	}
	return nil
}

func failureKind(err error) string {
	if kind := faults.KindOf(err); kind != faults.Unknown {
		return kind.String()
	}
	if errors.Is(err, host.ErrVaultNotFound) {
		return faults.NotFound.String()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "other"
}

func requireAmount(amount uint64) error {
	if amount == 0 {
		return faults.New(faults.InvalidAmount, "amount must be positive")
	}
	return nil
}

func requireAuthority(v *vault.Vault, signer acct.Address) error {
	if v.Authority() != signer {
		return faults.Newf(faults.Unauthorized, "signer %v is not the vault authority", signer.AbbrevString())
	}
	return nil
}

func payload(v *vault.Vault, amount uint64) eventdb.Payload {
	return eventdb.Payload{
		Amount:      amount,
		TotalStaked: v.TotalStaked(),
		RewardPool:  v.RewardPool(),
		DailyPayout: v.DailyPayout(),
	}
}

// Initialize creates a vault owned by signer for mint and returns its address.
func (p *Program) Initialize(ctx context.Context, signer, mint acct.Address, dailyPayout uint64) (acct.Address, error) {
	id := p.VaultAddress(mint, signer)
	err := p.exec(ctx, "initialize", id, func(tx *host.Tx) error {
		v := vault.New(signer, mint, dailyPayout, DefaultBump)
		if err := tx.Create(v); err != nil {
			return err
		}
		tx.Emit(eventdb.KindInitialize, signer, payload(v, 0))
		return nil
	})
	if err != nil {
		return acct.Address{}, err
	}
	logger.Info("vault initialized", "vault", id, "authority", signer, "mint", mint, "dailyPayout", dailyPayout)
	return id, nil
}

// Update reconfigures the vault. Only the authority may call it, and the
// mint can only change while the vault holds neither stake nor rewards.
func (p *Program) Update(ctx context.Context, id, signer, newAuthority, mint acct.Address, dailyPayout uint64) error {
	return p.exec(ctx, "update", id, func(tx *host.Tx) error {
		v, err := tx.MustVault()
		if err != nil {
			return err
		}
		if err := requireAuthority(v, signer); err != nil {
			return err
		}
		if mint != v.StakeMint() && (v.TotalStaked() > 0 || v.RewardPool() > 0) {
			return faults.New(faults.InvalidArgument, "stake mint cannot change while the vault holds funds")
		}
		if err := v.Reconfigure(tx.Now(), newAuthority, mint, dailyPayout); err != nil {
			return err
		}
		tx.Emit(eventdb.KindUpdate, signer, payload(v, 0))
		return nil
	})
}

// Fund moves amount from signer into the vault's reward pool.
func (p *Program) Fund(ctx context.Context, id, signer acct.Address, amount uint64) error {
	if err := requireAmount(amount); err != nil {
		return err
	}
	return p.exec(ctx, "fund", id, func(tx *host.Tx) error {
		v, err := tx.MustVault()
		if err != nil {
			return err
		}
		if err := tx.Book().Transfer(v.StakeMint(), signer, id, signer, amount); err != nil {
			return err
		}
		if err := v.Fund(amount); err != nil {
			return err
		}
		tx.Emit(eventdb.KindFund, signer, payload(v, amount))
		return nil
	})
}

// Withdraw moves amount from the reward pool to the authority.
func (p *Program) Withdraw(ctx context.Context, id, signer acct.Address, amount uint64) error {
	if err := requireAmount(amount); err != nil {
		return err
	}
	return p.exec(ctx, "withdraw", id, func(tx *host.Tx) error {
		v, err := tx.MustVault()
		if err != nil {
			return err
		}
		if err := requireAuthority(v, signer); err != nil {
			return err
		}
		// the vault signs for its own custody account
		if err := tx.Book().Transfer(v.StakeMint(), id, signer, id, amount); err != nil {
			return err
		}
		if err := v.Withdraw(amount); err != nil {
			return err
		}
		tx.Emit(eventdb.KindWithdraw, signer, payload(v, amount))
		return nil
	})
}

// Stake deposits amount of signer's tokens as stake.
func (p *Program) Stake(ctx context.Context, id, signer acct.Address, amount uint64) error {
	if err := requireAmount(amount); err != nil {
		return err
	}
	return p.exec(ctx, "stake", id, func(tx *host.Tx) error {
		v, err := tx.MustVault()
		if err != nil {
			return err
		}
		if err := v.Stake(tx.Now(), signer, amount); err != nil {
			return err
		}
		if err := tx.Book().Transfer(v.StakeMint(), signer, id, signer, amount); err != nil {
			return err
		}
		tx.Emit(eventdb.KindStake, signer, payload(v, amount))
		return nil
	})
}

// Unstake returns amount of signer's stake. Fully unstaking forfeits
// unclaimed rewards, which stay in the reward pool.
func (p *Program) Unstake(ctx context.Context, id, signer acct.Address, amount uint64) (vault.UnstakeResult, error) {
	if err := requireAmount(amount); err != nil {
		return vault.UnstakeResult{}, err
	}
	var res vault.UnstakeResult
	err := p.exec(ctx, "unstake", id, func(tx *host.Tx) error {
		v, err := tx.MustVault()
		if err != nil {
			return err
		}
		if err := tx.Book().Transfer(v.StakeMint(), id, signer, id, amount); err != nil {
			return err
		}
		if res, err = v.Unstake(tx.Now(), signer, amount); err != nil {
			return err
		}
		pl := payload(v, amount)
		pl.Forfeited = res.Forfeited
		tx.Emit(eventdb.KindUnstake, signer, pl)
		return nil
	})
	if err != nil {
		return vault.UnstakeResult{}, err
	}
	if res.Forfeited > 0 {
		logger.Info("unclaimed rewards forfeited", "vault", id, "participant", signer, "amount", res.Forfeited)
	}
	return res, nil
}

// Claim pays out signer's earned rewards and returns the amount paid.
func (p *Program) Claim(ctx context.Context, id, signer acct.Address) (uint64, error) {
	var reward uint64
	err := p.exec(ctx, "claim", id, func(tx *host.Tx) error {
		v, err := tx.MustVault()
		if err != nil {
			return err
		}
		if reward, err = v.Claim(tx.Now(), signer); err != nil {
			return err
		}
		if reward > 0 {
			if err := tx.Book().Transfer(v.StakeMint(), id, signer, id, reward); err != nil {
				return err
			}
		}
		tx.Emit(eventdb.KindClaim, signer, payload(v, reward))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reward, nil
}

// Close deletes an empty vault. Only the authority may call it.
func (p *Program) Close(ctx context.Context, id, signer acct.Address) error {
	err := p.exec(ctx, "close", id, func(tx *host.Tx) error {
		v, err := tx.MustVault()
		if err != nil {
			return err
		}
		if err := requireAuthority(v, signer); err != nil {
			return err
		}
		if v.Count() > 0 || v.RewardPool() > 0 {
			return faults.Newf(faults.InvalidArgument,
				"vault still holds %d participants and %d reward", v.Count(), v.RewardPool())
		}
		tx.Delete()
		tx.Emit(eventdb.KindClose, signer, payload(v, 0))
		return nil
	})
	if err == nil {
		logger.Info("vault closed", "vault", id)
	}
	return err
}

// Vault returns the committed state of vault id.
func (p *Program) Vault(id acct.Address) (*vault.Vault, error) {
	return p.host.Vault(id)
}

// Events returns events of vault id, oldest first, starting at offset.
func (p *Program) Events(id acct.Address, offset, limit uint64) ([]*eventdb.Event, error) {
	if p.events == nil {
		return nil, nil
	}
	return p.events.Filter(&eventdb.Filter{
		Vault:   &id,
		Options: &eventdb.Options{Offset: offset, Limit: limit},
	})
}
