// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/program"
)

// withNode loads the configuration, opens the data dir and runs fn against it.
func withNode(ctx *cli.Context, fn func(n *node) error) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	initLogger(ctx.App.ErrWriter, cfg)

	clk, _, stopClock := newClock(cfg)
	defer stopClock()

	n, err := openNode(cfg, clk)
	if err != nil {
		return err
	}
	defer n.Close()
	return fn(n)
}

func mustAddresses(ctx *cli.Context, flags ...cli.StringFlag) ([]acct.Address, error) {
	out := make([]acct.Address, 0, len(flags))
	for _, f := range flags {
		addr, err := parseAddressFlag(ctx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

func createAction(ctx *cli.Context) error {
	addrs, err := mustAddresses(ctx, signerFlag, mintFlag)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		id, err := n.program.Initialize(context.Background(), addrs[0], addrs[1], ctx.Uint64(dailyPayoutFlag.Name))
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, id)
		return nil
	})
}

func updateAction(ctx *cli.Context) error {
	addrs, err := mustAddresses(ctx, vaultFlag, signerFlag, authorityFlag, mintFlag)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		return n.program.Update(context.Background(), addrs[0], addrs[1], addrs[2], addrs[3], ctx.Uint64(dailyPayoutFlag.Name))
	})
}

// amountAction adapts an instruction taking a vault, a signer and an amount.
func amountAction(op func(p *program.Program, ctx context.Context, id, signer acct.Address, amount uint64) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		addrs, err := mustAddresses(ctx, vaultFlag, signerFlag)
		if err != nil {
			return err
		}
		return withNode(ctx, func(n *node) error {
			return op(n.program, context.Background(), addrs[0], addrs[1], ctx.Uint64(amountFlag.Name))
		})
	}
}

var (
	fundAction     = amountAction((*program.Program).Fund)
	withdrawAction = amountAction((*program.Program).Withdraw)
	stakeAction    = amountAction((*program.Program).Stake)
)

func unstakeAction(ctx *cli.Context) error {
	addrs, err := mustAddresses(ctx, vaultFlag, signerFlag)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		res, err := n.program.Unstake(context.Background(), addrs[0], addrs[1], ctx.Uint64(amountFlag.Name))
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "removed=%v forfeited=%d\n", res.Removed, res.Forfeited)
		return nil
	})
}

func claimAction(ctx *cli.Context) error {
	addrs, err := mustAddresses(ctx, vaultFlag, signerFlag)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		amount, err := n.program.Claim(context.Background(), addrs[0], addrs[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, amount)
		return nil
	})
}

func closeAction(ctx *cli.Context) error {
	addrs, err := mustAddresses(ctx, vaultFlag, signerFlag)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		return n.program.Close(context.Background(), addrs[0], addrs[1])
	})
}

func showAction(ctx *cli.Context) error {
	id, err := parseAddressFlag(ctx, vaultFlag)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		v, err := n.program.Vault(id)
		if err != nil {
			return err
		}
		w := ctx.App.Writer
		fmt.Fprintf(w, "vault        %v\n", id)
		fmt.Fprintf(w, "authority    %v\n", v.Authority())
		fmt.Fprintf(w, "stake mint   %v\n", v.StakeMint())
		fmt.Fprintf(w, "reward pool  %d\n", v.RewardPool())
		fmt.Fprintf(w, "total staked %d\n", v.TotalStaked())
		fmt.Fprintf(w, "daily payout %d\n", v.DailyPayout())
		fmt.Fprintf(w, "last updated %d\n", v.LastUpdated())
		fmt.Fprintf(w, "participants %d\n", v.Count())
		for _, p := range v.Participants() {
			fmt.Fprintf(w, "  %v staked=%d earned=%d\n", p.Identity, p.Staked, p.Earned)
		}
		return nil
	})
}

func inspectAction(ctx *cli.Context) error {
	id, err := parseAddressFlag(ctx, vaultFlag)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		raw, err := n.host.RawRecord(id)
		if err != nil {
			return err
		}
		v, err := n.host.Vault(id)
		if err != nil {
			return err
		}
		dumpRecord(ctx.App.Writer, raw, v)
		return nil
	})
}

func dumpRecord(w io.Writer, raw []byte, v any) {
	fmt.Fprintf(w, "record (%d bytes):\n%s", len(raw), hex.Dump(raw))
	cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, SortKeys: true}
	cfg.Fdump(w, v)
}

func mintAction(ctx *cli.Context) error {
	addrs, err := mustAddresses(ctx, mintFlag, ownerFlag)
	if err != nil {
		return err
	}
	amount := ctx.Uint64(amountFlag.Name)
	if amount == 0 {
		return errors.New("-amount must be positive")
	}
	return withNode(ctx, func(n *node) error {
		if err := n.host.Mint(addrs[0], addrs[1], amount); err != nil {
			return err
		}
		bal, err := n.host.Balance(addrs[0], addrs[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, bal)
		return nil
	})
}

func balanceAction(ctx *cli.Context) error {
	addrs, err := mustAddresses(ctx, mintFlag, ownerFlag)
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		bal, err := n.host.Balance(addrs[0], addrs[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, bal)
		return nil
	})
}
