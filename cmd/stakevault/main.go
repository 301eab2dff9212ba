// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "stakevault"
	app.Usage = "Staking reward vaults over a token ledger"
	app.Copyright = "2025 VeChain Foundation <https://vechain.org/>"
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	app.Flags = []cli.Flag{
		configFlag,
		dataDirFlag,
		programIDFlag,
		cacheSizeFlag,
		maxRetriesFlag,
		apiAddrFlag,
		apiCorsFlag,
		enableAPILogsFlag,
		apiSlowQueriesThresholdFlag,
		apiLog5xxErrorsFlag,
		enableFaucetFlag,
		pprofFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
		ntpServerFlag,
		ntpIntervalFlag,
		disableNTPFlag,
		verbosityFlag,
		logFormatFlag,
	}
	app.Action = serveAction
	app.Commands = []cli.Command{
		{
			Name:   "serve",
			Usage:  "run the vault API server",
			Action: serveAction,
		},
		{
			Name:   "create",
			Usage:  "create a vault paying rewards in -mint",
			Flags:  []cli.Flag{signerFlag, mintFlag, dailyPayoutFlag},
			Action: createAction,
		},
		{
			Name:   "update",
			Usage:  "reconfigure a vault; only its authority may",
			Flags:  []cli.Flag{vaultFlag, signerFlag, authorityFlag, mintFlag, dailyPayoutFlag},
			Action: updateAction,
		},
		{
			Name:   "fund",
			Usage:  "add tokens to the reward pool of a vault",
			Flags:  []cli.Flag{vaultFlag, signerFlag, amountFlag},
			Action: fundAction,
		},
		{
			Name:   "withdraw",
			Usage:  "take tokens out of the reward pool of a vault",
			Flags:  []cli.Flag{vaultFlag, signerFlag, amountFlag},
			Action: withdrawAction,
		},
		{
			Name:   "stake",
			Usage:  "stake tokens into a vault",
			Flags:  []cli.Flag{vaultFlag, signerFlag, amountFlag},
			Action: stakeAction,
		},
		{
			Name:   "unstake",
			Usage:  "unstake tokens from a vault",
			Flags:  []cli.Flag{vaultFlag, signerFlag, amountFlag},
			Action: unstakeAction,
		},
		{
			Name:   "claim",
			Usage:  "claim the accrued rewards of -signer",
			Flags:  []cli.Flag{vaultFlag, signerFlag},
			Action: claimAction,
		},
		{
			Name:   "close",
			Usage:  "close an empty vault",
			Flags:  []cli.Flag{vaultFlag, signerFlag},
			Action: closeAction,
		},
		{
			Name:   "show",
			Usage:  "print a vault and its participants",
			Flags:  []cli.Flag{vaultFlag},
			Action: showAction,
		},
		{
			Name:   "inspect",
			Usage:  "dump the stored record of a vault",
			Flags:  []cli.Flag{vaultFlag},
			Action: inspectAction,
		},
		{
			Name:   "mint",
			Usage:  "credit tokens to an account, for development",
			Flags:  []cli.Flag{mintFlag, ownerFlag, amountFlag},
			Action: mintAction,
		},
		{
			Name:   "balance",
			Usage:  "print the balance of a token account",
			Flags:  []cli.Flag{mintFlag, ownerFlag},
			Action: balanceAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
