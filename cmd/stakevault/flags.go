// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakevault/log"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a yaml config file; flags override its values",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for vault and event databases",
	}
	programIDFlag = cli.StringFlag{
		Name:  "program-id",
		Usage: "program address used to derive vault addresses (default derived from the program name)",
	}
	cacheSizeFlag = cli.IntFlag{
		Name:  "cache-size",
		Value: 512,
		Usage: "number of decoded vault records kept in memory",
	}
	maxRetriesFlag = cli.IntFlag{
		Name:   "max-retries",
		Value:  8,
		Usage:  "attempts of an instruction that conflicts with concurrent commits",
		Hidden: true,
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8679",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.DurationFlag{
		Name:  "api-slow-queries-threshold",
		Value: time.Second,
		Usage: "log API requests slower than this, 0 to disable",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log API requests answered with a 5xx status",
	}
	enableFaucetFlag = cli.BoolFlag{
		Name:  "enable-faucet",
		Usage: "enables POST /accounts/{address}/mint for development",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Usage: "NTP server used to correct the ledger clock (default pool.ntp.org)",
	}
	ntpIntervalFlag = cli.DurationFlag{
		Name:  "ntp-interval",
		Value: 10 * time.Minute,
		Usage: "interval between NTP synchronizations",
	}
	disableNTPFlag = cli.BoolFlag{
		Name:  "disable-ntp",
		Usage: "use the local system clock without NTP correction",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	logFormatFlag = cli.StringFlag{
		Name:  "log-format",
		Value: string(log.FormatTerminal),
		Usage: "log output format: terminal, json or logfmt",
	}

	// instruction flags
	vaultFlag = cli.StringFlag{
		Name:  "vault",
		Usage: "vault address",
	}
	signerFlag = cli.StringFlag{
		Name:  "signer",
		Usage: "address signing the instruction",
	}
	mintFlag = cli.StringFlag{
		Name:  "mint",
		Usage: "token mint address",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "token account owner address",
	}
	authorityFlag = cli.StringFlag{
		Name:  "authority",
		Usage: "new vault authority address",
	}
	amountFlag = cli.Uint64Flag{
		Name:  "amount",
		Usage: "token amount",
	}
	dailyPayoutFlag = cli.Uint64Flag{
		Name:  "daily-payout",
		Usage: "reward paid out per day across all participants",
	}
)
