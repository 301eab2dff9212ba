// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakevault/api"
	"github.com/vechain/stakevault/api/admin/health"
	"github.com/vechain/stakevault/clock"
	"github.com/vechain/stakevault/cmd/stakevault/httpserver"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/metrics"
)

// newClock returns the ledger clock. The offsetter is nil when NTP is disabled.
func newClock(cfg *Config) (clock.Clock, health.Offsetter, func()) {
	if cfg.DisableNTP {
		return clock.NewSystem(), nil, func() {}
	}
	ntp := clock.NewNTP(cfg.NTPServer, cfg.NTPInterval)
	return ntp, ntp, ntp.Stop
}

func serveAction(ctx *cli.Context) error {
	exitCtx := handleExitSignal()
	defer func() { log.Info("exited") }()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	logLevel := initLogger(os.Stderr, cfg)

	if cfg.EnableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	clk, offsetter, stopClock := newClock(cfg)
	defer stopClock()

	n, err := openNode(cfg, clk)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing databases..."); n.Close() }()

	var apiLogs atomic.Bool
	apiLogs.Store(cfg.EnableAPILogs)

	handler, closeAPI := api.New(n.program, n.host, n.events, api.Options{
		AllowedOrigins:       cfg.APICors,
		PprofOn:              cfg.PprofOn,
		EnableReqLogger:      &apiLogs,
		SlowQueriesThreshold: cfg.APISlowQueriesThreshold,
		Log5xxErrors:         cfg.APILog5xxErrors,
		EnableMetrics:        cfg.EnableMetrics,
		EnableFaucet:         cfg.EnableFaucet,
	})
	defer closeAPI()

	closers := make([]func(), 0, 3)
	defer func() { shutdown(closers) }()

	apiURL, stopAPI, err := httpserver.StartAPIServer(cfg.APIAddr, handler)
	if err != nil {
		return err
	}
	closers = append(closers, stopAPI)

	metricsURL := ""
	if cfg.EnableMetrics {
		url, stop, err := httpserver.StartMetricsServer(cfg.MetricsAddr)
		if err != nil {
			return err
		}
		metricsURL = url
		closers = append(closers, stop)
	}

	adminURL := ""
	if cfg.EnableAdmin {
		url, stop, err := httpserver.StartAdminServer(cfg.AdminAddr, logLevel, &apiLogs, health.New(n.host, offsetter))
		if err != nil {
			return err
		}
		adminURL = url
		closers = append(closers, stop)
	}

	id, _ := programID(cfg)
	log.Info("stakevault started",
		"program", id,
		"dataDir", cfg.DataDir,
		"api", apiURL,
		"metrics", metricsURL,
		"admin", adminURL,
	)

	<-exitCtx.Done()
	return nil
}

// shutdown stops the servers in parallel and waits for all of them.
func shutdown(closers []func()) {
	log.Info("stopping servers...")
	var g errgroup.Group
	for _, c := range closers {
		g.Go(func() error {
			c()
			return nil
		})
	}
	_ = g.Wait()
}
