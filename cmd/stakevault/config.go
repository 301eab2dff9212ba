// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakevault/log"
)

// Config holds the settings shared by all commands. Values come from
// defaultConfig, then the optional yaml file, then explicitly set flags.
type Config struct {
	DataDir   string `yaml:"data-dir"`
	ProgramID string `yaml:"program-id"`

	CacheSize  int `yaml:"cache-size"`
	MaxRetries int `yaml:"max-retries"`

	APIAddr                 string        `yaml:"api-addr"`
	APICors                 string        `yaml:"api-cors"`
	EnableAPILogs           bool          `yaml:"enable-api-logs"`
	APISlowQueriesThreshold time.Duration `yaml:"api-slow-queries-threshold"`
	APILog5xxErrors         bool          `yaml:"api-log-5xx-errors"`
	EnableFaucet            bool          `yaml:"enable-faucet"`
	PprofOn                 bool          `yaml:"pprof"`

	EnableMetrics bool   `yaml:"enable-metrics"`
	MetricsAddr   string `yaml:"metrics-addr"`
	EnableAdmin   bool   `yaml:"enable-admin"`
	AdminAddr     string `yaml:"admin-addr"`

	NTPServer   string        `yaml:"ntp-server"`
	NTPInterval time.Duration `yaml:"ntp-interval"`
	DisableNTP  bool          `yaml:"disable-ntp"`

	Verbosity uint64 `yaml:"verbosity"`
	LogFormat string `yaml:"log-format"`
}

func defaultConfig() *Config {
	return &Config{
		DataDir:                 defaultDataDir(),
		CacheSize:               512,
		MaxRetries:              8,
		APIAddr:                 "localhost:8679",
		APISlowQueriesThreshold: time.Second,
		MetricsAddr:             "localhost:2112",
		AdminAddr:               "localhost:2113",
		NTPInterval:             10 * time.Minute,
		Verbosity:               log.LegacyLevelInfo,
		LogFormat:               string(log.FormatTerminal),
	}
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return errors.Wrapf(err, "parse config file %v", path)
	}
	return nil
}

// loadConfig builds the effective configuration for the running command.
func loadConfig(ctx *cli.Context) (*Config, error) {
	cfg := defaultConfig()
	if path := ctx.GlobalString(configFlag.Name); path != "" {
		if err := loadConfigFile(path, cfg); err != nil {
			return nil, err
		}
	}

	setString := func(f cli.StringFlag, dst *string) {
		if ctx.GlobalIsSet(f.Name) {
			*dst = ctx.GlobalString(f.Name)
		}
	}
	setBool := func(f cli.BoolFlag, dst *bool) {
		if ctx.GlobalIsSet(f.Name) {
			*dst = ctx.GlobalBool(f.Name)
		}
	}
	setInt := func(f cli.IntFlag, dst *int) {
		if ctx.GlobalIsSet(f.Name) {
			*dst = ctx.GlobalInt(f.Name)
		}
	}
	setDuration := func(f cli.DurationFlag, dst *time.Duration) {
		if ctx.GlobalIsSet(f.Name) {
			*dst = ctx.GlobalDuration(f.Name)
		}
	}

	setString(dataDirFlag, &cfg.DataDir)
	setString(programIDFlag, &cfg.ProgramID)
	setInt(cacheSizeFlag, &cfg.CacheSize)
	setInt(maxRetriesFlag, &cfg.MaxRetries)
	setString(apiAddrFlag, &cfg.APIAddr)
	setString(apiCorsFlag, &cfg.APICors)
	setBool(enableAPILogsFlag, &cfg.EnableAPILogs)
	setDuration(apiSlowQueriesThresholdFlag, &cfg.APISlowQueriesThreshold)
	setBool(apiLog5xxErrorsFlag, &cfg.APILog5xxErrors)
	setBool(enableFaucetFlag, &cfg.EnableFaucet)
	setBool(pprofFlag, &cfg.PprofOn)
	setBool(enableMetricsFlag, &cfg.EnableMetrics)
	setString(metricsAddrFlag, &cfg.MetricsAddr)
	setBool(enableAdminFlag, &cfg.EnableAdmin)
	setString(adminAddrFlag, &cfg.AdminAddr)
	setString(ntpServerFlag, &cfg.NTPServer)
	setDuration(ntpIntervalFlag, &cfg.NTPInterval)
	setBool(disableNTPFlag, &cfg.DisableNTP)
	setString(logFormatFlag, &cfg.LogFormat)
	if ctx.GlobalIsSet(verbosityFlag.Name) {
		cfg.Verbosity = ctx.GlobalUint64(verbosityFlag.Name)
	}

	if cfg.DataDir == "" {
		return nil, errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if _, err := log.ParseFormat(cfg.LogFormat); err != nil {
		return nil, err
	}
	if cfg.NTPInterval <= 0 {
		return nil, errors.New("ntp interval must be positive")
	}
	return cfg, nil
}
