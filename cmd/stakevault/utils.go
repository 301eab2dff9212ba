// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/clock"
	"github.com/vechain/stakevault/eventdb"
	"github.com/vechain/stakevault/host"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/lvldb"
	"github.com/vechain/stakevault/program"
)

// defaultProgramName seeds the program id when none is configured.
const defaultProgramName = "stakevault"

func initLogger(w io.Writer, cfg *Config) *slog.LevelVar {
	logLevel := log.FromLegacyLevel(int(cfg.Verbosity))
	var level slog.LevelVar
	level.Set(logLevel)

	// loadConfig has validated the format
	format, _ := log.ParseFormat(cfg.LogFormat)
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) && os.Getenv("TERM") != "dumb"
	}
	handler := log.NewHandler(w, &level, format, useColor)
	log.SetDefault(log.NewLogger(handler))
	return &level
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".stakevault")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func programID(cfg *Config) (acct.Address, error) {
	if cfg.ProgramID == "" {
		return acct.BytesToAddress([]byte(defaultProgramName)), nil
	}
	id, err := acct.ParseAddress(cfg.ProgramID)
	if err != nil {
		return acct.Address{}, errors.WithMessage(err, "program id")
	}
	return id, nil
}

func parseAddressFlag(ctx *cli.Context, f cli.StringFlag) (acct.Address, error) {
	s := ctx.String(f.Name)
	if s == "" {
		return acct.Address{}, errors.Errorf("-%s is required", f.Name)
	}
	addr, err := acct.ParseAddress(s)
	if err != nil {
		return acct.Address{}, errors.WithMessagef(err, "-%s", f.Name)
	}
	return addr, nil
}

// node bundles the opened storage and program of a data dir.
type node struct {
	db      *lvldb.LevelDB
	events  *eventdb.EventDB
	host    *host.Host
	program *program.Program
}

func openNode(cfg *Config, clk clock.Clock) (*node, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", cfg.DataDir)
	}
	id, err := programID(cfg)
	if err != nil {
		return nil, err
	}

	db, err := lvldb.New(filepath.Join(cfg.DataDir, "vaults.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open vault database")
	}
	events, err := eventdb.New(filepath.Join(cfg.DataDir, "events.db"))
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "open event database")
	}
	h, err := host.New(db, clock.Monotonic(clk), events, host.Options{
		CacheSize:  cfg.CacheSize,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		events.Close()
		db.Close()
		return nil, err
	}
	return &node{
		db:      db,
		events:  events,
		host:    h,
		program: program.New(id, h, events),
	}, nil
}

func (n *node) Close() {
	if err := n.events.Close(); err != nil {
		log.Warn("close event database", "err", err)
	}
	if err := n.db.Close(); err != nil {
		log.Warn("close vault database", "err", err)
	}
}
