// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/test/datagen"
)

type cliRunner struct {
	dataDir string
}

func (r *cliRunner) run(t *testing.T, args ...string) (string, error) {
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	all := append([]string{"stakevault", "--data-dir", r.dataDir, "--disable-ntp", "--verbosity", "0"}, args...)
	err := app.Run(all)
	return strings.TrimSpace(out.String()), err
}

func (r *cliRunner) mustRun(t *testing.T, args ...string) string {
	out, err := r.run(t, args...)
	require.NoError(t, err, strings.Join(args, " "))
	return out
}

func TestCommandsLifecycle(t *testing.T) {
	r := &cliRunner{dataDir: t.TempDir()}
	mint := datagen.RandAddress().String()
	admin := datagen.RandAddress().String()
	alice := datagen.RandAddress().String()

	assert.Equal(t, "1000", r.mustRun(t, "mint", "--mint", mint, "--owner", admin, "--amount", "1000"))
	assert.Equal(t, "300", r.mustRun(t, "mint", "--mint", mint, "--owner", alice, "--amount", "300"))

	vault := r.mustRun(t, "create", "--signer", admin, "--mint", mint, "--daily-payout", "86400")
	require.True(t, strings.HasPrefix(vault, "0x"), vault)

	r.mustRun(t, "fund", "--vault", vault, "--signer", admin, "--amount", "400")
	r.mustRun(t, "stake", "--vault", vault, "--signer", alice, "--amount", "100")
	assert.Equal(t, "600", r.mustRun(t, "balance", "--mint", mint, "--owner", admin))
	assert.Equal(t, "200", r.mustRun(t, "balance", "--mint", mint, "--owner", alice))

	show := r.mustRun(t, "show", "--vault", vault)
	assert.Contains(t, show, "reward pool  400")
	assert.Contains(t, show, "total staked 100")
	assert.Contains(t, show, "participants 1")
	assert.Contains(t, show, alice)

	inspect := r.mustRun(t, "inspect", "--vault", vault)
	assert.Contains(t, inspect, "record (")
	assert.Contains(t, inspect, "totalStaked")

	// claiming right away may pay the reward of elapsed wall clock seconds
	claimed, err := strconv.ParseUint(r.mustRun(t, "claim", "--vault", vault, "--signer", alice), 10, 64)
	require.NoError(t, err)

	assert.Equal(t, "removed=true forfeited=0", r.mustRun(t, "unstake", "--vault", vault, "--signer", alice, "--amount", "100"))
	assert.Equal(t, strconv.FormatUint(300+claimed, 10), r.mustRun(t, "balance", "--mint", mint, "--owner", alice))

	r.mustRun(t, "withdraw", "--vault", vault, "--signer", admin, "--amount", strconv.FormatUint(400-claimed, 10))
	r.mustRun(t, "close", "--vault", vault, "--signer", admin)

	_, err = r.run(t, "show", "--vault", vault)
	assert.Error(t, err)
}

func TestCommandsUpdate(t *testing.T) {
	r := &cliRunner{dataDir: t.TempDir()}
	mint := datagen.RandAddress().String()
	admin := datagen.RandAddress().String()
	other := datagen.RandAddress().String()

	vault := r.mustRun(t, "create", "--signer", admin, "--mint", mint, "--daily-payout", "10")
	r.mustRun(t, "update", "--vault", vault, "--signer", admin, "--authority", other, "--mint", mint, "--daily-payout", "20")

	show := r.mustRun(t, "show", "--vault", vault)
	assert.Contains(t, show, "authority    "+other)
	assert.Contains(t, show, "daily payout 20")

	_, err := r.run(t, "update", "--vault", vault, "--signer", admin, "--authority", admin, "--mint", mint, "--daily-payout", "1")
	assert.Error(t, err)
}

func TestCommandsArgumentErrors(t *testing.T) {
	r := &cliRunner{dataDir: t.TempDir()}

	_, err := r.run(t, "stake", "--signer", datagen.RandAddress().String(), "--amount", "1")
	assert.ErrorContains(t, err, "-vault is required")

	_, err = r.run(t, "balance", "--mint", "0x12", "--owner", datagen.RandAddress().String())
	assert.ErrorContains(t, err, "-mint")

	_, err = r.run(t, "mint", "--mint", datagen.RandAddress().String(), "--owner", datagen.RandAddress().String())
	assert.ErrorContains(t, err, "-amount must be positive")
}
