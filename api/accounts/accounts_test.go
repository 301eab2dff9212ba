// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/api/accounts"
	"github.com/vechain/stakevault/clock"
	"github.com/vechain/stakevault/host"
	"github.com/vechain/stakevault/lvldb"
	"github.com/vechain/stakevault/test/datagen"
)

func initAccountsServer(t *testing.T, faucet bool) (*httptest.Server, *host.Host) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h, err := host.New(db, clock.NewManual(1), nil, host.Options{})
	require.NoError(t, err)

	router := mux.NewRouter()
	accounts.New(h, faucet).Mount(router, "/accounts")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, h
}

func httpPost(t *testing.T, url string, body any) ([]byte, int) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func balancePath(owner, mint acct.Address) string {
	return "/accounts/" + owner.String() + "/balances/" + mint.String()
}

func TestGetBalance(t *testing.T) {
	ts, h := initAccountsServer(t, false)
	owner, mint := datagen.RandAddress(), datagen.RandAddress()

	data, status := httpGet(t, ts.URL+balancePath(owner, mint))
	require.Equal(t, http.StatusOK, status)
	var bal accounts.Balance
	require.NoError(t, json.Unmarshal(data, &bal))
	assert.Equal(t, owner, bal.Owner)
	assert.Equal(t, mint, bal.Mint)
	assert.EqualValues(t, 0, bal.Balance)

	require.NoError(t, h.Mint(mint, owner, 42))
	data, status = httpGet(t, ts.URL+balancePath(owner, mint))
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(data, &bal))
	assert.EqualValues(t, 42, bal.Balance)

	_, status = httpGet(t, ts.URL+"/accounts/0x12/balances/"+mint.String())
	assert.Equal(t, http.StatusBadRequest, status)
	_, status = httpGet(t, ts.URL+"/accounts/"+owner.String()+"/balances/0x12")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFaucet(t *testing.T) {
	ts, h := initAccountsServer(t, true)
	owner, mint := datagen.RandAddress(), datagen.RandAddress()
	url := ts.URL + "/accounts/" + owner.String() + "/mint"

	data, status := httpPost(t, url, map[string]any{"mint": mint, "amount": "1000"})
	require.Equal(t, http.StatusOK, status, string(data))
	var bal accounts.Balance
	require.NoError(t, json.Unmarshal(data, &bal))
	assert.EqualValues(t, 1000, bal.Balance)

	got, err := h.Balance(mint, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), got)

	_, status = httpPost(t, url, map[string]any{"mint": mint, "amount": "0"})
	assert.Equal(t, http.StatusBadRequest, status)
	_, status = httpPost(t, url, map[string]any{"mint": mint, "amount": "0xffffffffffffffff"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFaucetDisabled(t *testing.T) {
	ts, _ := initAccountsServer(t, false)
	owner, mint := datagen.RandAddress(), datagen.RandAddress()

	_, status := httpPost(t, ts.URL+"/accounts/"+owner.String()+"/mint", map[string]any{"mint": mint, "amount": "1"})
	assert.Equal(t, http.StatusForbidden, status)
}
