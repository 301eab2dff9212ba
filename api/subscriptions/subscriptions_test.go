// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/eventdb"
	"github.com/vechain/stakevault/test/datagen"
)

func initSubscriptionsServer(t *testing.T) (*httptest.Server, *eventdb.EventDB, *Subscriptions) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	subs := New(db, []string{"*"})
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, db, subs
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/events", RawQuery: query}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func newEvent(vault, signer acct.Address, kind eventdb.Kind, amount uint64) *eventdb.Event {
	return &eventdb.Event{
		Vault:   vault,
		Kind:    kind,
		Signer:  signer,
		Time:    uint64(time.Now().Unix()),
		Payload: eventdb.Payload{Amount: amount},
	}
}

func TestSubscribeEvents(t *testing.T) {
	ts, db, _ := initSubscriptionsServer(t)
	vault, other := datagen.RandAddress(), datagen.RandAddress()
	signer := datagen.RandAddress()

	conn := dial(t, ts, "vault="+vault.String())

	require.NoError(t, db.Insert(
		newEvent(other, signer, eventdb.KindStake, 1),
		newEvent(vault, signer, eventdb.KindStake, 2),
	))
	require.NoError(t, db.Insert(newEvent(vault, signer, eventdb.KindClaim, 3)))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg EventMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, vault, msg.Vault)
	assert.Equal(t, eventdb.KindStake, msg.Kind)
	assert.Equal(t, uint64(2), msg.Amount)
	assert.Equal(t, uint64(2), msg.Seq)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, eventdb.KindClaim, msg.Kind)
	assert.Equal(t, uint64(3), msg.Amount)
}

func TestSubscribeEventsByKind(t *testing.T) {
	ts, db, _ := initSubscriptionsServer(t)
	vault, signer := datagen.RandAddress(), datagen.RandAddress()

	conn := dial(t, ts, "kind=unstake&signer="+signer.String())

	require.NoError(t, db.Insert(
		newEvent(vault, signer, eventdb.KindStake, 10),
		newEvent(vault, datagen.RandAddress(), eventdb.KindUnstake, 11),
		newEvent(vault, signer, eventdb.KindUnstake, 12),
	))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg EventMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, eventdb.KindUnstake, msg.Kind)
	assert.Equal(t, uint64(12), msg.Amount)
}

func TestSubscribeInvalidArgument(t *testing.T) {
	ts, _, _ := initSubscriptionsServer(t)

	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/events", RawQuery: "vault=0x12"}
	_, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCloseSubscriptions(t *testing.T) {
	ts, _, subs := initSubscriptionsServer(t)
	conn := dial(t, ts, "")

	subs.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
}

func TestEventFilterMatch(t *testing.T) {
	vault, signer := datagen.RandAddress(), datagen.RandAddress()
	ev := newEvent(vault, signer, eventdb.KindFund, 1)

	assert.True(t, (&EventFilter{}).Match(ev))
	assert.True(t, (&EventFilter{Vault: &vault, Signer: &signer}).Match(ev))
	assert.False(t, (&EventFilter{Signer: &vault}).Match(ev))
	assert.False(t, (&EventFilter{Kinds: map[eventdb.Kind]bool{eventdb.KindClaim: true}}).Match(ev))

	filter, err := parseEventFilter(url.Values{"kind": {"fund", "claim"}})
	require.NoError(t, err)
	assert.True(t, filter.Match(ev))

	_, err = parseEventFilter(url.Values{"signer": {"nope"}})
	assert.Error(t, err)
}
