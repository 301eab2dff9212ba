// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/eventdb"
	"github.com/vechain/stakevault/test/datagen"
)

func newEvents(n int) []*eventdb.Event {
	vaults := datagen.RandAddresses(2)
	signers := datagen.RandAddresses(3)
	kinds := []eventdb.Kind{eventdb.KindStake, eventdb.KindUnstake, eventdb.KindClaim}

	events := make([]*eventdb.Event, 0, n)
	for i := range n {
		events = append(events, &eventdb.Event{
			Vault:  vaults[i%2],
			Kind:   kinds[i%3],
			Signer: signers[i%3],
			Time:   uint64(1000 + i),
			Payload: eventdb.Payload{
				Amount:      uint64(i + 1),
				TotalStaked: ^uint64(0),
			},
		})
	}
	return events
}

func TestEventDB(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	events := newEvents(100)
	require.NoError(t, db.Insert(events...))
	for i, ev := range events {
		assert.Equal(t, uint64(i+1), ev.Seq)
	}

	all, err := db.Filter(nil)
	require.NoError(t, err)
	assert.Equal(t, events, all)

	limit := 5
	vault := events[0].Vault
	got, err := db.Filter(&eventdb.Filter{
		Vault:   &vault,
		Kinds:   []eventdb.Kind{eventdb.KindStake},
		Range:   &eventdb.Range{From: 1000, To: 1050},
		Options: &eventdb.Options{Offset: 0, Limit: uint64(limit)},
	})
	require.NoError(t, err)
	assert.Len(t, got, limit)
	for _, ev := range got {
		assert.Equal(t, vault, ev.Vault)
		assert.Equal(t, eventdb.KindStake, ev.Kind)
		assert.Equal(t, ^uint64(0), ev.TotalStaked)
	}

	signer := events[1].Signer
	got, err = db.Filter(&eventdb.Filter{Signer: &signer, Order: eventdb.DESC})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, events[97].Seq, got[0].Seq)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i-1].Seq, got[i].Seq)
	}
}

func TestEventDBPersistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := eventdb.New(path)
	require.NoError(t, err)
	require.NoError(t, db.Insert(newEvents(3)...))
	require.NoError(t, db.Close())

	db, err = eventdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	all, err := db.Filter(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, path, db.Path())
	assert.NotEmpty(t, db.SQLiteVersion())
}

func TestEventDBSubscribe(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	ch := make(chan []*eventdb.Event, 1)
	sub := db.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	events := newEvents(2)
	require.NoError(t, db.Insert(events...))

	select {
	case got := <-ch:
		assert.Equal(t, events, got)
	case <-time.After(time.Second):
		t.Fatal("no events delivered")
	}
}
