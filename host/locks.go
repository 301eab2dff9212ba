// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"context"
	"sync"

	"github.com/vechain/stakevault/acct"
)

// lockTable hands out one exclusive lock per vault. Entries are dropped when
// nobody holds or waits for them.
type lockTable struct {
	mu    sync.Mutex
	locks map[acct.Address]*vaultLock
}

type vaultLock struct {
	ch   chan struct{}
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[acct.Address]*vaultLock)}
}

// acquire blocks until the lock of id is held or ctx is done.
func (t *lockTable) acquire(ctx context.Context, id acct.Address) (release func(), err error) {
	t.mu.Lock()
	l, ok := t.locks[id]
	if !ok {
		l = &vaultLock{ch: make(chan struct{}, 1)}
		t.locks[id] = l
	}
	l.refs++
	t.mu.Unlock()

	unref := func() {
		t.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(t.locks, id)
		}
		t.mu.Unlock()
	}

	select {
	case l.ch <- struct{}{}:
		return func() {
			<-l.ch
			unref()
		}, nil
	case <-ctx.Done():
		unref()
		return nil, ctx.Err()
	}
}

func (t *lockTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
