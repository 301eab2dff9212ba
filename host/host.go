// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package host runs vault instructions one at a time per vault and commits
// their effects all-or-nothing.
package host

import (
	"context"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/acct"
	"github.com/vechain/stakevault/cache"
	"github.com/vechain/stakevault/clock"
	"github.com/vechain/stakevault/eventdb"
	"github.com/vechain/stakevault/kv"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/transfer"
	"github.com/vechain/stakevault/vault"
)

var logger = log.WithContext("pkg", "host")

// RecordBucket holds snappy-compressed vault records keyed by vault address.
const RecordBucket = kv.Bucket("v/")

// ErrConflict is returned when a transaction kept losing to concurrent writers.
var ErrConflict = errors.New("transaction conflict")

// Options for the host.
type Options struct {
	CacheSize  int // number of decoded records kept in memory
	MaxRetries int // attempts per Exec on write conflicts
}

const (
	defaultCacheSize  = 256
	defaultMaxRetries = 8
)

// Host is the execution environment of vaults.
type Host struct {
	store      kv.Store
	records    kv.Store
	clock      clock.Clock
	events     *eventdb.EventDB
	cache      *cache.LRU[acct.Address, *vault.Vault]
	locks      *lockTable
	commitLock sync.Mutex
	maxRetries int
}

// New creates a host over store. events may be nil, in which case emitted
// events are dropped.
func New(store kv.Store, clk clock.Clock, events *eventdb.EventDB, opts Options) (*Host, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	c, err := cache.NewLRU[acct.Address, *vault.Vault](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Host{
		store:      store,
		records:    RecordBucket.NewStore(store),
		clock:      clk,
		events:     events,
		cache:      c,
		locks:      newLockTable(),
		maxRetries: opts.MaxRetries,
	}, nil
}

// Clock returns the clock of the host.
func (h *Host) Clock() clock.Clock { return h.clock }

// Exec runs fn with exclusive access to vault id. fn may be re-run when its
// book reads were invalidated by a concurrent commit, so it must have no
// side effects outside tx.
func (h *Host) Exec(ctx context.Context, id acct.Address, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	release, err := h.locks.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	start := time.Now()
	defer func() {
		metricExecDuration().Observe(time.Since(start).Milliseconds())
	}()

	for attempt := 0; attempt < h.maxRetries; attempt++ {
		// the last attempt runs under the commit lock and cannot conflict
		exclusive := attempt == h.maxRetries-1
		ok, err := h.try(ctx, id, fn, exclusive)
		if err != nil || ok {
			return err
		}
		metricConflicts().Add(1)
		logger.Debug("transaction conflict, retrying", "vault", id, "attempt", attempt+1)
	}
	return errors.WithMessagef(ErrConflict, "vault %v", id)
}

func (h *Host) try(ctx context.Context, id acct.Address, fn func(tx *Tx) error, exclusive bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if exclusive {
		h.commitLock.Lock()
		defer h.commitLock.Unlock()
	}
	v, err := h.loadRecord(id)
	if err != nil {
		return false, err
	}
	if v != nil {
		v = v.Copy()
	}
	tx := newTx(id, h.clock.Now(), v, newStaged(h.store))
	if err := fn(tx); err != nil {
		return false, err
	}
	if !exclusive {
		h.commitLock.Lock()
		defer h.commitLock.Unlock()
	}
	ok, err := h.commit(tx)
	if ok {
		h.journal(tx.events)
	}
	return ok, err
}

// commit must be called with commitLock held.
func (h *Host) commit(tx *Tx) (bool, error) {
	ok, err := tx.staged.verify(h.store)
	if err != nil || !ok {
		return false, err
	}

	var record []byte
	if v := tx.Vault(); v != nil {
		data, err := v.MarshalBinary()
		if err != nil {
			return false, err
		}
		record = snappy.Encode(nil, data)
	}

	if err := h.store.Batch(func(w kv.PutFlusher) error {
		if err := writeChanges(w, tx.staged.changes()); err != nil {
			return err
		}
		rw := RecordBucket.NewPutter(w)
		if record == nil {
			return rw.Delete(tx.id.Bytes())
		}
		return rw.Put(tx.id.Bytes(), record)
	}); err != nil {
		return false, errors.Wrap(err, "commit")
	}

	if v := tx.Vault(); v != nil {
		h.cache.Add(tx.id, v)
	} else {
		h.cache.Remove(tx.id)
	}
	metricCommits().Add(1)
	return true, nil
}

func (h *Host) journal(events []*eventdb.Event) {
	if h.events == nil || len(events) == 0 {
		return
	}
	if err := h.events.Insert(events...); err != nil {
		logger.Error("failed to journal events", "vault", events[0].Vault, "err", err)
	}
}

// loadRecord returns the shared cached record, or nil if absent. It fills
// the cache on a miss, so callers must hold the lock of vault id.
func (h *Host) loadRecord(id acct.Address) (*vault.Vault, error) {
	v, found, err := h.cache.GetOrLoad(id, func(id acct.Address) (*vault.Vault, bool, error) {
		v, err := h.readRecord(h.records, id)
		return v, v != nil, err
	})
	h.reportCacheStats()
	if err != nil || !found {
		return nil, err
	}
	return v, nil
}

// peekRecord is loadRecord for readers not holding the vault lock. A miss is
// served from a store snapshot and never cached, otherwise a record read
// before a concurrent commit could replace the committed one in the cache.
func (h *Host) peekRecord(id acct.Address) (v *vault.Vault, err error) {
	cached, ok := h.cache.Get(id)
	h.reportCacheStats()
	if ok {
		return cached, nil
	}
	err = h.records.Snapshot(func(g kv.Getter) (err error) {
		v, err = h.readRecord(g, id)
		return
	})
	return
}

func (h *Host) readRecord(g kv.Getter, id acct.Address) (*vault.Vault, error) {
	data, err := kv.GetValue(g, id.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "load vault record")
	}
	if data == nil {
		return nil, nil
	}
	v, err := decodeRecord(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "vault %v", id)
	}
	return v, nil
}

func (h *Host) reportCacheStats() {
	if counts, changed := h.cache.Stats(); changed {
		metricCacheHitRate().Set(int64(counts.HitRate() * 1000))
		logger.Trace("record cache stats", "hit", counts.Hits, "miss", counts.Misses)
	}
}

func decodeRecord(data []byte) (*vault.Vault, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, errors.Wrap(err, "decompress record")
	}
	var v vault.Vault
	if err := v.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return &v, nil
}

// Vault returns a copy of the committed vault record. It does not take the
// vault lock, so the record may be superseded by the time it is returned.
func (h *Host) Vault(id acct.Address) (*vault.Vault, error) {
	v, err := h.peekRecord(id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.WithMessagef(ErrVaultNotFound, "vault %v", id)
	}
	return v.Copy(), nil
}

// RawRecord returns the decompressed binary record of vault id.
func (h *Host) RawRecord(id acct.Address) ([]byte, error) {
	var data []byte
	if err := h.records.Snapshot(func(g kv.Getter) (err error) {
		data, err = kv.GetValue(g, id.Bytes())
		return
	}); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.WithMessagef(ErrVaultNotFound, "vault %v", id)
	}
	return snappy.Decode(nil, data)
}

// Vaults lists the addresses of all stored vaults.
func (h *Host) Vaults() ([]acct.Address, error) {
	var ids []acct.Address
	err := h.records.Iterate(kv.Range{}, func(p kv.Pair) bool {
		ids = append(ids, acct.BytesToAddress(p.Key()))
		return true
	})
	return ids, err
}

// Balance returns the committed balance of owner in mint.
func (h *Host) Balance(mint, owner acct.Address) (uint64, error) {
	return transfer.NewBook(h.store).Balance(mint, owner)
}

// Mint credits owner with amount of mint. It serializes with commits.
func (h *Host) Mint(mint, owner acct.Address, amount uint64) error {
	h.commitLock.Lock()
	defer h.commitLock.Unlock()

	return h.store.Batch(func(w kv.PutFlusher) error {
		st := newStaged(h.store)
		if err := transfer.NewBook(st).Mint(mint, owner, amount); err != nil {
			return err
		}
		return writeChanges(w, st.changes())
	})
}

func writeChanges(w kv.Putter, changes map[string][]byte) error {
	for k, v := range changes {
		if v == nil {
			if err := w.Delete([]byte(k)); err != nil {
				return err
			}
		} else if err := w.Put([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}
