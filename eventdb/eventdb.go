// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb journals executed vault instructions in sqlite and
// fans them out to live subscribers.
package eventdb

import (
	"database/sql"
	"math"
	"strings"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rlp"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/acct"
)

// EventDB manages all events.
type EventDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
	feed          event.Feed
	scope         event.SubscriptionScope
}

// New open a event db.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open event db")
	}
	// a memory db lives in a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create event table")
	}
	s, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
	}, nil
}

// NewMem create a memory sqlite db.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Insert appends events in one sql transaction, assigns their sequence
// numbers and then publishes them to subscribers.
func (db *EventDB) Insert(events ...*Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	for _, ev := range events {
		if ev.Time > math.MaxInt64 {
			tx.Rollback()
			return errors.Errorf("event time %d out of range", ev.Time)
		}
		data, err := rlp.EncodeToBytes(&ev.Payload)
		if err != nil {
			tx.Rollback()
			return err
		}
		res, err := tx.Exec("INSERT INTO event(vault, kind, signer, time, data) VALUES (?, ?, ?, ?, ?)",
			ev.Vault.Bytes(),
			string(ev.Kind),
			ev.Signer.Bytes(),
			int64(ev.Time),
			data)
		if err != nil {
			tx.Rollback()
			return err
		}
		seq, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			return err
		}
		ev.Seq = uint64(seq)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	db.feed.Send(events)
	return nil
}

// Filter return events with options.
func (db *EventDB) Filter(filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.query("SELECT seq, vault, kind, signer, time, data FROM event ORDER BY seq ASC")
	}
	var (
		args []any
		stmt strings.Builder
	)
	stmt.WriteString("SELECT seq, vault, kind, signer, time, data FROM event WHERE 1")
	if filter.Vault != nil {
		stmt.WriteString(" AND vault = ?")
		args = append(args, filter.Vault.Bytes())
	}
	if filter.Signer != nil {
		stmt.WriteString(" AND signer = ?")
		args = append(args, filter.Signer.Bytes())
	}
	if len(filter.Kinds) > 0 {
		stmt.WriteString(" AND kind IN (")
		for i, k := range filter.Kinds {
			if i > 0 {
				stmt.WriteString(", ")
			}
			stmt.WriteString("?")
			args = append(args, string(k))
		}
		stmt.WriteString(")")
	}
	if filter.Range != nil {
		stmt.WriteString(" AND time >= ?")
		args = append(args, clampInt64(filter.Range.From))
		if filter.Range.To >= filter.Range.From {
			stmt.WriteString(" AND time <= ?")
			args = append(args, clampInt64(filter.Range.To))
		}
	}

	if filter.Order == DESC {
		stmt.WriteString(" ORDER BY seq DESC")
	} else {
		stmt.WriteString(" ORDER BY seq ASC")
	}

	if filter.Options != nil {
		stmt.WriteString(" LIMIT ?, ?")
		args = append(args, clampInt64(filter.Options.Offset), clampInt64(filter.Options.Limit))
	}
	return db.query(stmt.String(), args...)
}

func (db *EventDB) query(stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			seq    int64
			vault  []byte
			kind   string
			signer []byte
			time   int64
			data   []byte
		)
		if err := rows.Scan(&seq, &vault, &kind, &signer, &time, &data); err != nil {
			return nil, err
		}
		ev := &Event{
			Seq:    uint64(seq),
			Vault:  acct.BytesToAddress(vault),
			Kind:   Kind(kind),
			Signer: acct.BytesToAddress(signer),
			Time:   uint64(time),
		}
		if err := rlp.DecodeBytes(data, &ev.Payload); err != nil {
			return nil, errors.Wrapf(err, "decode event %d", seq)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// SubscribeEvents registers ch to receive every batch of inserted events.
func (db *EventDB) SubscribeEvents(ch chan<- []*Event) event.Subscription {
	return db.scope.Track(db.feed.Subscribe(ch))
}

// Path return db's path.
func (db *EventDB) Path() string {
	return db.path
}

// SQLiteVersion returns the version of the linked sqlite library.
func (db *EventDB) SQLiteVersion() string {
	return db.sqliteVersion
}

// Close ends all subscriptions and closes sqlite.
func (db *EventDB) Close() error {
	db.scope.Close()
	return db.db.Close()
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
