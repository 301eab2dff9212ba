// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the trusted time source used to drive vault accrual.
// Time is expressed in whole unix seconds.
package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock reports the current unix time in seconds.
type Clock interface {
	Now() uint64
}

// Func adapts a plain function to Clock.
type Func func() uint64

// Now implements Clock.
func (f Func) Now() uint64 { return f() }

// NewSystem returns a clock reading the local system time.
func NewSystem() Clock {
	return Func(func() uint64 {
		return uint64(time.Now().Unix())
	})
}

// Manual is a clock that only moves when told to.
type Manual struct {
	now atomic.Uint64
}

// NewManual creates a manual clock set at t.
func NewManual(t uint64) *Manual {
	m := &Manual{}
	m.now.Store(t)
	return m
}

// Now implements Clock.
func (m *Manual) Now() uint64 { return m.now.Load() }

// Set sets the clock to t. Moving backwards is allowed, which lets tests
// exercise the ledger's handling of a regressing clock.
func (m *Manual) Set(t uint64) { m.now.Store(t) }

// Advance moves the clock forward by d seconds and returns the new time.
func (m *Manual) Advance(d uint64) uint64 { return m.now.Add(d) }

// monotonic never reports a time earlier than one it already reported.
type monotonic struct {
	src  Clock
	lock sync.Mutex
	last uint64
}

// Monotonic wraps c so that readings never go backwards.
func Monotonic(c Clock) Clock {
	return &monotonic{src: c}
}

func (m *monotonic) Now() uint64 {
	now := m.src.Now()

	m.lock.Lock()
	defer m.lock.Unlock()
	if now < m.last {
		return m.last
	}
	m.last = now
	return now
}
