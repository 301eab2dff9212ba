// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"time"

	"github.com/vechain/stakevault/host"
)

const defaultMaxClockOffset = 5 * time.Second

// Offsetter reports how far the local clock is from a reference clock.
type Offsetter interface {
	Offset() time.Duration
}

type Status struct {
	Healthy       bool      `json:"healthy"`
	StoreReadable bool      `json:"storeReadable"`
	Vaults        int       `json:"vaults"`
	ClockOffsetMs int64     `json:"clockOffsetMs"`
	ClockSynced   bool      `json:"clockSynced"`
	StartedAt     time.Time `json:"startedAt"`
}

type Health struct {
	host      *host.Host
	offset    Offsetter
	startedAt time.Time
}

// New creates a health checker. offset may be nil when no reference clock is used.
func New(h *host.Host, offset Offsetter) *Health {
	return &Health{
		host:      h,
		offset:    offset,
		startedAt: time.Now(),
	}
}

// Status checks that the vault store can be read and that the clock offset
// stays within maxClockOffset.
func (h *Health) Status(maxClockOffset time.Duration) *Status {
	st := &Status{
		ClockSynced: true,
		StartedAt:   h.startedAt,
	}

	if ids, err := h.host.Vaults(); err != nil {
		logger.Warn("health check: list vaults", "err", err)
	} else {
		st.StoreReadable = true
		st.Vaults = len(ids)
	}

	if h.offset != nil {
		off := h.offset.Offset()
		st.ClockOffsetMs = off.Milliseconds()
		st.ClockSynced = off.Abs() <= maxClockOffset
	}

	st.Healthy = st.StoreReadable && st.ClockSynced
	return st
}
