// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Counts is a point-in-time copy of Stats.
type Counts struct {
	Hits   int64
	Misses int64
}

// HitRate returns hits per lookup, 0 without lookups.
func (c Counts) HitRate() float64 {
	if lookups := c.Hits + c.Misses; lookups > 0 {
		return float64(c.Hits) / float64(lookups)
	}
	return 0
}

// Stats counts lookups of a cache. Safe for concurrent use.
type Stats struct {
	hit, miss atomic.Int64
	permille  atomic.Int32 // hit rate at the last Snapshot
}

func (cs *Stats) Hit() int64  { return cs.hit.Add(1) }
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// Snapshot returns the current counts, and whether the hit rate moved by at
// least 0.1% since the previous Snapshot.
func (cs *Stats) Snapshot() (Counts, bool) {
	c := Counts{Hits: cs.hit.Load(), Misses: cs.miss.Load()}
	permille := int32(c.HitRate() * 1000)
	return c, cs.permille.Swap(permille) != permille
}
