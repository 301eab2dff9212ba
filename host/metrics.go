// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import "github.com/vechain/stakevault/metrics"

var (
	metricExecDuration = metrics.LazyLoadHistogram("host_exec_duration_ms", metrics.Bucket10s)
	metricCommits      = metrics.LazyLoadCounter("host_commits_count")
	metricConflicts    = metrics.LazyLoadCounter("host_conflicts_count")
	metricCacheHitRate = metrics.LazyLoadGauge("host_record_cache_hit_permille")
)
