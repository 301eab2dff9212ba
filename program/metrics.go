// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import "github.com/vechain/stakevault/metrics"

var (
	metricInstructions = metrics.LazyLoadCounterVec("program_instructions_count", []string{"instruction"})
	metricFailures     = metrics.LazyLoadCounterVec("program_failures_count", []string{"instruction", "kind"})
	metricParticipants = metrics.LazyLoadGaugeVec("vault_participants", []string{"vault"})
	metricTotalStaked  = metrics.LazyLoadGaugeVec("vault_total_staked", []string{"vault"})
)
