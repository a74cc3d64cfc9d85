// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/vechain/stakeledger/metrics"
)

var (
	metricCallCount    = metrics.LazyLoadCounterVec("ledger_call_count", []string{"contract", "result"})
	metricCallGasUsed  = metrics.LazyLoadHistogramVec("ledger_call_gas_used", []string{"contract"}, metrics.BucketGasUsed)
	metricCallDuration = metrics.LazyLoadHistogram("ledger_call_duration_ms", metrics.BucketCallMs)
	metricLedgerTime   = metrics.LazyLoadGauge("ledger_time_seconds")
)
