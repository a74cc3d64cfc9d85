// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/stakeledger/metrics"

var (
	metricStorageRead   = metrics.LazyLoadCounterVec("state_storage_read_count", []string{"source"})
	metricStorageCommit = metrics.LazyLoadCounter("state_storage_commit_count")
)
