// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Gas costs charged by native contracts for storage access.
const (
	SloadGas       uint64 = 200   // read one storage slot
	SstoreSetGas   uint64 = 20000 // write a slot from zero to non-zero
	SstoreResetGas uint64 = 5000  // overwrite a non-zero slot
	LogGas         uint64 = 375   // per emitted event
	LogTopicGas    uint64 = 375   // per event topic
	LogDataGas     uint64 = 8     // per byte of event data
	CallGas        uint64 = 700   // nested contract call
)

// Constants of the ledger.
const (
	MaxCallDepth = 16 // maximum depth of nested contract calls

	DefaultClauseGasLimit uint64 = 10 * 1000 * 1000 // default gas limit for a single clause
)
