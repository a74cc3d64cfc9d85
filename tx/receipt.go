// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/stakeledger/thor"
)

// Receipt represents the results of an executed clause.
type Receipt struct {
	// unique id of the call
	CallID thor.Bytes32
	// account that submitted the clause
	Caller thor.Address
	// ledger time the clause executed at
	Time uint64
	// gas used by the clause
	GasUsed uint64
	// whether the clause was reverted
	Reverted bool
	// revert reason decoded from the failure, if any
	RevertReason string
	// returned data of the call
	Output []byte
	// events produced, empty if reverted
	Events Events
	// digest of committed state changes
	StateHash thor.Bytes32
}
