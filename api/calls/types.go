// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package calls

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/runtime"
	"github.com/vechain/stakeledger/thor"
)

// CallData represents a simulated call
type CallData struct {
	Caller *thor.Address `json:"caller"`
	To     thor.Address  `json:"to"`
	Data   string        `json:"data"`
	Gas    uint64        `json:"gas"`
}

type CallResult struct {
	Data         string         `json:"data"`
	Events       []*utils.Event `json:"events"`
	GasUsed      uint64         `json:"gasUsed"`
	Reverted     bool           `json:"reverted"`
	VMError      string         `json:"vmError"`
	RevertReason string         `json:"revertReason,omitempty"`
}

func convertCallResultWithInputGas(out *runtime.Output, inputGas uint64) *CallResult {
	result := &CallResult{
		Data:    hexutil.Encode(out.Data),
		Events:  make([]*utils.Event, 0, len(out.Events)),
		GasUsed: inputGas - out.LeftOverGas,
	}
	if out.VMErr != nil {
		result.Reverted = true
		result.VMError = out.VMErr.Error()
		result.RevertReason = out.RevertReason
		return result
	}
	for _, ev := range out.Events {
		result.Events = append(result.Events, utils.ConvertEvent(ev))
	}
	return result
}
