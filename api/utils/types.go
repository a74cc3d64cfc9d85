// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
)

// Event is an event emitted by a contract.
type Event struct {
	Address thor.Address   `json:"address"`
	Topics  []thor.Bytes32 `json:"topics"`
	Data    string         `json:"data"`
}

// Receipt is the outcome of an executed clause.
type Receipt struct {
	CallID       thor.Bytes32 `json:"callID"`
	Caller       thor.Address `json:"caller"`
	Time         uint64       `json:"time"`
	GasUsed      uint64       `json:"gasUsed"`
	Reverted     bool         `json:"reverted"`
	RevertReason string       `json:"revertReason,omitempty"`
	Output       string       `json:"output"`
	Events       []*Event     `json:"events"`
	StateHash    thor.Bytes32 `json:"stateHash"`
}

func ConvertEvent(ev *tx.Event) *Event {
	return &Event{
		Address: ev.Address,
		Topics:  ev.Topics,
		Data:    hexutil.Encode(ev.Data),
	}
}

func ConvertReceipt(r *tx.Receipt) *Receipt {
	receipt := &Receipt{
		CallID:       r.CallID,
		Caller:       r.Caller,
		Time:         r.Time,
		GasUsed:      r.GasUsed,
		Reverted:     r.Reverted,
		RevertReason: r.RevertReason,
		Output:       hexutil.Encode(r.Output),
		Events:       make([]*Event, 0, len(r.Events)),
		StateHash:    r.StateHash,
	}
	for _, ev := range r.Events {
		receipt.Events = append(receipt.Events, ConvertEvent(ev))
	}
	return receipt
}

// Amount converts a JSON amount into a 256-bit unsigned integer.
func Amount(v *math.HexOrDecimal256) (*uint256.Int, error) {
	if v == nil {
		return nil, errors.New("missing")
	}
	b := (*big.Int)(v)
	if b.Sign() < 0 {
		return nil, errors.New("negative")
	}
	amount, overflow := uint256.FromBig(b)
	if overflow {
		return nil, errors.New("overflows uint256")
	}
	return amount, nil
}

// HexOrDecimal converts a 256-bit unsigned integer for JSON output.
func HexOrDecimal(v *uint256.Int) *math.HexOrDecimal256 {
	if v == nil {
		return (*math.HexOrDecimal256)(new(big.Int))
	}
	return (*math.HexOrDecimal256)(v.ToBig())
}
