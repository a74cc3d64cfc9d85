// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakedb

import (
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	Seq     uint64 // position in the store, assigned on write
	CallID  thor.Bytes32
	Index   uint32
	Caller  thor.Address // account that submitted the call
	Time    uint64
	Address thor.Address // always a contract address
	Topics  [5]*thor.Bytes32
	Data    []byte
}

// newEvent converts tx.Event to Event.
func newEvent(receipt *tx.Receipt, index uint32, txEvent *tx.Event) *Event {
	ev := &Event{
		CallID:  receipt.CallID,
		Index:   index,
		Caller:  receipt.Caller,
		Time:    receipt.Time,
		Address: txEvent.Address,
		Data:    txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		ev.Topics[i] = &txEvent.Topics[i]
	}
	return ev
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive ledger time range. To smaller than From means unbounded.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *thor.Address // always a contract address
	Topics  [5]*thor.Bytes32
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
	// AfterSeq skips events stored at or before this position.
	AfterSeq uint64
}
