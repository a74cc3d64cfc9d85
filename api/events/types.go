// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/stakeledger/stakedb"
	"github.com/vechain/stakeledger/thor"
)

type TopicSet struct {
	Address *thor.Address `json:"address"`
	Topic0  *thor.Bytes32 `json:"topic0"`
	Topic1  *thor.Bytes32 `json:"topic1"`
	Topic2  *thor.Bytes32 `json:"topic2"`
	Topic3  *thor.Bytes32 `json:"topic3"`
	Topic4  *thor.Bytes32 `json:"topic4"`
}

// Range is an inclusive ledger time range, both ends optional.
type Range struct {
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	CriteriaSet []*TopicSet   `json:"criteriaSet"`
	Range       *Range        `json:"range"`
	Options     *Options      `json:"options"`
	Order       stakedb.Order `json:"order"`
}

type Meta struct {
	CallID thor.Bytes32 `json:"callID"`
	Caller thor.Address `json:"caller"`
	Time   uint64       `json:"time"`
}

// FilteredEvent is an event returned by a filter query.
type FilteredEvent struct {
	Address thor.Address    `json:"address"`
	Topics  []*thor.Bytes32 `json:"topics"`
	Data    string          `json:"data"`
	Meta    Meta            `json:"meta"`
}

func convertEvent(event *stakedb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: event.Address,
		Data:    hexutil.Encode(event.Data),
		Meta: Meta{
			CallID: event.CallID,
			Caller: event.Caller,
			Time:   event.Time,
		},
		Topics: make([]*thor.Bytes32, 0),
	}
	for i := range event.Topics {
		if event.Topics[i] != nil {
			fe.Topics = append(fe.Topics, event.Topics[i])
		}
	}
	return fe
}

func convertRange(r *Range) *stakedb.Range {
	if r == nil || (r.From == nil && r.To == nil) {
		return nil
	}
	var from uint64
	if r.From != nil {
		from = *r.From
	}
	if r.To == nil {
		if from == 0 {
			return nil
		}
		// To below From leaves the upper end open
		return &stakedb.Range{From: from, To: from - 1}
	}
	return &stakedb.Range{From: from, To: *r.To}
}

func convertFilter(filter *EventFilter) *stakedb.EventFilter {
	f := &stakedb.EventFilter{
		CriteriaSet: make([]*stakedb.EventCriteria, 0, len(filter.CriteriaSet)),
		Range:       convertRange(filter.Range),
		Order:       filter.Order,
	}
	for _, set := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &stakedb.EventCriteria{
			Address: set.Address,
			Topics:  [5]*thor.Bytes32{set.Topic0, set.Topic1, set.Topic2, set.Topic3, set.Topic4},
		})
	}
	if filter.Options != nil {
		f.Options = &stakedb.Options{
			Offset: filter.Options.Offset,
			Limit:  filter.Options.Limit,
		}
	}
	return f
}
