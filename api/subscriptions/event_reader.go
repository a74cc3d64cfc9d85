// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/vechain/stakeledger/stakedb"
)

// eventReader reads matching events in store order, resuming after the last one read.
type eventReader struct {
	db     *stakedb.StakeDB
	filter *stakedb.EventFilter
}

func newEventReader(db *stakedb.StakeDB, position uint64, criteria *stakedb.EventCriteria) *eventReader {
	return &eventReader{
		db: db,
		filter: &stakedb.EventFilter{
			CriteriaSet: []*stakedb.EventCriteria{criteria},
			Options:     &stakedb.Options{Limit: readBatchSize},
			AfterSeq:    position,
		},
	}
}

// Read returns the next batch of events. The bool is true if the batch is full and more may follow.
func (er *eventReader) Read(ctx context.Context) ([]*EventMessage, bool, error) {
	events, err := er.db.FilterEvents(ctx, er.filter)
	if err != nil {
		return nil, false, err
	}
	msgs := make([]*EventMessage, 0, len(events))
	for _, ev := range events {
		msgs = append(msgs, convertEvent(ev))
		er.filter.AfterSeq = ev.Seq
	}
	return msgs, uint64(len(events)) == readBatchSize, nil
}
