// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakedb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/test/datagen"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
)

func newReceipt(time uint64, contract thor.Address, topics ...thor.Bytes32) *tx.Receipt {
	return &tx.Receipt{
		CallID:    datagen.RandomHash(),
		Caller:    datagen.RandAddress(),
		Time:      time,
		GasUsed:   21000,
		StateHash: datagen.RandomHash(),
		Events: tx.Events{
			{Address: contract, Topics: topics, Data: datagen.RandBytes(32)},
			{Address: contract, Topics: topics[:1], Data: nil},
		},
	}
}

func newDB(t *testing.T) *StakeDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWriteAndGetReceipt(t *testing.T) {
	db := newDB(t)
	contract := datagen.RandAddress()

	receipt := newReceipt(10, contract, datagen.RandomHash(), datagen.RandomHash())
	receipt.Output = []byte{1, 2, 3}
	require.NoError(t, db.Write(receipt))

	got, err := db.GetReceipt(context.Background(), receipt.CallID)
	require.NoError(t, err)
	assert.Equal(t, receipt.Caller, got.Caller)
	assert.Equal(t, receipt.Time, got.Time)
	assert.Equal(t, receipt.GasUsed, got.GasUsed)
	assert.Equal(t, receipt.StateHash, got.StateHash)
	assert.Equal(t, receipt.Output, got.Output)
	assert.False(t, got.Reverted)
	require.Len(t, got.Events, 2)
	assert.Equal(t, receipt.Events[0].Topics, got.Events[0].Topics)
	assert.Equal(t, receipt.Events[0].Data, got.Events[0].Data)

	reverted := &tx.Receipt{CallID: datagen.RandomHash(), Caller: receipt.Caller, Time: 11, Reverted: true, RevertReason: "insufficient amount"}
	require.NoError(t, db.Write(reverted))
	got, err = db.GetReceipt(context.Background(), reverted.CallID)
	require.NoError(t, err)
	assert.True(t, got.Reverted)
	assert.Equal(t, "insufficient amount", got.RevertReason)
	assert.Empty(t, got.Events)

	_, err = db.GetReceipt(context.Background(), datagen.RandomHash())
	assert.Equal(t, ErrNotFound, err)
}

func TestFilterEvents(t *testing.T) {
	db := newDB(t)
	staking := datagen.RandAddress()
	token := datagen.RandAddress()
	topicA := datagen.RandomHash()
	topicB := datagen.RandomHash()

	for i := range uint64(10) {
		contract, topic := staking, topicA
		if i%2 == 1 {
			contract, topic = token, topicB
		}
		require.NoError(t, db.Write(newReceipt(100+i, contract, topic, datagen.RandomHash())))
	}

	ctx := context.Background()
	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 20)

	tests := []struct {
		name   string
		filter *EventFilter
		want   int
		first  uint64
	}{
		{"by address", &EventFilter{CriteriaSet: []*EventCriteria{{Address: &staking}}}, 10, 100},
		{"by topic", &EventFilter{CriteriaSet: []*EventCriteria{{Topics: [5]*thor.Bytes32{&topicB}}}}, 10, 101},
		{"either", &EventFilter{CriteriaSet: []*EventCriteria{{Address: &staking}, {Topics: [5]*thor.Bytes32{&topicB}}}}, 20, 100},
		{"mismatch", &EventFilter{CriteriaSet: []*EventCriteria{{Address: &staking, Topics: [5]*thor.Bytes32{&topicB}}}}, 0, 0},
		{"range", &EventFilter{Range: &Range{From: 102, To: 104}}, 6, 102},
		{"open range", &EventFilter{Range: &Range{From: 108}}, 4, 108},
		{"desc", &EventFilter{Order: DESC}, 20, 109},
		{"paging", &EventFilter{Options: &Options{Offset: 4, Limit: 3}}, 3, 102},
		{"range and address", &EventFilter{Range: &Range{From: 103, To: 109}, CriteriaSet: []*EventCriteria{{Address: &token}}}, 8, 103},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := db.FilterEvents(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, events, tt.want)
			if tt.want > 0 {
				assert.Equal(t, tt.first, events[0].Time)
			}
		})
	}
}

func TestFilterCanceled(t *testing.T) {
	db := newDB(t)
	require.NoError(t, db.Write(newReceipt(1, datagen.RandAddress(), datagen.RandomHash())))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := db.FilterEvents(ctx, &EventFilter{})
	assert.Error(t, err)
}

func TestFilterAfterSeq(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	contract := datagen.RandAddress()

	seq, err := db.NewestEventSeq(ctx)
	require.NoError(t, err)
	assert.Zero(t, seq)

	for i := range uint64(3) {
		require.NoError(t, db.Write(newReceipt(i, contract, datagen.RandomHash())))
	}
	seq, err = db.NewestEventSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), seq)

	events, err := db.FilterEvents(ctx, &EventFilter{AfterSeq: 4})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(5), events[0].Seq)
	assert.Equal(t, uint64(6), events[1].Seq)
	assert.Equal(t, uint64(2), events[0].Time)

	events, err = db.FilterEvents(ctx, &EventFilter{AfterSeq: seq})
	require.NoError(t, err)
	assert.Empty(t, events)
}
