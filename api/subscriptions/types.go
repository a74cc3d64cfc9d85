// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/stakeledger/stakedb"
	"github.com/vechain/stakeledger/thor"
)

type EventMeta struct {
	Seq    uint64       `json:"seq"`
	CallID thor.Bytes32 `json:"callID"`
	Caller thor.Address `json:"caller"`
	Time   uint64       `json:"time"`
}

// EventMessage is pushed to event subscribers. Meta.Seq can be passed back as pos to resume.
type EventMessage struct {
	Address thor.Address    `json:"address"`
	Topics  []*thor.Bytes32 `json:"topics"`
	Data    string          `json:"data"`
	Meta    EventMeta       `json:"meta"`
}

func convertEvent(event *stakedb.Event) *EventMessage {
	msg := &EventMessage{
		Address: event.Address,
		Data:    hexutil.Encode(event.Data),
		Topics:  make([]*thor.Bytes32, 0, len(event.Topics)),
		Meta: EventMeta{
			Seq:    event.Seq,
			CallID: event.CallID,
			Caller: event.Caller,
			Time:   event.Time,
		},
	}
	for _, topic := range event.Topics {
		if topic != nil {
			msg.Topics = append(msg.Topics, topic)
		}
	}
	return msg
}
