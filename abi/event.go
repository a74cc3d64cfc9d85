// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	ethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/vechain/stakeledger/thor"
)

// Event packs the data section of an emitted event. Indexed arguments
// travel as topics and are left to the caller.
type Event struct {
	id   thor.Bytes32
	name string
	data ethabi.Arguments
}

func newEvent(e *ethabi.Event) *Event {
	return &Event{
		id:   thor.Bytes32(e.ID),
		name: e.Name,
		data: e.Inputs.NonIndexed(),
	}
}

// ID is the first topic of every emitted instance.
func (e *Event) ID() thor.Bytes32 { return e.id }

func (e *Event) Name() string { return e.name }

func (e *Event) Encode(args ...any) ([]byte, error) {
	return e.data.Pack(args...)
}

func (e *Event) Decode(data []byte, v any) error {
	vals, err := e.data.Unpack(data)
	if err != nil {
		return err
	}
	return e.data.Copy(v, vals)
}
