// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"
	"encoding/json"
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/vechain/stakeledger/thor"
)

// ABI holds information about methods and events of contract.
type ABI struct {
	constructor  *Method
	nameToMethod map[string]*Method
	nameToEvent  map[string]*Event
	methods      map[MethodID]*Method
	events       map[thor.Bytes32]*Event
}

// New create an ABI instance.
func New(data []byte) (*ABI, error) {
	ethABI, err := ethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	// ethabi leaves a zero-valued constructor when none is declared
	var fields []struct {
		Type string
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	abi := &ABI{
		nameToMethod: make(map[string]*Method),
		nameToEvent:  make(map[string]*Event),
		methods:      make(map[MethodID]*Method),
		events:       make(map[thor.Bytes32]*Event),
	}

	for _, field := range fields {
		if field.Type == "constructor" {
			ctor := ethABI.Constructor
			abi.constructor = newMethod(EmptyMethodID, &ctor)
		}
	}

	for name := range ethABI.Methods {
		ethMethod := ethABI.Methods[name]
		var id MethodID
		copy(id[:], ethMethod.ID)
		method := newMethod(id, &ethMethod)
		abi.methods[id] = method
		abi.nameToMethod[name] = method
	}

	for name := range ethABI.Events {
		ethEvent := ethABI.Events[name]
		event := newEvent(&ethEvent)
		abi.events[event.id] = event
		abi.nameToEvent[name] = event
	}
	return abi, nil
}

// MustNew is like New but panics on error. Used for embedded ABIs.
func MustNew(data []byte) *ABI {
	abi, err := New(data)
	if err != nil {
		panic(err)
	}
	return abi
}

// Constructor returns the constructor method if any.
func (a *ABI) Constructor() *Method {
	return a.constructor
}

// MethodByInput find the method for given input.
// If the input shorter than MethodID, or method not found, an error returned.
func (a *ABI) MethodByInput(input []byte) (*Method, error) {
	id, err := ExtractMethodID(input)
	if err != nil {
		return nil, err
	}
	m, found := a.methods[id]
	if !found {
		return nil, errors.New("method not found")
	}
	return m, nil
}

// MethodByName find method for the given method name.
func (a *ABI) MethodByName(name string) (*Method, bool) {
	m, found := a.nameToMethod[name]
	return m, found
}

// MethodByID returns method for given method id.
func (a *ABI) MethodByID(id MethodID) (*Method, bool) {
	m, found := a.methods[id]
	return m, found
}

// EventByName find event for the given event name.
func (a *ABI) EventByName(name string) (*Event, bool) {
	e, found := a.nameToEvent[name]
	return e, found
}

// EventByID returns the event for the given event id.
func (a *ABI) EventByID(id thor.Bytes32) (*Event, bool) {
	e, found := a.events[id]
	return e, found
}

// UnpackRevert resolves the reason string of revert data encoded as Error(string) or Panic(uint256).
func UnpackRevert(data []byte) (string, error) {
	return ethabi.UnpackRevert(data)
}
