// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/abi"
	"github.com/vechain/stakeledger/builtin/reverts"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
)

var (
	ErrOutOfGas           = errors.New("out of gas")
	ErrExecutionReverted  = errors.New("execution reverted")
	ErrWriteProtection    = errors.New("write protection")
	ErrDepth              = errors.New("max call depth exceeded")
	ErrContractNotFound   = errors.New("contract not found")
	ErrMethodNotSupported = errors.New("method not supported")
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID     thor.Bytes32
	Origin thor.Address
}

// VM executes calls between builtin contracts.
type VM interface {
	// Call runs input on the contract at to. Changes made by a failed call are reverted.
	Call(caller, to thor.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error)
	// AddEvent records an event of the current call frame.
	AddEvent(event *tx.Event)
}

// Contract holds the call frame of a native method.
type Contract struct {
	caller  thor.Address
	address thor.Address
	Input   []byte
	Gas     uint64
}

// NewContract creates a call frame.
func NewContract(caller, address thor.Address, input []byte, gas uint64) *Contract {
	return &Contract{caller, address, input, gas}
}

func (c *Contract) Caller() thor.Address  { return c.caller }
func (c *Contract) Address() thor.Address { return c.address }

// UseGas attempts the use gas and subtracts it and returns true on success
func (c *Contract) UseGas(gas uint64) bool {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}

type vmError struct {
	cause error
}

// Environment an env to execute native method.
type Environment struct {
	abi      *abi.Method
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	vm       VM
	contract *Contract
}

// New create a new env.
func New(
	abi *abi.Method,
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	vm VM,
	contract *Contract,
) *Environment {
	return &Environment{
		abi:      abi,
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		vm:       vm,
		contract: contract,
	}
}

func (env *Environment) Method() *abi.Method                     { return env.abi }
func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) Caller() thor.Address                    { return env.contract.Caller() }
func (env *Environment) To() thor.Address                        { return env.contract.Address() }
func (env *Environment) VM() VM                                  { return env.vm }
func (env *Environment) Gas() uint64                             { return env.contract.Gas }

func (env *Environment) UseGas(gas uint64) {
	if !env.contract.UseGas(gas) {
		panic(&vmError{ErrOutOfGas})
	}
}

func (env *Environment) ParseArgs(val any) {
	input := env.contract.Input
	// constructor input is prefixed with the empty method id
	if env.abi.ID().IsEmpty() && len(input) >= len(abi.EmptyMethodID) {
		input = input[len(abi.EmptyMethodID):]
	}
	if err := env.abi.DecodeInput(input, val); err != nil {
		// as vm error
		panic(&vmError{errors.WithMessage(err, "decode native input")})
	}
}

func (env *Environment) Require(cond bool) {
	if !cond {
		panic(&vmError{ErrExecutionReverted})
	}
}

func (env *Environment) Log(abi *abi.Event, address thor.Address, topics []thor.Bytes32, args ...any) {
	data, err := abi.Encode(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native event"))
	}
	env.UseGas(thor.LogGas + thor.LogTopicGas*uint64(len(topics)) + thor.LogDataGas*uint64(len(data)))

	eventTopics := make([]thor.Bytes32, 0, len(topics)+1)
	eventTopics = append(eventTopics, abi.ID())
	eventTopics = append(eventTopics, topics...)
	env.vm.AddEvent(&tx.Event{
		Address: address,
		Topics:  eventTopics,
		Data:    data,
	})
}

func (env *Environment) Stop(vmerr error) {
	panic(&vmError{vmerr})
}

// Call returns a function that runs proc and encodes its output. Panics carrying a vm error or a
// revert error are turned into the returned error; any other panic is a fatal error and is re-raised.
func (env *Environment) Call(proc func(env *Environment) []any, readonly bool) func() ([]byte, error) {
	return func() (data []byte, err error) {
		if readonly && !env.abi.Const() {
			return nil, ErrWriteProtection
		}

		defer func() {
			if e := recover(); e != nil {
				if rec, ok := e.(*vmError); ok {
					err = rec.cause
				} else if reverts.IsRevertErr(e) {
					err = e.(error)
				} else {
					panic(e)
				}
			}
		}()
		output := proc(env)
		data, err = env.abi.EncodeOutput(output...)
		if err != nil {
			panic(errors.WithMessage(err, "encode native output"))
		}
		return
	}
}
