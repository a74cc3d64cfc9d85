// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/builtin/reverts"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
	"github.com/vechain/stakeledger/xenv"
)

var logger = log.WithContext("pkg", "runtime")

// Config tunes clause execution.
type Config struct {
	// MaxCallDepth limits nested calls, thor.MaxCallDepth if zero.
	MaxCallDepth int
}

// Output is the result of a clause execution.
type Output struct {
	Data         []byte
	Events       tx.Events
	LeftOverGas  uint64
	VMErr        error  // non-nil if the clause failed and its changes were reverted
	RevertReason string // message of a revert, if VMErr is one
}

// Runtime is to support clause execution.
type Runtime struct {
	config Config
	state  *state.State

	blockNumber uint32
	blockTime   uint64
}

// New create a Runtime object.
func New(state *state.State, blockNumber uint32, blockTime uint64) *Runtime {
	return &Runtime{
		state:       state,
		blockNumber: blockNumber,
		blockTime:   blockTime,
	}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) BlockNumber() uint32 { return rt.blockNumber }
func (rt *Runtime) BlockTime() uint64   { return rt.blockTime }

// SetConfig config the runtime.
// Returns this runtime.
func (rt *Runtime) SetConfig(config Config) *Runtime {
	rt.config = config
	return rt
}

func (rt *Runtime) maxCallDepth() int {
	if rt.config.MaxCallDepth > 0 {
		return rt.config.MaxCallDepth
	}
	return thor.MaxCallDepth
}

// ExecuteClause executes single clause on behalf of txCtx.Origin.
// A failed clause is reported by Output.VMErr with all its changes reverted. The returned error is
// non-nil only for fatal failures, in which case the state is reverted as well.
func (rt *Runtime) ExecuteClause(clause *tx.Clause, txCtx *xenv.TransactionContext, gas uint64) (*Output, error) {
	return rt.execute(clause, txCtx, gas, false)
}

// StaticCall executes a read only clause. Any state modification fails with xenv.ErrWriteProtection.
func (rt *Runtime) StaticCall(clause *tx.Clause, txCtx *xenv.TransactionContext, gas uint64) (*Output, error) {
	return rt.execute(clause, txCtx, gas, true)
}

func (rt *Runtime) execute(clause *tx.Clause, txCtx *xenv.TransactionContext, gas uint64, readonly bool) (output *Output, err error) {
	vm := &callVM{
		rt:       rt,
		blockCtx: &xenv.BlockContext{Number: rt.blockNumber, Time: rt.blockTime},
		txCtx:    txCtx,
		readonly: readonly,
	}

	checkpoint := rt.state.NewCheckpoint()
	defer func() {
		if e := recover(); e != nil {
			rt.state.RevertTo(checkpoint)
			if cause, ok := e.(error); ok {
				err = errors.WithMessage(cause, "clause aborted")
			} else {
				err = fmt.Errorf("clause aborted: %v", e)
			}
			logger.Warn("clause aborted", "to", clause.To, "err", err)
			output = nil
		}
	}()

	data, leftOverGas, vmErr := vm.Call(txCtx.Origin, clause.To, clause.Data, gas)
	output = &Output{
		Data:        data,
		LeftOverGas: leftOverGas,
		VMErr:       vmErr,
	}
	if vmErr != nil {
		output.Data = nil
		output.RevertReason = reverts.Reason(vmErr)
		logger.Debug("clause reverted", "to", clause.To, "err", vmErr)
		return output, nil
	}
	output.Events = vm.events
	return output, nil
}

// callVM dispatches calls to builtin contracts within a clause execution.
type callVM struct {
	rt       *Runtime
	blockCtx *xenv.BlockContext
	txCtx    *xenv.TransactionContext
	readonly bool
	depth    int
	events   tx.Events
}

func (vm *callVM) Call(caller, to thor.Address, input []byte, gas uint64) ([]byte, uint64, error) {
	if vm.depth >= vm.rt.maxCallDepth() {
		return nil, gas, xenv.ErrDepth
	}

	method, run, found := builtin.FindNativeCall(to, input)
	if !found {
		if builtin.IsNative(to) {
			return nil, gas, xenv.ErrMethodNotSupported
		}
		return nil, gas, xenv.ErrContractNotFound
	}

	state := vm.rt.state
	checkpoint := state.NewCheckpoint()
	eventCount := len(vm.events)

	contract := xenv.NewContract(caller, to, input, gas)
	env := xenv.New(method, state, vm.blockCtx, vm.txCtx, vm, contract)

	vm.depth++
	defer func() { vm.depth-- }()

	ret, err := env.Call(run, vm.readonly)()
	if err != nil {
		state.RevertTo(checkpoint)
		vm.events = vm.events[:eventCount]

		var revertErr *reverts.ErrRequire
		if errors.As(err, &revertErr) {
			// a revert returns the remaining gas
			return revertErr.Bytes(), contract.Gas, err
		}
		return nil, 0, err
	}
	return ret, contract.Gas, nil
}

func (vm *callVM) AddEvent(event *tx.Event) {
	vm.events = append(vm.events, event)
}
