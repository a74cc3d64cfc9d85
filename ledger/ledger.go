// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger serializes clause execution against the persisted staking state.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/runtime"
	"github.com/vechain/stakeledger/stakedb"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
	"github.com/vechain/stakeledger/xenv"
)

var logger = log.WithContext("pkg", "ledger")

// Clock supplies the ledger time in seconds. It must never go backwards.
type Clock interface {
	Now() uint64
}

type Options struct {
	// CallGasLimit is the gas granted to each executed clause, thor.DefaultClauseGasLimit if zero.
	CallGasLimit uint64
}

// Ledger executes clauses one at a time and commits the changes of successful ones.
type Ledger struct {
	lock    sync.Mutex
	stater  *state.Stater
	db      kv.Store
	eventDB *stakedb.StakeDB
	clock   Clock
	gas     uint64
	number  uint32
	last    uint64
	changed chan struct{}
}

// New creates a ledger over db, resuming the call count and time of a previous run.
// eventDB is optional; receipts are not stored if nil.
func New(db kv.Store, eventDB *stakedb.StakeDB, clock Clock, opts Options) (*Ledger, error) {
	gas := opts.CallGasLimit
	if gas == 0 {
		gas = thor.DefaultClauseGasLimit
	}
	h, err := loadHead(metaBucket.NewGetter(db))
	if err != nil {
		return nil, err
	}
	return &Ledger{
		stater:  state.NewStater(stateBucket.NewStore(db)),
		db:      db,
		eventDB: eventDB,
		clock:   clock,
		gas:     gas,
		number:  h.number,
		last:    h.time,
		changed: make(chan struct{}),
	}, nil
}

// Changed returns a channel closed after the next clause is executed.
func (l *Ledger) Changed() <-chan struct{} {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.changed
}

func (l *Ledger) notify() {
	close(l.changed)
	l.changed = make(chan struct{})
}

// State returns a view of the committed state. Changes made to it are never persisted.
func (l *Ledger) State() *state.State {
	return l.stater.NewState()
}

// Now returns the ledger time the next clause would execute at.
func (l *Ledger) Now() uint64 {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.now()
}

func (l *Ledger) now() uint64 {
	// the ledger stays monotonic even if the clock does not
	l.last = max(l.last, l.clock.Now())
	return l.last
}

func newCallID() thor.Bytes32 {
	return thor.Blake2b(uuid.NewRandom())
}

func contractName(addr thor.Address) string {
	switch addr {
	case builtin.Staking.Address:
		return builtin.Staking.Name()
	case builtin.Token.Address:
		return builtin.Token.Name()
	default:
		return "unknown"
	}
}

// Execute runs clause on behalf of caller and commits its changes if it succeeds. A reverted clause
// produces a receipt marked reverted and leaves no trace in the state. The error is non-nil only for
// fatal failures, which change nothing either.
func (l *Ledger) Execute(ctx context.Context, caller thor.Address, clause *tx.Clause) (*tx.Receipt, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	now := l.now()
	callID := newCallID()
	st := l.stater.NewState()

	out, err := runtime.New(st, l.number+1, now).
		ExecuteClause(clause, &xenv.TransactionContext{ID: callID, Origin: caller}, l.gas)
	if err != nil {
		metricCallCount().AddWithLabel(1, map[string]string{"contract": contractName(clause.To), "result": "aborted"})
		logger.Error("clause aborted", "callID", callID, "caller", caller, "err", err)
		return nil, err
	}

	receipt := &tx.Receipt{
		CallID:  callID,
		Caller:  caller,
		Time:    now,
		GasUsed: l.gas - out.LeftOverGas,
		Output:  out.Data,
	}
	result := "success"
	if out.VMErr != nil {
		result = "reverted"
		receipt.Reverted = true
		receipt.RevertReason = out.RevertReason
		if receipt.RevertReason == "" {
			receipt.RevertReason = out.VMErr.Error()
		}
	}
	var stage *state.Stage
	if !receipt.Reverted {
		stage = st.Stage()
		receipt.StateHash = stage.Hash()
		receipt.Events = out.Events
	}
	if err := l.commit(stage, head{l.number + 1, now}); err != nil {
		return nil, err
	}
	l.number++

	if l.eventDB != nil {
		if err := l.eventDB.Write(receipt); err != nil {
			// state is already committed, losing the receipt is not fatal to the ledger
			logger.Warn("failed to write receipt", "callID", callID, "err", err)
		}
	}
	l.notify()

	name := contractName(clause.To)
	metricCallCount().AddWithLabel(1, map[string]string{"contract": name, "result": result})
	metricCallGasUsed().ObserveWithLabels(int64(receipt.GasUsed), map[string]string{"contract": name})
	metricCallDuration().Observe(time.Since(startTime).Milliseconds())
	metricLedgerTime().Set(int64(now))

	logger.Debug("clause executed", "callID", callID, "caller", caller, "to", clause.To, "reverted", receipt.Reverted, "gas", receipt.GasUsed)
	return receipt, nil
}

// commit writes the head, and the stage if any, in one bulk of the main store.
func (l *Ledger) commit(stage *state.Stage, h head) error {
	bulk := l.db.Bulk()
	if err := saveHead(metaBucket.NewPutter(bulk), h); err != nil {
		return err
	}
	if stage == nil {
		return errors.Wrap(bulk.Write(), "commit ledger head")
	}
	return errors.Wrap(stage.CommitBulk(stateBucket.NewBulk(bulk)), "commit state")
}

// Call simulates clause on behalf of caller at the current ledger time. Nothing is committed.
func (l *Ledger) Call(caller thor.Address, clause *tx.Clause, gas uint64) (*runtime.Output, error) {
	if gas == 0 || gas > l.gas {
		gas = l.gas
	}
	l.lock.Lock()
	now, number := l.now(), l.number
	l.lock.Unlock()

	return runtime.New(l.stater.NewState(), number+1, now).
		ExecuteClause(clause, &xenv.TransactionContext{Origin: caller}, gas)
}

// Receipt returns the stored receipt of a call.
func (l *Ledger) Receipt(ctx context.Context, callID thor.Bytes32) (*tx.Receipt, error) {
	if l.eventDB == nil {
		return nil, stakedb.ErrNotFound
	}
	return l.eventDB.GetReceipt(ctx, callID)
}

// EventDB returns the event store, nil if none.
func (l *Ledger) EventDB() *stakedb.StakeDB {
	return l.eventDB
}
