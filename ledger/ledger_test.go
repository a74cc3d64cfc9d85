// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/stakedb"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
)

type testLedger struct {
	*Ledger
	clock *clock.Manual
	db    *lvldb.LevelDB
}

func newTestLedger(t *testing.T, multiplier uint64) *testLedger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	eventDB, err := stakedb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { eventDB.Close() })

	c := clock.NewManual(1_000_000)
	l, err := New(db, eventDB, c, Options{})
	require.NoError(t, err)

	g := DevGenesis()
	g.RewardMultiplier = uint256.NewInt(multiplier)
	applied, err := l.ApplyGenesis(g)
	require.NoError(t, err)
	require.True(t, applied)
	return &testLedger{l, c, db}
}

func stakingClause(t *testing.T, method string, args ...any) *tx.Clause {
	clause, err := builtin.Staking.Clause(method, args...)
	require.NoError(t, err)
	return clause
}

func tokenClause(t *testing.T, method string, args ...any) *tx.Clause {
	clause, err := builtin.Token.Clause(method, args...)
	require.NoError(t, err)
	return clause
}

func (tl *testLedger) exec(t *testing.T, caller thor.Address, clause *tx.Clause) *tx.Receipt {
	receipt, err := tl.Execute(context.Background(), caller, clause)
	require.NoError(t, err)
	return receipt
}

func (tl *testLedger) mustSucceed(t *testing.T, caller thor.Address, clause *tx.Clause) *tx.Receipt {
	receipt := tl.exec(t, caller, clause)
	require.False(t, receipt.Reverted, receipt.RevertReason)
	return receipt
}

func (tl *testLedger) stake(t *testing.T, caller thor.Address, amount int64) {
	tl.mustSucceed(t, caller, tokenClause(t, "approve", common.Address(builtin.Staking.Address), big.NewInt(amount)))
	tl.mustSucceed(t, caller, stakingClause(t, "stake", big.NewInt(amount)))
}

func (tl *testLedger) balance(t *testing.T, addr thor.Address) *uint256.Int {
	balance, err := builtin.Token.Native(tl.State()).BalanceOf(addr)
	require.NoError(t, err)
	return balance
}

func TestGenesisOnce(t *testing.T) {
	tl := newTestLedger(t, 2)

	applied, err := tl.ApplyGenesis(DevGenesis())
	require.NoError(t, err)
	assert.False(t, applied)

	params, err := builtin.Staking.Native(tl.State()).Params()
	require.NoError(t, err)
	assert.Equal(t, builtin.Token.Address, params.StakingToken)
	assert.Equal(t, uint64(2), params.RewardMultiplier.Uint64())

	// reopening the same store sees the deployment
	reopened, err := New(tl.db, nil, tl.clock, Options{})
	require.NoError(t, err)
	applied, err = reopened.ApplyGenesis(DevGenesis())
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestStakeThenClaimAfterTenUnits(t *testing.T) {
	tl := newTestLedger(t, 2)
	a := DevAccounts[1]
	before := tl.balance(t, a)

	tl.stake(t, a, 100)
	tl.clock.Advance(10)

	receipt := tl.mustSucceed(t, a, stakingClause(t, "claim"))
	require.Len(t, receipt.Events, 2)

	after := tl.balance(t, a)
	want := new(uint256.Int).Sub(before, uint256.NewInt(100))
	want.Add(want, uint256.NewInt(20))
	assert.Equal(t, want, after)

	acc, err := builtin.Staking.Native(tl.State()).GetAccount(a)
	require.NoError(t, err)
	assert.True(t, acc.Available.IsZero())
	assert.Equal(t, uint64(100), acc.Principal.Uint64())

	stored, err := tl.Receipt(context.Background(), receipt.CallID)
	require.NoError(t, err)
	assert.Equal(t, receipt.StateHash, stored.StateHash)
	assert.Len(t, stored.Events, 2)
}

func TestUnstakeMoreThanPrincipal(t *testing.T) {
	tl := newTestLedger(t, 2)
	a := DevAccounts[1]

	tl.stake(t, a, 50)
	tl.clock.Advance(3)

	receipt := tl.exec(t, a, stakingClause(t, "unstake", big.NewInt(60)))
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "insufficient amount", receipt.RevertReason)
	assert.Empty(t, receipt.Events)
	assert.True(t, receipt.StateHash.IsZero())

	acc, err := builtin.Staking.Native(tl.State()).GetAccount(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), acc.Principal.Uint64())
	assert.True(t, acc.Available.IsZero())
}

func TestRestakeCompounds(t *testing.T) {
	tl := newTestLedger(t, 3)
	a := DevAccounts[2]
	tl.stake(t, a, 100)
	tl.clock.Advance(4)

	pending, err := builtin.Staking.Native(tl.State()).PendingReward(a, tl.Now())
	require.NoError(t, err)
	require.Equal(t, uint64(12), pending.Uint64())
	before := tl.balance(t, a)

	receipt := tl.mustSucceed(t, a, stakingClause(t, "restake"))
	assert.Len(t, receipt.Events, 1)

	acc, err := builtin.Staking.Native(tl.State()).GetAccount(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(112), acc.Principal.Uint64())
	assert.True(t, acc.Available.IsZero())
	assert.Equal(t, before, tl.balance(t, a))
}

func TestSameTimestampAccruesOnce(t *testing.T) {
	tl := newTestLedger(t, 5)
	a := DevAccounts[1]
	tl.stake(t, a, 10)
	tl.clock.Advance(2)

	tl.mustSucceed(t, a, stakingClause(t, "restake"))
	tl.mustSucceed(t, a, stakingClause(t, "restake"))

	acc, err := builtin.Staking.Native(tl.State()).GetAccount(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), acc.Principal.Uint64())
}

func TestCallDoesNotCommit(t *testing.T) {
	tl := newTestLedger(t, 2)
	a := DevAccounts[1]
	tl.stake(t, a, 10)

	out, err := tl.Call(a, stakingClause(t, "unstake", big.NewInt(10)), 0)
	require.NoError(t, err)
	require.NoError(t, out.VMErr)
	assert.NotEmpty(t, out.Events)

	acc, err := builtin.Staking.Native(tl.State()).GetAccount(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), acc.Principal.Uint64())
}

func TestLedgerTimeMonotonic(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	src := clock.NewManual(100)
	l, err := New(db, nil, src, Options{})
	require.NoError(t, err)
	assert.Equal(t, uint64(100), l.Now())

	src.Set(50)
	assert.Equal(t, uint64(100), l.Now())
}

func TestConcurrentExecute(t *testing.T) {
	tl := newTestLedger(t, 1)
	a := DevAccounts[1]
	tl.mustSucceed(t, a, tokenClause(t, "approve", common.Address(builtin.Staking.Address), big.NewInt(1000)))

	var g errgroup.Group
	for range 20 {
		g.Go(func() error {
			clause, err := builtin.Staking.Clause("stake", big.NewInt(5))
			if err != nil {
				return err
			}
			_, err = tl.Execute(context.Background(), a, clause)
			return err
		})
	}
	require.NoError(t, g.Wait())

	acc, err := builtin.Staking.Native(tl.State()).GetAccount(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), acc.Principal.Uint64())
	assert.Equal(t, uint64(100), tl.balance(t, builtin.Staking.Address).Uint64())

	events, err := tl.EventDB().FilterEvents(context.Background(), &stakedb.EventFilter{
		CriteriaSet: []*stakedb.EventCriteria{{Address: &builtin.Staking.Address}},
	})
	require.NoError(t, err)
	assert.Len(t, events, 20)
}

func TestExecuteCanceled(t *testing.T) {
	tl := newTestLedger(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tl.Execute(ctx, DevAccounts[0], stakingClause(t, "claim"))
	assert.Equal(t, context.Canceled, err)
}

func TestChangedSignal(t *testing.T) {
	tl := newTestLedger(t, 1)

	changed := tl.Changed()
	select {
	case <-changed:
		t.Fatal("signaled before any execution")
	default:
	}

	// reverted clauses are recorded too
	receipt := tl.exec(t, DevAccounts[0], stakingClause(t, "unstake", big.NewInt(1)))
	assert.True(t, receipt.Reverted)

	select {
	case <-changed:
	default:
		t.Fatal("not signaled after execution")
	}
	assert.NotEqual(t, changed, tl.Changed())
}

func TestReopenResumesHead(t *testing.T) {
	tl := newTestLedger(t, 1)
	tl.mustSucceed(t, DevAccounts[0], tokenClause(t, "approve", common.Address(builtin.Staking.Address), big.NewInt(10)))
	tl.clock.Set(1_000_050)
	tl.mustSucceed(t, DevAccounts[0], stakingClause(t, "stake", big.NewInt(10)))

	// a clock set back across restarts must not rewind the ledger
	back := clock.NewManual(10)
	reopened, err := New(tl.db, nil, back, Options{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_050), reopened.Now())
	assert.Equal(t, uint32(2), reopened.number)

	acc, err := builtin.Staking.Native(reopened.State()).GetAccount(DevAccounts[0])
	require.NoError(t, err)
	assert.Equal(t, uint64(10), acc.Principal.Uint64())
}

func TestCorruptHead(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, metaBucket.NewPutter(db).Put(metaKey, []byte{1, 2, 3}))
	_, err = New(db, nil, clock.NewManual(1), Options{})
	assert.Error(t, err)
}

func TestReadsDuringExecute(t *testing.T) {
	tl := newTestLedger(t, 1)
	a := DevAccounts[1]
	tl.mustSucceed(t, a, tokenClause(t, "approve", common.Address(builtin.Staking.Address), big.NewInt(1000)))

	ctx, cancel := context.WithCancel(context.Background())
	var g errgroup.Group
	for range 4 {
		g.Go(func() error {
			for ctx.Err() == nil {
				if _, err := builtin.Staking.Native(tl.State()).GetAccount(a); err != nil {
					return err
				}
			}
			return nil
		})
	}
	for i := range 50 {
		tl.mustSucceed(t, a, stakingClause(t, "stake", big.NewInt(5)))

		// every committed stake is visible to the next clause and to readers
		acc, err := builtin.Staking.Native(tl.State()).GetAccount(a)
		require.NoError(t, err)
		require.Equal(t, uint64(5*(i+1)), acc.Principal.Uint64())
	}
	cancel()
	require.NoError(t, g.Wait())
}

// failingBulkStore accepts bulks but fails to write them.
type failingBulkStore struct {
	kv.Store
}

func (s failingBulkStore) Bulk() kv.Bulk {
	return failingBulk{s.Store.Bulk()}
}

type failingBulk struct {
	kv.Bulk
}

func (failingBulk) Write() error {
	return errors.New("disk full")
}

func TestExecuteCommitFailure(t *testing.T) {
	tl := newTestLedger(t, 1)
	a := DevAccounts[0]
	tl.mustSucceed(t, a, tokenClause(t, "approve", common.Address(builtin.Staking.Address), big.NewInt(10)))

	broken, err := New(failingBulkStore{tl.db}, nil, tl.clock, Options{})
	require.NoError(t, err)
	tl.clock.Set(1_000_100)

	_, err = broken.Execute(context.Background(), a, stakingClause(t, "stake", big.NewInt(10)))
	assert.Error(t, err)
	_, err = broken.Execute(context.Background(), a, stakingClause(t, "unstake", big.NewInt(10)))
	assert.Error(t, err, "a reverted clause fails too when its head cannot be written")

	reopened, err := New(tl.db, nil, clock.NewManual(1), Options{})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), reopened.number)
	assert.Equal(t, uint64(1_000_000), reopened.Now())

	acc, err := builtin.Staking.Native(reopened.State()).GetAccount(a)
	require.NoError(t, err)
	assert.True(t, acc.IsEmpty())
}
