// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/abi"
	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/builtin/token"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/runtime"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
	"github.com/vechain/stakeledger/xenv"
)

const gasLimit = 1_000_000

var (
	deployer = thor.BytesToAddress([]byte("deployer"))
	alice    = thor.BytesToAddress([]byte("alice"))
)

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.New(db)
}

func encode(t *testing.T, contract *abi.ABI, name string, args ...any) []byte {
	method, found := contract.MethodByName(name)
	require.True(t, found, name)
	data, err := method.EncodeInput(args...)
	require.NoError(t, err)
	return data
}

func constructorClause(t *testing.T, multiplier *big.Int) *tx.Clause {
	args, err := builtin.Staking.ABI.Constructor().EncodeInput(common.Address(builtin.Token.Address), multiplier)
	require.NoError(t, err)
	return tx.NewClause(builtin.Staking.Address).WithData(append(abi.EmptyMethodID[:], args...))
}

func exec(t *testing.T, st *state.State, now uint64, from thor.Address, clause *tx.Clause) *runtime.Output {
	out, err := runtime.New(st, 0, now).ExecuteClause(clause, &xenv.TransactionContext{Origin: from}, gasLimit)
	require.NoError(t, err)
	return out
}

// setup deploys the token and the staking contract, and funds alice with 1000 tokens.
func setup(t *testing.T, st *state.State, multiplier *big.Int) {
	tk := builtin.Token.Native(st)
	require.NoError(t, tk.Initialize(&token.Metadata{Name: "Stake", Symbol: "STK", Decimals: 18, Minter: builtin.Staking.Address}))
	require.NoError(t, tk.Credit(alice, uint256.NewInt(1000)))

	out := exec(t, st, 1, deployer, constructorClause(t, multiplier))
	require.NoError(t, out.VMErr)
}

func stakingClause(t *testing.T, name string, args ...any) *tx.Clause {
	return tx.NewClause(builtin.Staking.Address).WithData(encode(t, builtin.Staking.ABI, name, args...))
}

func tokenClause(t *testing.T, name string, args ...any) *tx.Clause {
	return tx.NewClause(builtin.Token.Address).WithData(encode(t, builtin.Token.ABI, name, args...))
}

func balanceOf(t *testing.T, st *state.State, addr thor.Address) uint64 {
	balance, err := builtin.Token.Native(st).BalanceOf(addr)
	require.NoError(t, err)
	return balance.Uint64()
}

func TestStakeAndClaim(t *testing.T) {
	st := newState(t)
	setup(t, st, big.NewInt(2))

	out := exec(t, st, 1000, alice, tokenClause(t, "approve", common.Address(builtin.Staking.Address), big.NewInt(100)))
	require.NoError(t, out.VMErr)
	require.Len(t, out.Events, 1)

	out = exec(t, st, 1000, alice, stakingClause(t, "stake", big.NewInt(100)))
	require.NoError(t, out.VMErr)
	require.Len(t, out.Events, 2)
	assert.Equal(t, builtin.Token.Address, out.Events[0].Address)
	assert.Equal(t, builtin.Staking.Address, out.Events[1].Address)
	staked, _ := builtin.Staking.ABI.EventByName("Staked")
	assert.Equal(t, staked.ID(), out.Events[1].Topics[0])
	assert.Equal(t, thor.BytesToBytes32(alice.Bytes()), out.Events[1].Topics[1])
	assert.Less(t, out.LeftOverGas, uint64(gasLimit))

	assert.Equal(t, uint64(900), balanceOf(t, st, alice))
	assert.Equal(t, uint64(100), balanceOf(t, st, builtin.Staking.Address))

	out = exec(t, st, 1010, alice, stakingClause(t, "claim"))
	require.NoError(t, out.VMErr)
	require.Len(t, out.Events, 2)
	assert.Equal(t, uint64(920), balanceOf(t, st, alice))

	accountOf, _ := builtin.Staking.ABI.MethodByName("accountOf")
	out, err := runtime.New(st, 0, 1010).StaticCall(stakingClause(t, "accountOf", common.Address(alice)), &xenv.TransactionContext{Origin: alice}, gasLimit)
	require.NoError(t, err)
	require.NoError(t, out.VMErr)

	var acc struct {
		Principal      *big.Int
		Available      *big.Int
		LastRewardTime uint64
	}
	require.NoError(t, accountOf.DecodeOutput(out.Data, &acc))
	assert.Equal(t, int64(100), acc.Principal.Int64())
	assert.Equal(t, int64(0), acc.Available.Int64())
	assert.Equal(t, uint64(1010), acc.LastRewardTime)
}

func TestRevertRollsBack(t *testing.T) {
	st := newState(t)
	setup(t, st, big.NewInt(2))

	// no allowance: the nested token call reverts and so does the stake
	out := exec(t, st, 10, alice, stakingClause(t, "stake", big.NewInt(50)))
	require.Error(t, out.VMErr)
	assert.Equal(t, "insufficient allowance", out.RevertReason)
	assert.Empty(t, out.Events)
	assert.Greater(t, out.LeftOverGas, uint64(0))

	acc, err := builtin.Staking.Native(st).GetAccount(alice)
	require.NoError(t, err)
	assert.True(t, acc.IsEmpty())

	require.NoError(t, exec(t, st, 10, alice, tokenClause(t, "approve", common.Address(builtin.Staking.Address), big.NewInt(50))).VMErr)
	require.NoError(t, exec(t, st, 10, alice, stakingClause(t, "stake", big.NewInt(50))).VMErr)

	out = exec(t, st, 20, alice, stakingClause(t, "unstake", big.NewInt(60)))
	require.Error(t, out.VMErr)
	assert.Equal(t, "insufficient amount", out.RevertReason)

	acc, err = builtin.Staking.Native(st).GetAccount(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), acc.Principal.Uint64())
	assert.Equal(t, uint64(10), acc.LastRewardTime)
	assert.Equal(t, uint64(950), balanceOf(t, st, alice))

	// the guard latch was reverted with the call
	out = exec(t, st, 20, alice, stakingClause(t, "unstake", big.NewInt(50)))
	require.NoError(t, out.VMErr)
	assert.Equal(t, uint64(1000), balanceOf(t, st, alice))
}

func TestConstructorOnce(t *testing.T) {
	st := newState(t)
	setup(t, st, big.NewInt(2))

	out := exec(t, st, 2, deployer, constructorClause(t, big.NewInt(3)))
	assert.Equal(t, "already initialized", out.RevertReason)

	multiplier, err := builtin.Staking.Native(st).RewardMultiplier()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), multiplier.Uint64())
}

func TestMintNotPermitted(t *testing.T) {
	st := newState(t)
	setup(t, st, big.NewInt(2))

	out := exec(t, st, 2, alice, tokenClause(t, "mint", common.Address(alice), big.NewInt(1)))
	assert.Equal(t, "not minter", out.RevertReason)
	assert.Equal(t, uint64(1000), balanceOf(t, st, alice))
}

func TestOutOfGas(t *testing.T) {
	st := newState(t)
	setup(t, st, big.NewInt(2))
	require.NoError(t, exec(t, st, 10, alice, tokenClause(t, "approve", common.Address(builtin.Staking.Address), big.NewInt(50))).VMErr)

	out, err := runtime.New(st, 0, 10).ExecuteClause(stakingClause(t, "stake", big.NewInt(50)), &xenv.TransactionContext{Origin: alice}, 1000)
	require.NoError(t, err)
	assert.Equal(t, xenv.ErrOutOfGas, out.VMErr)
	assert.Equal(t, uint64(0), out.LeftOverGas)
	assert.Equal(t, uint64(1000), balanceOf(t, st, alice))
}

func TestCallDepth(t *testing.T) {
	st := newState(t)
	setup(t, st, big.NewInt(2))
	require.NoError(t, exec(t, st, 10, alice, tokenClause(t, "approve", common.Address(builtin.Staking.Address), big.NewInt(50))).VMErr)

	rt := runtime.New(st, 3, 10).SetConfig(runtime.Config{MaxCallDepth: 1})
	assert.Equal(t, uint32(3), rt.BlockNumber())
	assert.Equal(t, uint64(10), rt.BlockTime())
	assert.Same(t, st, rt.State())
	out, err := rt.ExecuteClause(stakingClause(t, "stake", big.NewInt(50)), &xenv.TransactionContext{Origin: alice}, gasLimit)
	require.NoError(t, err)
	assert.Equal(t, xenv.ErrDepth, out.VMErr)
	assert.Equal(t, uint64(1000), balanceOf(t, st, alice))
}

func TestStaticCall(t *testing.T) {
	st := newState(t)
	setup(t, st, big.NewInt(2))

	out, err := runtime.New(st, 0, 10).StaticCall(stakingClause(t, "claim"), &xenv.TransactionContext{Origin: alice}, gasLimit)
	require.NoError(t, err)
	assert.Equal(t, xenv.ErrWriteProtection, out.VMErr)

	out, err = runtime.New(st, 0, 10).StaticCall(tokenClause(t, "symbol"), &xenv.TransactionContext{Origin: alice}, gasLimit)
	require.NoError(t, err)
	require.NoError(t, out.VMErr)

	symbol, _ := builtin.Token.ABI.MethodByName("symbol")
	var s string
	require.NoError(t, symbol.DecodeOutput(out.Data, &s))
	assert.Equal(t, "STK", s)
}

func TestUnknownTarget(t *testing.T) {
	st := newState(t)
	setup(t, st, big.NewInt(2))

	out := exec(t, st, 10, alice, tx.NewClause(alice).WithData([]byte{1, 2, 3, 4}))
	assert.Equal(t, xenv.ErrContractNotFound, out.VMErr)

	out = exec(t, st, 10, alice, tx.NewClause(builtin.Staking.Address).WithData([]byte{1, 2, 3, 4}))
	assert.Equal(t, xenv.ErrMethodNotSupported, out.VMErr)
	assert.Equal(t, uint64(gasLimit), out.LeftOverGas)
}

func TestFatalError(t *testing.T) {
	st := newState(t)
	setup(t, st, new(uint256.Int).SetAllOne().ToBig())
	require.NoError(t, exec(t, st, 1, alice, tokenClause(t, "approve", common.Address(builtin.Staking.Address), big.NewInt(50))).VMErr)
	require.NoError(t, exec(t, st, 1, alice, stakingClause(t, "stake", big.NewInt(50))).VMErr)

	out, err := runtime.New(st, 0, 3).ExecuteClause(stakingClause(t, "claim"), &xenv.TransactionContext{Origin: alice}, gasLimit)
	assert.Error(t, err)
	assert.Nil(t, out)

	acc, err := builtin.Staking.Native(st).GetAccount(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), acc.LastRewardTime)
}
