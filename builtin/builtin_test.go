// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/abi"
	"github.com/vechain/stakeledger/builtin/staking"
	"github.com/vechain/stakeledger/builtin/token"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/test/datagen"
)

func TestContractAddresses(t *testing.T) {
	assert.NotEqual(t, Staking.Address, Token.Address)
	assert.True(t, IsNative(Staking.Address))
	assert.True(t, IsNative(Token.Address))
	assert.False(t, IsNative(datagen.RandAddress()))
	assert.Equal(t, "Staking", Staking.Name())
}

func TestAllMethodsRegistered(t *testing.T) {
	for _, name := range []string{"stake", "unstake", "restake", "claim", "accountOf", "pendingReward", "stakingToken", "rewardMultiplier"} {
		id := Staking.mustMethod(name).ID()
		method, run, found := FindNativeCall(Staking.Address, id[:])
		require.True(t, found, name)
		assert.NotNil(t, run)
		assert.Equal(t, name, method.Name())
	}

	for _, name := range []string{"name", "symbol", "decimals", "minter", "totalSupply", "balanceOf", "allowance", "transfer", "approve", "transferFrom", "mint"} {
		id := Token.mustMethod(name).ID()
		_, _, found := FindNativeCall(Token.Address, id[:])
		assert.True(t, found, name)
	}

	_, _, found := FindNativeCall(Staking.Address, abi.EmptyMethodID[:])
	assert.True(t, found, "constructor")

	_, _, found = FindNativeCall(Staking.Address, []byte{1, 2})
	assert.False(t, found)
	id := Token.mustMethod("transfer").ID()
	_, _, found = FindNativeCall(Staking.Address, id[:])
	assert.False(t, found)
}

func TestNativeInProcessToken(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st := state.New(db)

	alice := datagen.RandAddress()
	tk := Token.Native(st)
	require.NoError(t, tk.Initialize(&token.Metadata{Name: "Stake", Symbol: "STK", Decimals: 18, Minter: Staking.Address}))
	require.NoError(t, tk.Credit(alice, uint256.NewInt(100)))
	require.NoError(t, tk.Approve(alice, Staking.Address, uint256.NewInt(100)))

	s := Staking.Native(st)
	require.NoError(t, s.Initialize(&staking.Params{StakingToken: Token.Address, RewardMultiplier: uint256.NewInt(5)}))

	_, err = s.Stake(alice, uint256.NewInt(100), 10)
	require.NoError(t, err)
	claimed, err := s.Claim(alice, 12)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), claimed.Uint64())
	_, err = s.Unstake(alice, uint256.NewInt(100), 12)
	require.NoError(t, err)

	balance, err := tk.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(110), balance.Uint64())
}
