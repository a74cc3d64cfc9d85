// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/thor"
)

const testABI = `[
	{"type":"constructor","inputs":[{"name":"token","type":"address"},{"name":"multiplier","type":"uint256"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable",
	 "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"Transfer","anonymous":false,
	 "inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`

func TestABI(t *testing.T) {
	abi, err := New([]byte(testABI))
	require.NoError(t, err)

	transfer, ok := abi.MethodByName("transfer")
	require.True(t, ok)
	transferID := transfer.ID()
	assert.Equal(t, "a9059cbb", common.Bytes2Hex(transferID[:]))
	assert.False(t, transfer.Const())

	balanceOf, ok := abi.MethodByName("balanceOf")
	require.True(t, ok)
	assert.True(t, balanceOf.Const())

	to := common.HexToAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	input, err := transfer.EncodeInput(to, big.NewInt(100))
	require.NoError(t, err)

	m, err := abi.MethodByInput(input)
	require.NoError(t, err)
	assert.Equal(t, transfer, m)

	var args struct {
		To     common.Address
		Amount *big.Int
	}
	require.NoError(t, transfer.DecodeInput(input, &args))
	assert.Equal(t, to, args.To)
	assert.Equal(t, int64(100), args.Amount.Int64())

	assert.Error(t, balanceOf.DecodeInput(input, &args), "wrong selector")

	_, err = abi.MethodByInput([]byte{1, 2})
	assert.Error(t, err)
	_, err = abi.MethodByInput([]byte{1, 2, 3, 4})
	assert.Error(t, err)

	out, err := transfer.EncodeOutput(true)
	require.NoError(t, err)
	var success bool
	require.NoError(t, transfer.DecodeOutput(out, &success))
	assert.True(t, success)
	assert.Error(t, transfer.DecodeOutput(out[1:], &success))
}

func TestConstructor(t *testing.T) {
	abi, err := New([]byte(testABI))
	require.NoError(t, err)

	ctor := abi.Constructor()
	require.NotNil(t, ctor)
	assert.True(t, ctor.ID().IsEmpty())

	token := common.HexToAddress("0x01")
	data, err := ctor.EncodeInput(token, big.NewInt(2))
	require.NoError(t, err)
	assert.Len(t, data, 64)

	var args struct {
		Token      common.Address
		Multiplier *big.Int
	}
	require.NoError(t, ctor.DecodeInput(data, &args))
	assert.Equal(t, token, args.Token)
	assert.Equal(t, int64(2), args.Multiplier.Int64())

	noCtor, err := New([]byte(`[{"type":"function","name":"f","inputs":[],"outputs":[]}]`))
	require.NoError(t, err)
	assert.Nil(t, noCtor.Constructor())
}

func TestEvent(t *testing.T) {
	abi, err := New([]byte(testABI))
	require.NoError(t, err)

	ev, ok := abi.EventByName("Transfer")
	require.True(t, ok)
	assert.Equal(t, thor.Keccak256([]byte("Transfer(address,address,uint256)")), ev.ID())

	byID, ok := abi.EventByID(ev.ID())
	require.True(t, ok)
	assert.Equal(t, ev, byID)

	data, err := ev.Encode(big.NewInt(42))
	require.NoError(t, err)
	assert.Len(t, data, 32)

	var decoded struct{ Value *big.Int }
	require.NoError(t, ev.Decode(data, &decoded))
	assert.Equal(t, int64(42), decoded.Value.Int64())
}

func TestUnpackRevert(t *testing.T) {
	reason, err := UnpackRevert(common.Hex2Bytes("08c379a00000000000000000000000000000000000000000000000000000000000000020000000000000000000000000000000000000000000000000000000000000000d72657665727420726561736f6e00000000000000000000000000000000000000"))
	assert.NoError(t, err)
	assert.Equal(t, "revert reason", reason)

	_, err = UnpackRevert(nil)
	assert.Error(t, err)
}
