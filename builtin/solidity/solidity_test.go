// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/thor"
)

type gasCounter struct {
	total uint64
}

func (g *gasCounter) use(gas uint64) {
	g.total += gas
}

func newContext(t *testing.T) (*Context, *gasCounter) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gas := &gasCounter{}
	return NewContext(thor.BytesToAddress([]byte("contract")), state.New(db), gas.use), gas
}

type record struct {
	Amount *uint256.Int
	Time   uint64
}

func TestMapping(t *testing.T) {
	ctx, gas := newContext(t)
	m := NewMapping[thor.Address, *record](ctx, thor.Bytes32{1})

	alice := thor.BytesToAddress([]byte("alice"))
	bob := thor.BytesToAddress([]byte("bob"))

	// absent key reads a fresh zero value
	got, err := m.Get(alice)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Amount)
	assert.Equal(t, thor.SloadGas, gas.total)

	gas.total = 0
	require.NoError(t, m.Set(alice, &record{uint256.NewInt(100), 7}, true))
	assert.Equal(t, thor.SstoreSetGas, gas.total)

	gas.total = 0
	require.NoError(t, m.Set(alice, &record{uint256.NewInt(150), 9}, false))
	assert.Equal(t, thor.SstoreResetGas, gas.total)

	got, err = m.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(150), got.Amount)
	assert.Equal(t, uint64(9), got.Time)

	got, err = m.Get(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Time, "keys do not collide")
}

func TestMappingSeparatesBasePositions(t *testing.T) {
	ctx, _ := newContext(t)
	a := NewMapping[thor.Address, *uint256.Int](ctx, thor.Bytes32{1})
	b := NewMapping[thor.Address, *uint256.Int](ctx, thor.Bytes32{2})

	key := thor.BytesToAddress([]byte("key"))
	require.NoError(t, a.Set(key, uint256.NewInt(5), true))

	v, err := b.Get(key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	v, err = a.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v.Uint64())
}

func TestMappingDecodeError(t *testing.T) {
	ctx, _ := newContext(t)
	m := NewMapping[thor.Address, *record](ctx, thor.Bytes32{1})
	key := thor.BytesToAddress([]byte("key"))

	ctx.State().SetRawStorage(ctx.Address(), m.position(key), rlp.RawValue{0xFF})

	_, err := m.Get(key)
	assert.Error(t, err)
}

func TestRaw(t *testing.T) {
	ctx, _ := newContext(t)
	raw := NewRaw[*record](ctx, thor.Bytes32{3})

	v, exists, err := raw.Get()
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NotNil(t, v)

	require.NoError(t, raw.Set(&record{uint256.NewInt(2), 1}, true))

	v, exists, err = raw.Get()
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, uint64(2), v.Amount.Uint64())
}

func TestUint256(t *testing.T) {
	ctx, gas := newContext(t)
	u := NewUint256(ctx, thor.Bytes32{4})

	v, err := u.Get()
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	require.NoError(t, u.Add(uint256.NewInt(10)))
	require.NoError(t, u.Sub(uint256.NewInt(3)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v.Uint64())

	assert.ErrorIs(t, u.Sub(uint256.NewInt(8)), ErrUint256Underflow)

	max := new(uint256.Int).SetAllOne()
	assert.ErrorIs(t, u.Add(max), ErrUint256Overflow)

	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v.Uint64(), "failed ops leave the value untouched")
	assert.NotZero(t, gas.total)
}

func TestBytes32(t *testing.T) {
	ctx, _ := newContext(t)
	b := NewBytes32(ctx, thor.Bytes32{5})

	v := thor.BytesToBytes32([]byte("value"))
	b.Set(&v)
	got, err := b.Get()
	require.NoError(t, err)
	assert.Equal(t, v, got)

	b.Set(nil)
	got, err = b.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
