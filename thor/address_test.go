// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"0X7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"1x7567d83b7b8d80addcb281a71d54fc7b3364ffed", true},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ff", true},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffzz", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			addr, err := ParseAddress(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("staker"))

	data, err := json.Marshal(&addr)
	require.NoError(t, err)
	assert.Equal(t, `"0x00000000000000000000000000007374616b6572"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"0x01"`), &decoded))
	assert.False(t, decoded.IsZero())
	assert.True(t, Address{}.IsZero())
}
