// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/thor"
)

func TestReadIntFromUInt64Flag(t *testing.T) {
	got, err := readIntFromUInt64Flag(42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = readIntFromUInt64Flag(uint64(math.MaxInt))
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, got)

	_, err = readIntFromUInt64Flag(uint64(math.MaxInt) + 1)
	assert.Error(t, err)
}

func TestParseGenesis(t *testing.T) {
	g, err := parseGenesis(strings.NewReader(`
deployer: "0xf077b491b355e64048ce21e3a6fc4751eeea77fa"
token:
  name: Stake Token
  symbol: STK
  decimals: 18
rewardMultiplier: "0x10"
allocations:
  - address: "0x435933c8064b4ae76be665428e0307ef2ccfbd68"
    amount: "1000000000000000000000000"
`))
	require.NoError(t, err)

	assert.Equal(t, thor.MustParseAddress("0xf077b491b355e64048ce21e3a6fc4751eeea77fa"), g.Deployer)
	assert.Equal(t, "STK", g.TokenSymbol)
	assert.Equal(t, uint8(18), g.TokenDecimals)
	assert.Equal(t, uint64(16), g.RewardMultiplier.Uint64())
	require.Len(t, g.Allocations, 1)
	assert.Equal(t, "1000000000000000000000000", g.Allocations[0].Amount.Dec())
}

func TestParseGenesisErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "deployer: \"0xf077b491b355e64048ce21e3a6fc4751eeea77fa\"\nfoo: 1\n"},
		{"bad deployer", "deployer: \"0x01\"\ntoken: {name: A, symbol: A}\nrewardMultiplier: \"1\"\n"},
		{"missing token", "deployer: \"0xf077b491b355e64048ce21e3a6fc4751eeea77fa\"\nrewardMultiplier: \"1\"\n"},
		{"bad multiplier", "deployer: \"0xf077b491b355e64048ce21e3a6fc4751eeea77fa\"\ntoken: {name: A, symbol: A}\nrewardMultiplier: \"x\"\n"},
		{"bad amount", "deployer: \"0xf077b491b355e64048ce21e3a6fc4751eeea77fa\"\ntoken: {name: A, symbol: A}\nrewardMultiplier: \"1\"\nallocations: [{address: \"0x435933c8064b4ae76be665428e0307ef2ccfbd68\", amount: \"-1\"}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseGenesis(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadDefaultGenesis(t *testing.T) {
	g, err := loadGenesis("")
	require.NoError(t, err)
	assert.Equal(t, ledger.DevGenesis(), g)
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.Equal(t, 64, normalizeCacheSize(1))
	assert.Less(t, normalizeCacheSize(math.MaxInt32), math.MaxInt32)
}

func TestHandleAPITimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(200 * time.Millisecond):
		}
		w.WriteHeader(http.StatusNoContent)
	})
	handler := handleAPITimeout(slow, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/subscriptions/event", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
