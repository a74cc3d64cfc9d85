// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/health"
)

func getHealth(t *testing.T, h *health.Health) (int, *health.Status) {
	router := mux.NewRouter()
	New(h).Mount(router, "/admin/health")
	ts := httptest.NewServer(router)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/admin/health")
	require.NoError(t, err)
	defer res.Body.Close()

	var status health.Status
	require.NoError(t, json.NewDecoder(res.Body).Decode(&status))
	return res.StatusCode, &status
}

func TestHealthy(t *testing.T) {
	h := health.New(time.Second, func() uint64 { return 7 })
	h.ClockChecked(10*time.Millisecond, nil)

	code, status := getHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, status.Healthy)
	assert.Equal(t, uint64(7), status.LedgerTime)
}

func TestClockDrifted(t *testing.T) {
	h := health.New(time.Second, nil)
	h.ClockChecked(time.Minute, nil)

	code, status := getHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, status.Healthy)
	assert.NotEmpty(t, status.ClockSync.Offset)
}
