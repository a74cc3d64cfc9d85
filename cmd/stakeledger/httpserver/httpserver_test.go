// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/health"
	"github.com/vechain/stakeledger/metrics"
)

func TestStartAdminServer(t *testing.T) {
	var level slog.LevelVar
	var apiLogs atomic.Bool

	url, closeFunc, err := StartAdminServer("localhost:0", &level, &apiLogs, health.New(time.Second, nil))
	require.NoError(t, err)
	defer closeFunc()

	res, err := http.Get(url + "/health")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Post(url+"/apilogs", "application/json", strings.NewReader(`{"enabled":true}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, apiLogs.Load())
}

func TestStartMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()

	url, closeFunc, err := StartMetricsServer("localhost:0")
	require.NoError(t, err)
	defer closeFunc()

	res, err := http.Get(url)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestListenFailure(t *testing.T) {
	_, _, err := StartMetricsServer("not-an-address")
	assert.Error(t, err)
}
