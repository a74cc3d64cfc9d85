// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/stakeledger/api/calls"
	"github.com/vechain/stakeledger/api/events"
	"github.com/vechain/stakeledger/api/middleware"
	"github.com/vechain/stakeledger/api/staking"
	"github.com/vechain/stakeledger/api/subscriptions"
	"github.com/vechain/stakeledger/api/tokens"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/metrics"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	CallGasLimit         uint64
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	LogsLimit            uint64
	BacktraceLimit       uint64
}

// New return api router and a func to release the websocket connections it hijacked
func New(l *ledger.Ledger, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	staking.New(l).
		Mount(router, "/staking")
	tokens.New(l).
		Mount(router, "/tokens")
	calls.New(l, opts.CallGasLimit).
		Mount(router, "/calls")
	closeFunc := func() {}
	if db := l.EventDB(); db != nil {
		events.New(db, opts.LogsLimit).
			Mount(router, "/events")
		subs := subscriptions.New(l, origins, opts.BacktraceLimit)
		subs.Mount(router, "/subscriptions")
		closeFunc = subs.Close
	}

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold)(handler)

	return handler.ServeHTTP, closeFunc
}
