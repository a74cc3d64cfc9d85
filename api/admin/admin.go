// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	healthAPI "github.com/vechain/stakeledger/api/admin/health"
	"github.com/vechain/stakeledger/api/admin/settings"
	"github.com/vechain/stakeledger/health"
)

// New returns the handler of the admin server. Every route lives under /admin.
func New(logLevel *slog.LevelVar, apiLogs *atomic.Bool, health *health.Health) http.HandlerFunc {
	router := mux.NewRouter()

	healthAPI.New(health).Mount(router, "/admin/health")
	settings.New(logLevel, apiLogs).Mount(router, "/admin")

	return handlers.CompressHandler(router).ServeHTTP
}
