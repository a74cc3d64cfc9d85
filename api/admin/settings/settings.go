// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package settings serves the runtime tunables of a running node: the log
// verbosity and the per request API logging switch.
package settings

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/log"
)

var logger = log.WithContext("pkg", "admin")

var levels = []slog.Level{log.LevelTrace, log.LevelDebug, log.LevelInfo, log.LevelWarn, log.LevelError, log.LevelCrit}

func parseLevel(s string) (slog.Level, error) {
	for _, lvl := range levels {
		if log.LevelString(lvl) == s {
			return lvl, nil
		}
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

type Settings struct {
	logLevel *slog.LevelVar
	apiLogs  *atomic.Bool
}

func New(logLevel *slog.LevelVar, apiLogs *atomic.Bool) *Settings {
	return &Settings{logLevel, apiLogs}
}

func (s *Settings) handleGetLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, LogLevel{Level: log.LevelString(s.logLevel.Level())})
}

func (s *Settings) handleSetLogLevel(w http.ResponseWriter, req *http.Request) error {
	var body LogLevel
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	lvl, err := parseLevel(body.Level)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "level"))
	}
	s.logLevel.Set(lvl)
	logger.Info("log level changed", "level", body.Level)

	return s.handleGetLogLevel(w, req)
}

func (s *Settings) handleGetAPILogs(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, APILogs{Enabled: s.apiLogs.Load()})
}

func (s *Settings) handleSetAPILogs(w http.ResponseWriter, req *http.Request) error {
	var body APILogs
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	s.apiLogs.Store(body.Enabled)
	logger.Info("api logs switched", "enabled", body.Enabled)

	return s.handleGetAPILogs(w, req)
}

// Mount registers /loglevel and /apilogs under pathPrefix.
func (s *Settings) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/loglevel").
		Methods(http.MethodGet).
		Name("GET /admin/loglevel").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetLogLevel))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		Name("POST /admin/loglevel").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSetLogLevel))
	sub.Path("/apilogs").
		Methods(http.MethodGet).
		Name("GET /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAPILogs))
	sub.Path("/apilogs").
		Methods(http.MethodPost).
		Name("POST /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSetAPILogs))
}
