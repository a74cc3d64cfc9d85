// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package settings

// LogLevel is both the request and the response body of /loglevel.
type LogLevel struct {
	Level string `json:"level"`
}

// APILogs is both the request and the response body of /apilogs.
type APILogs struct {
	Enabled bool `json:"enabled"`
}
