// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type ClockSync struct {
	Offset    string     `json:"offset"`
	CheckedAt *time.Time `json:"checkedAt"`
	Error     string     `json:"error,omitempty"`
}

type Status struct {
	Healthy    bool       `json:"healthy"`
	LedgerTime uint64     `json:"ledgerTime"`
	ClockSync  *ClockSync `json:"clockSync"`
}

// Health reports whether the ledger clock can be trusted.
type Health struct {
	lock       sync.RWMutex
	tolerance  time.Duration
	ledgerTime func() uint64

	checkedAt time.Time
	offset    time.Duration
	checkErr  error
}

func New(tolerance time.Duration, ledgerTime func() uint64) *Health {
	return &Health{
		tolerance:  tolerance,
		ledgerTime: ledgerTime,
	}
}

// ClockChecked records the result of a clock offset check.
func (h *Health) ClockChecked(offset time.Duration, err error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.checkedAt = time.Now()
	h.offset = offset
	h.checkErr = err
}

func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	status := &Status{Healthy: true}
	if h.ledgerTime != nil {
		status.LedgerTime = h.ledgerTime()
	}
	if h.checkedAt.IsZero() {
		return status, nil
	}

	checkedAt := h.checkedAt
	status.ClockSync = &ClockSync{
		Offset:    common.PrettyDuration(h.offset).String(),
		CheckedAt: &checkedAt,
	}
	if h.checkErr != nil {
		// an unreachable server says nothing about the local clock
		status.ClockSync.Error = h.checkErr.Error()
		return status, nil
	}
	offset := h.offset
	if offset < 0 {
		offset = -offset
	}
	status.Healthy = offset <= h.tolerance
	return status, nil
}
