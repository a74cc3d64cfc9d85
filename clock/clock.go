// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the ledger time: unix seconds that never go backwards.
package clock

import (
	"context"
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/stakeledger/log"
)

var logger = log.WithContext("pkg", "clock")

// DefaultNTPServer is queried to detect a drifting local clock.
const DefaultNTPServer = "pool.ntp.org"

// Clock is a monotonic ledger clock over a wall clock source.
type Clock struct {
	lock sync.Mutex
	src  func() time.Time
	last uint64
}

// New creates a clock backed by the system time.
func New() *Clock {
	return NewWithSource(time.Now)
}

// NewWithSource creates a clock backed by src.
func NewWithSource(src func() time.Time) *Clock {
	return &Clock{src: src}
}

// Now returns the current ledger time in unix seconds. A wall clock stepping back is absorbed
// by repeating the last returned value.
func (c *Clock) Now() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	if now := uint64(c.src().Unix()); now > c.last {
		c.last = now
	}
	return c.last
}

// Manual is a clock driven by hand, for tests and simulation.
type Manual struct {
	lock sync.Mutex
	now  uint64
}

func NewManual(start uint64) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() uint64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.now
}

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.now += d
}

// Set moves the clock to now, which may be in the past.
func (m *Manual) Set(now uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.now = now
}

// CheckOffset queries server and warns if the local clock is off by more than tolerance.
func CheckOffset(server string, tolerance time.Duration) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return 0, err
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > tolerance {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
	return resp.ClockOffset, nil
}

// SyncLoop checks the clock offset against server every interval until ctx is done.
// Each result is passed to report, which may be nil.
func SyncLoop(ctx context.Context, server string, interval, tolerance time.Duration, report func(offset time.Duration, err error)) {
	logger.Debug("enter clock sync loop")
	defer logger.Debug("leave clock sync loop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		offset, err := CheckOffset(server, tolerance)
		if report != nil {
			report(offset, err)
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
