// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockMonotonic(t *testing.T) {
	wall := time.Unix(1000, 0)
	c := NewWithSource(func() time.Time { return wall })

	assert.Equal(t, uint64(1000), c.Now())

	wall = wall.Add(5 * time.Second)
	assert.Equal(t, uint64(1005), c.Now())

	// stepping back is absorbed
	wall = time.Unix(900, 0)
	assert.Equal(t, uint64(1005), c.Now())

	wall = time.Unix(1006, 0)
	assert.Equal(t, uint64(1006), c.Now())
}

func TestSystemClock(t *testing.T) {
	c := New()
	first := c.Now()
	assert.GreaterOrEqual(t, c.Now(), first)
	assert.InDelta(t, time.Now().Unix(), int64(first), 2)
}

func TestManual(t *testing.T) {
	m := NewManual(10)
	assert.Equal(t, uint64(10), m.Now())
	m.Advance(7)
	assert.Equal(t, uint64(17), m.Now())
}

func TestSyncLoopStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	var reported error
	go func() {
		// an unresolvable server fails fast
		SyncLoop(ctx, "invalid.invalid", time.Hour, time.Second, func(_ time.Duration, err error) {
			reported = err
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("sync loop did not stop")
	}
	assert.Error(t, reported)
}
