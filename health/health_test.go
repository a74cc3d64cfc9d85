// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_NeverChecked(t *testing.T) {
	h := New(time.Second, func() uint64 { return 42 })

	status, err := h.Status()
	require.NoError(t, err)

	assert.True(t, status.Healthy)
	assert.Equal(t, uint64(42), status.LedgerTime)
	assert.Nil(t, status.ClockSync)
}

func TestHealth_ClockChecked(t *testing.T) {
	tests := []struct {
		name    string
		offset  time.Duration
		err     error
		healthy bool
	}{
		{"within tolerance", 500 * time.Millisecond, nil, true},
		{"negative within tolerance", -500 * time.Millisecond, nil, true},
		{"ahead", 3 * time.Second, nil, false},
		{"behind", -3 * time.Second, nil, false},
		{"unreachable", 0, errors.New("no route"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(time.Second, nil)
			h.ClockChecked(tt.offset, tt.err)

			status, err := h.Status()
			require.NoError(t, err)

			assert.Equal(t, tt.healthy, status.Healthy)
			require.NotNil(t, status.ClockSync)
			assert.WithinDuration(t, time.Now(), *status.ClockSync.CheckedAt, time.Second)
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), status.ClockSync.Error)
			}
		})
	}
}
