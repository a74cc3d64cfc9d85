// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/stakedb"
	"github.com/vechain/stakeledger/thor"
)

type testEnv struct {
	ledger *ledger.Ledger
	subs   *Subscriptions
	wsURL  string
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	eventDB, err := stakedb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { eventDB.Close() })

	l, err := ledger.New(db, eventDB, clock.NewManual(100), ledger.Options{})
	require.NoError(t, err)
	_, err = l.ApplyGenesis(ledger.DevGenesis())
	require.NoError(t, err)

	subs := New(l, []string{"*"}, 2)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		subs.Close()
		ts.Close()
	})
	return &testEnv{l, subs, "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/event"}
}

func (env *testEnv) transfer(t *testing.T, to thor.Address, amount int64) {
	clause, err := builtin.Token.Clause("transfer", common.Address(to), big.NewInt(amount))
	require.NoError(t, err)
	receipt, err := env.ledger.Execute(context.Background(), ledger.DevAccounts[0], clause)
	require.NoError(t, err)
	require.False(t, receipt.Reverted, receipt.RevertReason)
}

func (env *testEnv) dial(t *testing.T, query string) *websocket.Conn {
	conn, resp, err := websocket.DefaultDialer.Dial(env.wsURL+"?"+query, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) *EventMessage {
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg EventMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return &msg
}

func TestSubscribeNewEvents(t *testing.T) {
	env := newTestEnv(t)
	recipient := thor.BytesToAddress([]byte("recipient"))

	// recorded before subscribing, not delivered
	env.transfer(t, recipient, 1)

	conn := env.dial(t, "address="+builtin.Token.Address.String())
	env.transfer(t, recipient, 2)

	msg := readMessage(t, conn)
	assert.Equal(t, builtin.Token.Address, msg.Address)
	assert.Equal(t, ledger.DevAccounts[0], msg.Meta.Caller)
	assert.Equal(t, uint64(2), msg.Meta.Seq)
	assert.Equal(t, uint64(100), msg.Meta.Time)
	require.Len(t, msg.Topics, 3)
	assert.Equal(t, thor.BytesToBytes32(recipient.Bytes()), *msg.Topics[2])
}

func TestSubscribeFromPosition(t *testing.T) {
	env := newTestEnv(t)
	for i := range 3 {
		env.transfer(t, thor.BytesToAddress([]byte{byte(i + 1)}), 1)
	}

	conn := env.dial(t, "pos=1")
	assert.Equal(t, uint64(2), readMessage(t, conn).Meta.Seq)
	assert.Equal(t, uint64(3), readMessage(t, conn).Meta.Seq)
}

func TestSubscribeTopicFilter(t *testing.T) {
	env := newTestEnv(t)
	wanted := thor.BytesToAddress([]byte("wanted"))
	topic := thor.BytesToBytes32(wanted.Bytes())

	conn := env.dial(t, "t2="+topic.String())
	env.transfer(t, thor.BytesToAddress([]byte("other")), 1)
	env.transfer(t, wanted, 5)

	msg := readMessage(t, conn)
	assert.Equal(t, topic, *msg.Topics[2])
	assert.Equal(t, uint64(2), msg.Meta.Seq)
}

func TestSubscribeBadRequests(t *testing.T) {
	env := newTestEnv(t)
	for range 4 {
		env.transfer(t, thor.BytesToAddress([]byte("recipient")), 1)
	}

	tests := []struct {
		name  string
		query string
		code  int
	}{
		{"bad address", "address=0xzz", http.StatusBadRequest},
		{"bad topic", "t0=0x01", http.StatusBadRequest},
		{"bad pos", "pos=abc", http.StatusBadRequest},
		{"pos ahead", "pos=5", http.StatusBadRequest},
		{"backtrace exceeded", "pos=1", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(env.wsURL+"?"+tt.query, nil)
			assert.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}

func TestCloseEndsSubscriptions(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "")
	env.transfer(t, thor.BytesToAddress([]byte("x")), 1)
	readMessage(t, conn)

	env.subs.Close()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), err.Error())
			break
		}
	}
}
