// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vechain/stakeledger/api/subscriptions"
)

var ErrUnexpectedMsg = errors.New("unexpected message format")

// EventWrapper carries either a received message or the error that ended the subscription.
type EventWrapper[T any] struct {
	Data  T
	Error error
}

// SubscribeEvents streams the events matching query, e.g. "address=0x...&pos=12".
// The channel is closed after an error is delivered or once the returned func is called.
func (c *Client) SubscribeEvents(query string) (<-chan EventWrapper[*subscriptions.EventMessage], func(), error) {
	conn, err := c.connect("/subscriptions/event", query)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to connect - %w", err)
	}
	ch, unsubscribe := subscribe[subscriptions.EventMessage](conn)
	return ch, unsubscribe, nil
}

func subscribe[T any](conn *websocket.Conn) (<-chan EventWrapper[*T], func()) {
	eventChan := make(chan EventWrapper[*T])
	done := make(chan struct{})
	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			conn.Close()
		})
	}

	go func() {
		defer close(eventChan)
		defer unsubscribe()

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				select {
				case <-done:
				case eventChan <- EventWrapper[*T]{Error: fmt.Errorf("%w: %w", ErrUnexpectedMsg, err)}:
				}
				return
			}
			select {
			case <-done:
				return
			case eventChan <- EventWrapper[*T]{Data: &data}:
			}
		}
	}()
	return eventChan, unsubscribe
}

func (c *Client) connect(endpoint, rawQuery string) (*websocket.Conn, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return nil, fmt.Errorf("invalid url")
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + endpoint
	u.RawQuery = rawQuery

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
