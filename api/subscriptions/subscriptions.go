// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/stakedb"
	"github.com/vechain/stakeledger/thor"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	readBatchSize = 100
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

// Subscriptions pushes newly recorded events to websocket clients.
type Subscriptions struct {
	ledger         *ledger.Ledger
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	done           chan struct{}
	closeOnce      sync.Once
	wg             sync.WaitGroup
}

func New(l *ledger.Ledger, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		ledger:         l,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || slices.Contains(allowedOrigins, "*") {
					return true
				}
				return slices.Contains(allowedOrigins, strings.ToLower(origin))
			},
		},
		done: make(chan struct{}),
	}
}

func parseCriteria(query url.Values) (*stakedb.EventCriteria, error) {
	criteria := &stakedb.EventCriteria{}
	if s := query.Get("address"); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "address"))
		}
		criteria.Address = &addr
	}
	for i := range criteria.Topics {
		key := "t" + strconv.Itoa(i)
		if s := query.Get(key); s != "" {
			topic, err := thor.ParseBytes32(s)
			if err != nil {
				return nil, utils.BadRequest(errors.WithMessage(err, key))
			}
			criteria.Topics[i] = &topic
		}
	}
	return criteria, nil
}

// parsePosition returns the sequence to resume after. An absent pos means only events recorded
// from now on.
func (s *Subscriptions) parsePosition(ctx context.Context, db *stakedb.StakeDB, query url.Values) (uint64, error) {
	newest, err := db.NewestEventSeq(ctx)
	if err != nil {
		return 0, err
	}
	str := query.Get("pos")
	if str == "" {
		return newest, nil
	}
	pos, err := strconv.ParseUint(str, 0, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if pos > newest {
		return 0, utils.BadRequest(errors.New("pos: out of range"))
	}
	if newest-pos > s.backtraceLimit {
		return 0, utils.Forbidden(fmt.Errorf("pos: backtrace limit exceeded, at most %d events behind", s.backtraceLimit))
	}
	return pos, nil
}

func (s *Subscriptions) handleEventSubscription(w http.ResponseWriter, req *http.Request) error {
	db := s.ledger.EventDB()
	query := req.URL.Query()
	criteria, err := parseCriteria(query)
	if err != nil {
		return err
	}
	pos, err := s.parsePosition(req.Context(), db, query)
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already replied
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	labels := map[string]string{"subject": "event"}
	metricActiveCount().AddWithLabel(1, labels)
	defer metricActiveCount().AddWithLabel(-1, labels)

	closed := make(chan struct{})
	// the read loop handles pongs and notices the peer going away
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	closeCode, closeText := websocket.CloseGoingAway, ""
	if err := s.pipe(req.Context(), conn, newEventReader(db, pos, criteria), closed); err != nil {
		logger.Debug("subscription closed", "err", err)
		closeCode, closeText = websocket.CloseInternalServerErr, err.Error()
	}
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(closeCode, closeText), time.Now().Add(writeWait))
	return nil
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader *eventReader, closed <-chan struct{}) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		// taken before reading, so an execution in between is not missed
		changed := s.ledger.Changed()
		msgs, more, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if more {
			continue
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-changed:
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close ends all subscriptions and waits for the hijacked connections to be released.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodGet).
		Name("WS /subscriptions/event").
		HandlerFunc(utils.WrapHandlerFunc(s.handleEventSubscription))
}
