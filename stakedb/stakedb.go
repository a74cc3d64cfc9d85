// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakedb

import (
	"context"
	"database/sql"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
)

// ErrNotFound is returned when a receipt is not stored.
var ErrNotFound = errors.New("not found")

// StakeDB stores receipts and events of executed calls.
type StakeDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open stake db at given path.
func New(path string) (stakeDB *StakeDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if stakeDB == nil {
			db.Close()
		}
	}()
	// one connection, so that an in-memory db is not recreated per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema + receiptTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &StakeDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a stake db in ram.
func NewMem() (*StakeDB, error) {
	return New(":memory:")
}

// Close close the stake db.
func (db *StakeDB) Close() error {
	return db.db.Close()
}

func (db *StakeDB) Path() string {
	return db.path
}

func (db *StakeDB) DriverVersion() string {
	return db.driverVersion
}

func topicValue(topic *thor.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

func (db *StakeDB) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Write stores receipt and its events in one transaction.
func (db *StakeDB) Write(receipt *tx.Receipt) error {
	err := db.execInTx(func(sqlTx *sql.Tx) error {
		if _, err := sqlTx.Exec("INSERT OR REPLACE INTO receipt(callID, caller, time, gasUsed, reverted, revertReason, output, stateHash) VALUES (?, ?, ?, ?, ?, ?, ?, ?);",
			receipt.CallID.Bytes(),
			receipt.Caller.Bytes(),
			receipt.Time,
			receipt.GasUsed,
			receipt.Reverted,
			receipt.RevertReason,
			receipt.Output,
			receipt.StateHash.Bytes(),
		); err != nil {
			return err
		}

		for i, txEvent := range receipt.Events {
			event := newEvent(receipt, uint32(i), txEvent)
			if _, err := sqlTx.Exec("INSERT INTO event(callID, eventIndex, caller, time, address, topic0, topic1, topic2, topic3, topic4, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				event.CallID.Bytes(),
				event.Index,
				event.Caller.Bytes(),
				event.Time,
				event.Address.Bytes(),
				topicValue(event.Topics[0]),
				topicValue(event.Topics[1]),
				topicValue(event.Topics[2]),
				topicValue(event.Topics[3]),
				topicValue(event.Topics[4]),
				event.Data,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "write receipt")
	}
	metricWriteCounter().AddWithLabel(1, map[string]string{"type": "receipt"})
	metricWriteCounter().AddWithLabel(int64(len(receipt.Events)), map[string]string{"type": "event"})
	return nil
}

// GetReceipt returns the receipt of the call along with its events.
func (db *StakeDB) GetReceipt(ctx context.Context, callID thor.Bytes32) (*tx.Receipt, error) {
	var (
		caller    []byte
		stateHash []byte
		receipt   = tx.Receipt{CallID: callID}
	)
	row := db.db.QueryRowContext(ctx, "SELECT caller, time, gasUsed, reverted, revertReason, output, stateHash FROM receipt WHERE callID = ?", callID.Bytes())
	if err := row.Scan(&caller, &receipt.Time, &receipt.GasUsed, &receipt.Reverted, &receipt.RevertReason, &receipt.Output, &stateHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	receipt.Caller = thor.BytesToAddress(caller)
	receipt.StateHash = thor.BytesToBytes32(stateHash)

	events, err := db.queryEvents(ctx, "SELECT * FROM event WHERE callID = ? ORDER BY seq ASC", callID.Bytes())
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		txEvent := &tx.Event{Address: ev.Address, Data: ev.Data}
		for _, topic := range ev.Topics {
			if topic != nil {
				txEvent.Topics = append(txEvent.Topics, *topic)
			}
		}
		receipt.Events = append(receipt.Events, txEvent)
	}
	return &receipt, nil
}

// NewestEventSeq returns the position of the last stored event, zero if none.
func (db *StakeDB) NewestEventSeq(ctx context.Context) (uint64, error) {
	var seq uint64
	if err := db.db.QueryRowContext(ctx, "SELECT IFNULL(MAX(seq), 0) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

func (db *StakeDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.AfterSeq > 0 {
		args = append(args, filter.AfterSeq)
		stmt += " AND seq > ? "
	}
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND time >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND time <= ? "
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ? "
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		stmt += ")"
		if i == len(filter.CriteriaSet)-1 {
			stmt += ")"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *StakeDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq     uint64
			callID  []byte
			index   uint32
			caller  []byte
			time    uint64
			address []byte
			topics  [5][]byte
			data    []byte
		)
		if err := rows.Scan(
			&seq,
			&callID,
			&index,
			&caller,
			&time,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			Seq:     seq,
			CallID:  thor.BytesToBytes32(callID),
			Index:   index,
			Caller:  thor.BytesToAddress(caller),
			Time:    time,
			Address: thor.BytesToAddress(address),
			Data:    data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := thor.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
