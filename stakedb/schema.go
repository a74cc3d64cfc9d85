// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakedb

const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	callID BLOB(32) NOT NULL,
	eventIndex INTEGER NOT NULL,
	caller BLOB(20) NOT NULL,
	time INTEGER NOT NULL,
	address BLOB(20) NOT NULL,
	topic0 BLOB(32),
	topic1 BLOB(32),
	topic2 BLOB(32),
	topic3 BLOB(32),
	topic4 BLOB(32),
	data BLOB
);

CREATE INDEX IF NOT EXISTS eventCallIndex ON event(callID);
CREATE INDEX IF NOT EXISTS eventTimeIndex ON event(time);
CREATE INDEX IF NOT EXISTS eventAddressIndex ON event(address);
CREATE INDEX IF NOT EXISTS eventTopicIndex0 ON event(topic0);
CREATE INDEX IF NOT EXISTS eventTopicIndex1 ON event(topic1);
`

const receiptTableSchema = `
CREATE TABLE IF NOT EXISTS receipt (
	callID BLOB(32) PRIMARY KEY,
	caller BLOB(20) NOT NULL,
	time INTEGER NOT NULL,
	gasUsed INTEGER NOT NULL,
	reverted INTEGER NOT NULL,
	revertReason TEXT,
	output BLOB,
	stateHash BLOB(32)
);

CREATE INDEX IF NOT EXISTS receiptCallerIndex ON receipt(caller);
`
