// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	vault BLOB(32) NOT NULL,
	kind TEXT NOT NULL,
	signer BLOB(32) NOT NULL,
	time INTEGER NOT NULL,
	data BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(vault, seq);
CREATE INDEX IF NOT EXISTS event_i1 ON event(signer, seq);
CREATE INDEX IF NOT EXISTS event_i2 ON event(time);
`
