// Package store persists tick snapshots to a sqlite database so a run
// can be resumed after a restart.
package store

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"

	"stride/snapshot"
)

type Store struct {
	conn *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	session TEXT NOT NULL,
	tick INTEGER NOT NULL,
	taken REAL NOT NULL,
	data BLOB NOT NULL,
	PRIMARY KEY (session, tick)
);
`

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open snapshot db %s", path)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "snapshot db journal mode")
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "snapshot db schema")
	}
	return &Store{conn: conn}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// SaveSnapshot writes one snapshot. Writing the same (session, tick)
// again replaces the earlier row.
func (s *Store) SaveSnapshot(session string, snap snapshot.TickSnapshot) error {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return errors.Wrapf(err, "encode snapshot tick %d", snap.Tick)
	}
	_, err = s.conn.Exec(
		"INSERT OR REPLACE INTO snapshots (session, tick, taken, data) VALUES (?, ?, ?, ?)",
		session, int64(snap.Tick), snap.Time, data,
	)
	return errors.Wrapf(err, "save snapshot tick %d", snap.Tick)
}

// LoadLatest returns the newest snapshot stored for session. The bool
// is false when the session has none.
func (s *Store) LoadLatest(session string) (snapshot.TickSnapshot, bool, error) {
	var blob []byte
	err := s.conn.QueryRow(
		"SELECT data FROM snapshots WHERE session = ? ORDER BY tick DESC LIMIT 1",
		session,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return snapshot.TickSnapshot{}, false, nil
	}
	if err != nil {
		return snapshot.TickSnapshot{}, false, errors.Wrapf(err, "load snapshot for %s", session)
	}
	var snap snapshot.TickSnapshot
	if err := msgpack.Unmarshal(blob, &snap); err != nil {
		return snapshot.TickSnapshot{}, false, errors.Wrapf(err, "decode snapshot for %s", session)
	}
	return snap, true, nil
}

// Count reports how many snapshots a session has stored.
func (s *Store) Count(session string) (int, error) {
	var n int
	err := s.conn.QueryRow(
		"SELECT COUNT(*) FROM snapshots WHERE session = ?", session,
	).Scan(&n)
	return n, errors.Wrap(err, "count snapshots")
}
