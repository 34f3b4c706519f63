package persistence

import (
	"database/sql"
	"errors"
)

// SQLiteStore is a StateStore backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements StateStore.
var _ StateStore = (*SQLiteStore)(nil)

// NewSQLiteStore initializes the required schema in the given database and
// returns a new SQLiteStore.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS help_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	)
	return err
}

func (s *SQLiteStore) SaveState(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO help_state (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key,
		value,
	)
	return err
}

func (s *SQLiteStore) GetState(key, defaultValue string) (string, error) {
	row := s.db.QueryRow(`
		SELECT value
		FROM help_state
		WHERE key = ?`,
		key,
	)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return defaultValue, nil
		}
		return defaultValue, err
	}

	return value, nil
}

func (s *SQLiteStore) RemoveState(key string) error {
	_, err := s.db.Exec(`DELETE FROM help_state WHERE key = ?`, key)
	return err
}

// Ready reports whether the database answers a ping.
func (s *SQLiteStore) Ready() bool {
	return s.db.Ping() == nil
}
