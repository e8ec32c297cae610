package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps saves in a single SQLite database, one row per
// (adventure, user). Useful when many users share one host.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening save database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing save database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		adventure TEXT NOT NULL,
		user TEXT NOT NULL,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (adventure, user)
	);

	CREATE INDEX IF NOT EXISTS idx_saves_updated_at ON saves(updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Load(adventure, user string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`
		SELECT data FROM saves WHERE adventure = ? AND user = ?
	`, adventure, user).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *SQLiteStore) Save(adventure, user string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO saves (adventure, user, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(adventure, user) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, adventure, user, data, time.Now().UTC())
	return err
}

func (s *SQLiteStore) Delete(adventure, user string) error {
	_, err := s.db.Exec(`
		DELETE FROM saves WHERE adventure = ? AND user = ?
	`, adventure, user)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
