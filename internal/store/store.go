package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in PRAGMA user_version. A log written by a newer
// layout is refused rather than read with the wrong columns.
const schemaVersion = 1

// ErrNoDatabase is returned by OpenExisting when the run log file is missing.
var ErrNoDatabase = errors.New("run log not found")

// logPragmas configure every connection to the run log. Runs are appended
// by one command at a time while others may read, and pulses cascade with
// their run.
var logPragmas = []struct{ name, value string }{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
	{"foreign_keys", "ON"},
}

// Store is an append-only log of simulator runs and their recorded pulses.
type Store struct {
	db *sql.DB
}

// Open opens the run log at path, creating the file and its tables when
// they do not exist yet.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}

	// One connection: writes to the log are serialized anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := prepareLog(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// OpenExisting opens a run log that must already exist. Commands that only
// read recorded runs use it so a mistyped path is reported instead of
// silently becoming an empty log.
func OpenExisting(path string) (*Store, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoDatabase, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open run log %s: is a directory", path)
	}
	return Open(path)
}

// Close closes the run log. It is safe on a zero Store.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the connection for ad-hoc queries over the log.
func (s *Store) DB() *sql.DB {
	return s.db
}

// prepareLog applies the connection pragmas, creates the tables and checks
// the stored layout version.
func prepareLog(db *sql.DB) error {
	for _, p := range logPragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("pragma %s: %w", p.name, err)
		}
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read layout version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("layout version %d is newer than supported version %d", version, schemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	if version < schemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("set layout version: %w", err)
		}
	}
	return nil
}

// pragma reads back a pragma value. Used by tests.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read pragma %s: %w", name, err)
	}
	return value, nil
}
