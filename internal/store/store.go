// Package store provides SQLite-based persistence for client preferences.
// The database is opened lazily and created on first use.
// If opening the DB or executing queries fails, the store falls back to in-memory storage.
package store

import (
	"database/sql"
	"errors"
	"sync"

	_ "github.com/glebarez/go-sqlite"

	"github.com/comigor/jarvis-chat/internal/logger"
)

// Store is a string key-value store.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string // in-memory fallback

	dbOnce  sync.Once
	db      *sql.DB
	initErr error
}

// Open returns a store backed by the SQLite file at path. The file is not
// touched until the first Get or Set.
func Open(path string) *Store {
	return &Store{path: path, values: make(map[string]string)}
}

// NewMemory returns a store that never touches disk.
func NewMemory() *Store {
	s := &Store{values: make(map[string]string)}
	s.dbOnce.Do(func() { s.initErr = errors.New("memory store") })
	return s
}

// initDB lazily opens the SQLite database and creates the prefs table if it doesn't exist.
func (s *Store) initDB() {
	db, err := sql.Open("sqlite", "file:"+s.path+"?_pragma=busy_timeout(10000)")
	if err != nil {
		s.initErr = err
		logger.L.Warn("sqlite open failed; using in-memory preferences", "error", err)
		return
	}
	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS prefs (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );`); err != nil {
		s.initErr = err
		_ = db.Close()
		logger.L.Warn("sqlite table creation failed; using in-memory preferences", "error", err)
		return
	}
	s.db = db
	logger.L.Info("sqlite preference DB initialized", "path", s.path)
}

func (s *Store) persistent() bool {
	s.dbOnce.Do(s.initDB)
	return s.initErr == nil && s.db != nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	if s.persistent() {
		var v string
		err := s.db.QueryRow(`SELECT value FROM prefs WHERE key = ?;`, key).Scan(&v)
		switch {
		case err == nil:
			return v, true
		case errors.Is(err, sql.ErrNoRows):
			return "", false
		default:
			logger.L.Error("failed to read preference from sqlite; falling back to memory", "key", key, "error", err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key. The in-memory copy is always updated, so a
// failed write still holds for the rest of the session.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()

	if !s.persistent() {
		return nil
	}
	_, err := s.db.Exec(`INSERT INTO prefs (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, key, value)
	if err != nil {
		logger.L.Error("failed to store preference in sqlite", "key", key, "error", err)
	}
	return err
}

// Close releases the database, if one was opened.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
