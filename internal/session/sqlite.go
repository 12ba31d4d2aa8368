package session

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// sqliteKV persists preferences in a single-table sqlite file. Errors are
// logged and swallowed: an unavailable disk must not break the view layer.
type sqliteKV struct {
	mu  sync.Mutex
	db  *sql.DB
	log *logrus.Logger
}

// Open creates (or opens) the preferences database at dbPath and returns a
// Store backed by it.
func Open(dbPath string, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	schema := `
	CREATE TABLE IF NOT EXISTS prefs (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	log.WithField("path", dbPath).Debug("session store opened")
	return New(&sqliteKV{db: db, log: log}, log), nil
}

func (s *sqliteKV) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var value string
	err := s.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("session store read failed")
		return "", false
	}
	return value, true
}

func (s *sqliteKV) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("session store write failed")
	}
}

func (s *sqliteKV) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("DELETE FROM prefs WHERE key = ?", key); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("session store delete failed")
	}
}

func (s *sqliteKV) Close() error {
	return s.db.Close()
}
