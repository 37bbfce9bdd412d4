// Package store provides SQLite-backed persistence for ingested
// knowledge records and session transcripts.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"sourcerer/internal/logging"
)

// LocalStore wraps a single SQLite database holding the durable
// knowledge base and per-session conversation history.
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewLocalStore initializes the SQLite database at the given path.
func NewLocalStore(path string) (*LocalStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewLocalStore")
	defer timer.Stop()

	logging.Store("Initializing LocalStore at path: %s", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to create directory %s: %v", dir, err)
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	store := &LocalStore{db: db, dbPath: path}
	if err := store.initialize(); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}

	logging.Store("LocalStore initialization complete")
	return store, nil
}

// initialize creates the required tables.
func (s *LocalStore) initialize() error {
	recordsTable := `
	CREATE TABLE IF NOT EXISTS knowledge_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		topic TEXT,
		content TEXT NOT NULL,
		source TEXT,
		source_kind TEXT,
		tags TEXT,
		content_hash TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_records_topic ON knowledge_records(topic);
	`

	// UNIQUE(session_id, turn_number) enables idempotent turn writes
	sessionTable := `
	CREATE TABLE IF NOT EXISTS session_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		turn_number INTEGER NOT NULL,
		query TEXT,
		matches_json TEXT,
		sources_seen INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		UNIQUE(session_id, turn_number)
	);
	CREATE INDEX IF NOT EXISTS idx_session ON session_history(session_id);
	`

	for _, table := range []string{recordsTable, sessionTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *LocalStore) Close() error {
	logging.Store("Closing LocalStore database connection")
	return s.db.Close()
}

// Stats returns row counts per table.
func (s *LocalStore) Stats() (map[string]int64, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Stats")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int64)
	for _, table := range []string{"knowledge_records", "session_history"} {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			logging.StoreDebug("Table %s count failed: %v", table, err)
			continue
		}
		stats[table] = count
	}
	return stats, nil
}

// ComputeContentHash returns the dedup hash of a record's identity.
func ComputeContentHash(topic, content string) string {
	sum := sha256.Sum256([]byte(topic + "\x00" + content))
	return hex.EncodeToString(sum[:])
}
