package store

import (
	"encoding/json"
	"time"

	"sourcerer/internal/knowledge"
	"sourcerer/internal/logging"
)

// =============================================================================
// KNOWLEDGE RECORDS
// =============================================================================

// StoreRecord persists a knowledge record. Duplicate records (same
// topic and content) are silently skipped via the content hash.
// Returns true if the record was newly inserted.
func (s *LocalStore) StoreRecord(rec knowledge.Record) (bool, error) {
	timer := logging.StartTimer(logging.CategoryStore, "StoreRecord")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	logging.StoreDebug("Storing record: topic=%s content_len=%d source=%s",
		rec.Topic, len(rec.Content), rec.Source)

	tagsJSON, err := json.Marshal(rec.Tags)
	if err != nil {
		tagsJSON = []byte("[]")
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO knowledge_records (topic, content, source, source_kind, tags, content_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Topic, rec.Content, rec.Source, string(rec.Kind), string(tagsJSON),
		ComputeContentHash(rec.Topic, rec.Content), createdAt.Format(time.RFC3339),
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to store record %s: %v", rec.Topic, err)
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// StoreRecords persists a batch of records and returns how many were
// newly inserted.
func (s *LocalStore) StoreRecords(records []knowledge.Record) (int, error) {
	inserted := 0
	for _, rec := range records {
		ok, err := s.StoreRecord(rec)
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	logging.Store("Stored %d/%d records", inserted, len(records))
	return inserted, nil
}

// AllRecords retrieves every persisted record, oldest first.
func (s *LocalStore) AllRecords() ([]knowledge.Record, error) {
	timer := logging.StartTimer(logging.CategoryStore, "AllRecords")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT topic, content, source, source_kind, tags, created_at FROM knowledge_records ORDER BY id`)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to query records: %v", err)
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

// RecordsByTopicPrefix retrieves records whose topic matches a prefix.
func (s *LocalStore) RecordsByTopicPrefix(prefix string) ([]knowledge.Record, error) {
	timer := logging.StartTimer(logging.CategoryStore, "RecordsByTopicPrefix")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT topic, content, source, source_kind, tags, created_at
		 FROM knowledge_records WHERE topic LIKE ? ORDER BY id`,
		prefix+"%",
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to query records by prefix %s: %v", prefix, err)
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
}

func scanRecords(rows rowScanner) ([]knowledge.Record, error) {
	var records []knowledge.Record
	for rows.Next() {
		var rec knowledge.Record
		var kind, tagsJSON, createdAt string
		if err := rows.Scan(&rec.Topic, &rec.Content, &rec.Source, &kind, &tagsJSON, &createdAt); err != nil {
			continue
		}
		rec.Kind = knowledge.SourceKind(kind)
		if tagsJSON != "" {
			_ = json.Unmarshal([]byte(tagsJSON), &rec.Tags)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		records = append(records, rec)
	}
	return records, nil
}
