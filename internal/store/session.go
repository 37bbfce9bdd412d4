package store

import (
	"encoding/json"
	"time"

	"sourcerer/internal/logging"
	"sourcerer/internal/session"
)

// =============================================================================
// SESSION TRANSCRIPTS
// =============================================================================

// TurnRow is one persisted conversation turn.
type TurnRow struct {
	TurnNumber  int
	Query       string
	Sources     []string
	SourcesSeen int
	CreatedAt   time.Time
}

// SessionInfo summarizes one persisted session.
type SessionInfo struct {
	ID        string
	Turns     int
	StartedAt time.Time
}

// StoreTurn records a conversation turn. Uses INSERT OR IGNORE so
// replaying a turn is idempotent. sourcesSeen is the cumulative count
// after the turn.
func (s *LocalStore) StoreTurn(state *session.State, turn session.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logging.StoreDebug("Storing turn: session=%s turn=%d matches=%d",
		state.ID, turn.Number, len(turn.Matches))

	sources := make([]string, 0, len(turn.Matches))
	for _, m := range turn.Matches {
		sources = append(sources, m.Record.Source)
	}
	matchesJSON, err := json.Marshal(sources)
	if err != nil {
		matchesJSON = []byte("[]")
	}

	_, err = s.db.Exec(
		`INSERT OR IGNORE INTO session_history (session_id, turn_number, query, matches_json, sources_seen, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		state.ID, turn.Number, turn.Query, string(matchesJSON), state.SourcesSeen,
		turn.AskedAt.Format(time.RFC3339),
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to store turn: session=%s turn=%d: %v",
			state.ID, turn.Number, err)
		return err
	}
	return nil
}

// SessionHistory retrieves the persisted turns of a session, oldest
// first. limit <= 0 defaults to 50.
func (s *LocalStore) SessionHistory(sessionID string, limit int) ([]TurnRow, error) {
	timer := logging.StartTimer(logging.CategoryStore, "SessionHistory")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT turn_number, query, matches_json, sources_seen, created_at
		 FROM session_history
		 WHERE session_id = ?
		 ORDER BY turn_number
		 LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to query history for %s: %v", sessionID, err)
		return nil, err
	}
	defer rows.Close()

	var history []TurnRow
	for rows.Next() {
		var row TurnRow
		var matchesJSON, createdAt string
		if err := rows.Scan(&row.TurnNumber, &row.Query, &matchesJSON, &row.SourcesSeen, &createdAt); err != nil {
			continue
		}
		_ = json.Unmarshal([]byte(matchesJSON), &row.Sources)
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			row.CreatedAt = ts
		}
		history = append(history, row)
	}

	logging.StoreDebug("Retrieved %d turns for session=%s", len(history), sessionID)
	return history, nil
}

// ListSessions summarizes all persisted sessions, most recent first.
func (s *LocalStore) ListSessions() ([]SessionInfo, error) {
	timer := logging.StartTimer(logging.CategoryStore, "ListSessions")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT session_id, COUNT(*) as turns, MIN(created_at) as started
		 FROM session_history
		 GROUP BY session_id
		 ORDER BY started DESC`)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var started string
		if err := rows.Scan(&info.ID, &info.Turns, &started); err != nil {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, started); err == nil {
			info.StartedAt = ts
		}
		sessions = append(sessions, info)
	}
	return sessions, nil
}
