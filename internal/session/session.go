// Package session tracks conversation state for one interactive
// session: the ordered turn history and the cumulative count of
// sources seen. State is owned by the loop that created it and is
// passed explicitly through context (see context.go), never held in
// process-wide storage.
package session

import (
	"time"

	"github.com/google/uuid"

	"sourcerer/internal/knowledge"
	"sourcerer/internal/logging"
)

// Turn is one completed query/response cycle.
type Turn struct {
	Number  int
	Query   string
	Matches []knowledge.Match
	AskedAt time.Time
}

// State holds the conversation history and running source count for a
// single session. SourcesSeen counts every match returned across all
// turns, duplicates included. Turns are append-only; the state dies
// with the process.
type State struct {
	ID          string
	StartedAt   time.Time
	Turns       []Turn
	SourcesSeen int
}

// New creates an empty session state with a fresh ID.
func New() *State {
	s := &State{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
	logging.Session("Session started: id=%s", s.ID)
	return s
}

// Append records a completed turn: exactly one history entry, and
// SourcesSeen grows by the turn's match count. The turn number is
// assigned here.
func (s *State) Append(query string, matches []knowledge.Match) Turn {
	turn := Turn{
		Number:  len(s.Turns) + 1,
		Query:   query,
		Matches: matches,
		AskedAt: time.Now(),
	}
	s.Turns = append(s.Turns, turn)
	s.SourcesSeen += len(matches)

	logging.SessionDebug("Turn %d appended: query_len=%d matches=%d sources_seen=%d",
		turn.Number, len(query), len(matches), s.SourcesSeen)
	return turn
}

// Queries returns the queries asked so far, oldest first.
func (s *State) Queries() []string {
	queries := make([]string, 0, len(s.Turns))
	for _, t := range s.Turns {
		queries = append(queries, t.Query)
	}
	return queries
}

// LastTurn returns the most recent turn, or false if none exist.
func (s *State) LastTurn() (Turn, bool) {
	if len(s.Turns) == 0 {
		return Turn{}, false
	}
	return s.Turns[len(s.Turns)-1], true
}
