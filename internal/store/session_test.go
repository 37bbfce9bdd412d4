package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcerer/internal/knowledge"
	"sourcerer/internal/session"
)

func TestStoreTurn_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	state := session.New()
	turn := state.Append("tell me about dogs", []knowledge.Match{
		{Record: knowledge.Record{Topic: "dogs", Source: "https://example.com/dogs"}},
	})
	require.NoError(t, s.StoreTurn(state, turn))

	history, err := s.SessionHistory(state.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)

	assert.Equal(t, 1, history[0].TurnNumber)
	assert.Equal(t, "tell me about dogs", history[0].Query)
	assert.Equal(t, []string{"https://example.com/dogs"}, history[0].Sources)
	assert.Equal(t, 1, history[0].SourcesSeen)
	assert.WithinDuration(t, time.Now(), history[0].CreatedAt, time.Minute)
}

func TestStoreTurn_Idempotent(t *testing.T) {
	s := newTestStore(t)

	state := session.New()
	turn := state.Append("q", nil)

	require.NoError(t, s.StoreTurn(state, turn))
	require.NoError(t, s.StoreTurn(state, turn))

	history, err := s.SessionHistory(state.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSessionHistory_OrderedByTurn(t *testing.T) {
	s := newTestStore(t)

	state := session.New()
	for _, q := range []string{"one", "two", "three"} {
		require.NoError(t, s.StoreTurn(state, state.Append(q, nil)))
	}

	history, err := s.SessionHistory(state.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "one", history[0].Query)
	assert.Equal(t, "three", history[2].Query)
}

func TestListSessions(t *testing.T) {
	s := newTestStore(t)

	first := session.New()
	require.NoError(t, s.StoreTurn(first, first.Append("a", nil)))
	require.NoError(t, s.StoreTurn(first, first.Append("b", nil)))

	second := session.New()
	require.NoError(t, s.StoreTurn(second, second.Append("c", nil)))

	sessions, err := s.ListSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	byID := make(map[string]SessionInfo)
	for _, info := range sessions {
		byID[info.ID] = info
	}
	assert.Equal(t, 2, byID[first.ID].Turns)
	assert.Equal(t, 1, byID[second.ID].Turns)
}
