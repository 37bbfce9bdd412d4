// Package agent runs one query/response cycle of the research
// assistant: plan (reject empty queries), research (knowledge lookup
// plus source summary), respond (formatted answer). The session state
// travels in the context so the cycle is testable in isolation.
package agent

import (
	"context"
	"strings"

	"sourcerer/internal/knowledge"
	"sourcerer/internal/logging"
	"sourcerer/internal/session"
)

// Agent answers queries against a knowledge index.
type Agent struct {
	index *knowledge.Index
}

// Response is the outcome of one turn.
type Response struct {
	Query   string
	Matches []knowledge.Match
	Summary knowledge.Summary
	Answer  string

	// Err is the turn-level failure description (e.g. an empty
	// query). It is part of the conversation, not a Go error.
	Err string
}

// New creates an agent over the given index.
func New(index *knowledge.Index) *Agent {
	return &Agent{index: index}
}

// Respond runs one full cycle for query. The turn is appended to the
// session state carried by ctx (if any): exactly one history entry,
// and the source count grows by the number of matches. A failed plan
// still consumes a turn but matches nothing.
func (a *Agent) Respond(ctx context.Context, query string) Response {
	timer := logging.StartTimer(logging.CategoryLoop, "Agent.Respond")
	defer timer.Stop()

	resp := Response{Query: query}

	// Plan
	if strings.TrimSpace(query) == "" {
		resp.Err = "empty query received"
		resp.Answer = errorAnswer(resp.Err)
		a.record(ctx, resp)
		return resp
	}

	// Research
	resp.Matches = a.index.Search(query)
	if len(resp.Matches) > 0 {
		resp.Summary = knowledge.Summarize(resp.Matches)
	}
	logging.LoopDebug("Query %q matched %d records", query, len(resp.Matches))

	// Respond
	if len(resp.Matches) == 0 {
		resp.Answer = noMatchAnswer(query)
	} else {
		resp.Answer = buildAnswer(query, resp.Matches)
	}

	a.record(ctx, resp)
	return resp
}

// record appends the turn to the session state in ctx, when present.
func (a *Agent) record(ctx context.Context, resp Response) {
	state, ok := session.FromContext(ctx)
	if !ok {
		return
	}
	state.Append(resp.Query, resp.Matches)
}
