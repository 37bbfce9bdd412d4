package agent

import (
	"context"
	"strings"
	"testing"

	"sourcerer/internal/knowledge"
	"sourcerer/internal/session"
)

func newTestAgent() *Agent {
	ix := knowledge.NewIndex(nil)
	ix.Load([]knowledge.Record{
		{Topic: "dogs", Content: "Dogs are loyal domesticated animals.", Source: "https://example.com/dogs", Kind: knowledge.SourceURL},
		{Topic: "cats", Content: "Cats are independent animals.", Source: "Feline Handbook", Kind: knowledge.SourceTitle},
	})
	return New(ix)
}

func TestRespond_MatchReturnsContentAndSource(t *testing.T) {
	a := newTestAgent()
	state := session.New()
	ctx := session.NewContext(context.Background(), state)

	resp := a.Respond(ctx, "tell me about dogs")

	if resp.Err != "" {
		t.Fatalf("Err = %q, want empty", resp.Err)
	}
	if len(resp.Matches) != 1 {
		t.Fatalf("Matches = %d, want 1", len(resp.Matches))
	}
	if !strings.Contains(resp.Answer, "Dogs are loyal domesticated animals.") {
		t.Fatalf("Answer missing content:\n%s", resp.Answer)
	}
	if !strings.Contains(resp.Answer, "https://example.com/dogs") {
		t.Fatalf("Answer missing source reference:\n%s", resp.Answer)
	}
	if state.SourcesSeen != 1 {
		t.Fatalf("SourcesSeen = %d, want 1", state.SourcesSeen)
	}
	if len(state.Turns) != 1 {
		t.Fatalf("history length = %d, want 1", len(state.Turns))
	}
}

func TestRespond_NoMatchLeavesStateCountUnchanged(t *testing.T) {
	a := newTestAgent()
	state := session.New()
	ctx := session.NewContext(context.Background(), state)

	resp := a.Respond(ctx, "quantum entanglement")

	if len(resp.Matches) != 0 {
		t.Fatalf("Matches = %d, want 0", len(resp.Matches))
	}
	if !strings.Contains(resp.Answer, "No relevant sources found") {
		t.Fatalf("Answer = %q, want no-match message", resp.Answer)
	}
	if state.SourcesSeen != 0 {
		t.Fatalf("SourcesSeen = %d, want 0", state.SourcesSeen)
	}
	if len(state.Turns) != 1 {
		t.Fatalf("history length = %d, want 1 (no-match turn still recorded)", len(state.Turns))
	}
}

func TestRespond_EmptyQueryIsTurnError(t *testing.T) {
	a := newTestAgent()
	state := session.New()
	ctx := session.NewContext(context.Background(), state)

	resp := a.Respond(ctx, "   ")

	if resp.Err == "" {
		t.Fatal("Err empty, want planning error")
	}
	if !strings.HasPrefix(resp.Answer, "Error:") {
		t.Fatalf("Answer = %q, want error answer", resp.Answer)
	}
	if state.SourcesSeen != 0 {
		t.Fatalf("SourcesSeen = %d, want 0", state.SourcesSeen)
	}
	if len(state.Turns) != 1 {
		t.Fatalf("history length = %d, want 1", len(state.Turns))
	}
}

func TestRespond_TwoTurnsAccumulate(t *testing.T) {
	a := newTestAgent()
	state := session.New()
	ctx := session.NewContext(context.Background(), state)

	a.Respond(ctx, "dogs")
	a.Respond(ctx, "cats")

	if len(state.Turns) != 2 {
		t.Fatalf("history length = %d, want 2", len(state.Turns))
	}
	if state.SourcesSeen != 2 {
		t.Fatalf("SourcesSeen = %d, want 2", state.SourcesSeen)
	}
}

func TestRespond_WithoutSessionInContext(t *testing.T) {
	a := newTestAgent()

	// Must not panic; one-shot commands run without session state.
	resp := a.Respond(context.Background(), "dogs")
	if len(resp.Matches) != 1 {
		t.Fatalf("Matches = %d, want 1", len(resp.Matches))
	}
}

func TestBuildAnswer_NumbersContentAndReferences(t *testing.T) {
	matches := []knowledge.Match{
		{Record: knowledge.Record{Content: "first fact", Source: "https://a", Kind: knowledge.SourceURL}},
		{Record: knowledge.Record{Content: "second fact"}},
	}

	got := buildAnswer("q", matches)

	if !strings.Contains(got, "[1] first fact") || !strings.Contains(got, "[2] second fact") {
		t.Fatalf("content numbering wrong:\n%s", got)
	}
	if !strings.Contains(got, "=== REFERENCES ===\n[1] https://a") {
		t.Fatalf("references wrong:\n%s", got)
	}
	if strings.Contains(got, "[2] https://") {
		t.Fatalf("sourceless record must not appear in references:\n%s", got)
	}
}

func TestSummaryLine(t *testing.T) {
	got := SummaryLine(knowledge.Summary{Total: 3, URLSources: 2, TitleSources: 1})
	want := "[tool: summarize] Found 3 sources (2 URLs, 1 documents)"
	if got != want {
		t.Fatalf("SummaryLine() = %q, want %q", got, want)
	}
}
