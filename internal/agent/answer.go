package agent

import (
	"fmt"
	"strings"

	"sourcerer/internal/knowledge"
)

// buildAnswer formats matched records as a numbered content block
// followed by a references block listing each match's provenance.
func buildAnswer(query string, matches []knowledge.Match) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Answer based on sources for: %q\n\n", query)
	b.WriteString("=== CONTENT ===\n\n")

	var references []string
	for i, m := range matches {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, m.Record.Content)
		if m.Record.HasSource() {
			references = append(references, fmt.Sprintf("[%d] %s", i+1, m.Record.Source))
		}
	}

	if len(references) > 0 {
		b.WriteString("=== REFERENCES ===\n")
		b.WriteString(strings.Join(references, "\n"))
	}

	return strings.TrimRight(b.String(), "\n")
}

// noMatchAnswer is the response for a query that matched nothing.
func noMatchAnswer(query string) string {
	return fmt.Sprintf("No relevant sources found for: %q.\nTry rephrasing your question.", query)
}

// errorAnswer is the response for a turn that failed planning.
func errorAnswer(reason string) string {
	return fmt.Sprintf("Error: %s", reason)
}

// SummaryLine renders the source-summary tool output shown before an
// answer with matches.
func SummaryLine(s knowledge.Summary) string {
	return fmt.Sprintf("[tool: summarize] Found %d sources (%d URLs, %d documents)",
		s.Total, s.URLSources, s.TitleSources)
}
