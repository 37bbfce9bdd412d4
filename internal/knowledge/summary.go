package knowledge

import "sort"

// topicsPerRecord caps how many topic words one record contributes.
const topicsPerRecord = 3

// Summary describes a set of matched records: how many carry URL vs
// document-title provenance, and the salient topic words they cover.
type Summary struct {
	Total        int
	URLSources   int
	TitleSources int
	Topics       []string
}

// Summarize analyzes matched records. Topic words are non-stopword
// tokens longer than four runes, at most three per record, deduplicated
// and sorted for deterministic output.
func Summarize(matches []Match) Summary {
	s := Summary{Total: len(matches)}

	seen := make(map[string]bool)
	for _, m := range matches {
		switch m.Record.Kind {
		case SourceURL:
			s.URLSources++
		case SourceTitle:
			s.TitleSources++
		}

		words := meaningfulWords(m.Record.searchText())
		sort.Strings(words)
		if len(words) > topicsPerRecord {
			words = words[:topicsPerRecord]
		}
		for _, w := range words {
			if !seen[w] {
				seen[w] = true
				s.Topics = append(s.Topics, w)
			}
		}
	}

	sort.Strings(s.Topics)
	return s
}
