package knowledge

import (
	"reflect"
	"testing"
)

func TestSummarize_CountsSourceKinds(t *testing.T) {
	matches := []Match{
		{Record: Record{Content: "alpha", Source: "https://a", Kind: SourceURL}},
		{Record: Record{Content: "beta", Source: "https://b", Kind: SourceURL}},
		{Record: Record{Content: "gamma", Source: "Doc", Kind: SourceTitle}},
		{Record: Record{Content: "delta"}},
	}

	s := Summarize(matches)
	if s.Total != 4 {
		t.Fatalf("Total = %d, want 4", s.Total)
	}
	if s.URLSources != 2 {
		t.Fatalf("URLSources = %d, want 2", s.URLSources)
	}
	if s.TitleSources != 1 {
		t.Fatalf("TitleSources = %d, want 1", s.TitleSources)
	}
}

func TestSummarize_TopicsCappedPerRecordAndDeduped(t *testing.T) {
	matches := []Match{
		{Record: Record{Content: "alpha bravo charlie delta echoes"}},
		{Record: Record{Content: "alpha golfing hotels indie juliet"}},
	}

	s := Summarize(matches)

	// First record contributes its first three sorted meaningful words;
	// second record likewise, with "alpha" deduplicated.
	want := []string{"alpha", "bravo", "charlie", "golfing", "hotels"}
	if !reflect.DeepEqual(s.Topics, want) {
		t.Fatalf("Topics = %v, want %v", s.Topics, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || len(s.Topics) != 0 {
		t.Fatalf("Summarize(nil) = %+v, want zero value", s)
	}
}
