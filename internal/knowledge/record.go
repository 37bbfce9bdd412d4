package knowledge

import "time"

// SourceKind distinguishes the provenance label attached to a record.
type SourceKind string

const (
	SourceURL   SourceKind = "url"   // Source is a web address
	SourceTitle SourceKind = "title" // Source is a document title
	SourceNone  SourceKind = ""      // Record carries no provenance
)

// Record is one immutable entry in the knowledge base: a piece of
// content plus the source reference shown to the user alongside it.
type Record struct {
	Topic     string
	Content   string
	Source    string
	Kind      SourceKind
	Tags      []string
	CreatedAt time.Time
}

// HasSource reports whether the record carries a provenance label.
func (r Record) HasSource() bool {
	return r.Kind != SourceNone && r.Source != ""
}

// searchText returns the text a lookup matches against: content plus
// topic, tags, and source words.
func (r Record) searchText() string {
	text := r.Content
	if r.Topic != "" {
		text += " " + r.Topic
	}
	for _, tag := range r.Tags {
		text += " " + tag
	}
	if r.Source != "" {
		text += " " + r.Source
	}
	return text
}
