package domain

// DocumentChunk is a page- or paragraph-sized unit of source text.
// Chunks are read-only once loaded; per-query state lives in ScoredChunk.
type DocumentChunk struct {
	SourceLabel string `json:"source_label"`
	Text        string `json:"text"`
	Locator     int    `json:"locator"`
}

// ScoredChunk wraps a corpus chunk with its relevance to one query.
// It references the corpus-owned chunk instead of copying it.
type ScoredChunk struct {
	Chunk *DocumentChunk
	Score float64
}

// QueryContext is derived once per incoming question.
type QueryContext struct {
	RawQuestion       string
	ExpandedTerms     []string
	MentionedEntities map[string]bool
	WantsComparison   bool
}

// SelectionBudget bounds the final selection.
type SelectionBudget struct {
	MaxSources     int
	MaxCharacters  int
	MinGuaranteed  int
	MatchThreshold float64
}

// Match is one selected chunk annotated with its query score and citation URL.
type Match struct {
	SourceLabel string  `json:"source"`
	Locator     int     `json:"page"`
	Score       float64 `json:"score"`
	URL         string  `json:"url,omitempty"`
	Text        string  `json:"text"`
}

// Stats summarizes an ingested corpus.
type Stats struct {
	TotalChunks int            `json:"total_chunks"`
	TotalChars  int            `json:"total_chars"`
	Entities    map[string]int `json:"entities"`
	Generation  uint64         `json:"generation"`
}
