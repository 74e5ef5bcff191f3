package citation

import (
	"fmt"
	"sort"
	"strings"
)

// unknownDocID is used when a source label maps to no configured document.
const unknownDocID = "unknown"

// Resolver builds knowledge-base citation URLs from source labels and page
// locators. The label-substring to document-ID mapping is deployment
// configuration, not matching logic.
type Resolver struct {
	baseURL  string
	mappings []mapping
}

type mapping struct {
	substring string
	docID     string
}

// NewResolver builds a resolver from a base URL and a label-substring to
// document-ID map. Mappings are checked in sorted substring order so
// lookups are deterministic.
func NewResolver(baseURL string, docIDs map[string]string) *Resolver {
	mappings := make([]mapping, 0, len(docIDs))
	for substr, id := range docIDs {
		mappings = append(mappings, mapping{substring: strings.ToLower(substr), docID: id})
	}
	sort.Slice(mappings, func(i, j int) bool {
		return mappings[i].substring < mappings[j].substring
	})
	return &Resolver{
		baseURL:  strings.TrimRight(baseURL, "/"),
		mappings: mappings,
	}
}

// URL formats the citation link for one chunk: {base}/{docID}#page={locator}.
func (r *Resolver) URL(sourceLabel string, locator int) string {
	if r.baseURL == "" {
		return ""
	}
	labelLower := strings.ToLower(sourceLabel)
	docID := unknownDocID
	for _, m := range r.mappings {
		if strings.Contains(labelLower, m.substring) {
			docID = m.docID
			break
		}
	}
	return fmt.Sprintf("%s/%s#page=%d", r.baseURL, docID, locator)
}
