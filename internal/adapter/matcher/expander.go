package matcher

import (
	"strings"

	"cirag/internal/domain"
)

// Expander turns a raw question into the query context consumed by the
// scorer and selector.
type Expander struct {
	vocab *Vocabulary
}

func NewExpander(vocab *Vocabulary) *Expander {
	return &Expander{vocab: vocab}
}

// Expand builds the expanded term list for a question plus any extra
// topic strings. Terms are deduplicated case-insensitively with first-seen
// order preserved, so the result is stable for identical input.
func (e *Expander) Expand(question string, topics []string) domain.QueryContext {
	questionLower := strings.ToLower(question)

	var terms []string
	if question != "" {
		terms = append(terms, question)
	}

	for _, exp := range e.vocab.Expansions {
		if strings.Contains(questionLower, exp.Trigger) {
			terms = append(terms, exp.Terms...)
		}
	}

	mentioned := make(map[string]bool, len(e.vocab.Entities))
	for _, entity := range e.vocab.Entities {
		if entity == "" {
			continue
		}
		if strings.Contains(questionLower, strings.ToLower(entity)) {
			mentioned[entity] = true
		}
	}

	wantsComparison := false
	for _, cue := range e.vocab.ComparisonCues {
		if strings.Contains(questionLower, cue) {
			wantsComparison = true
			break
		}
	}

	// Entity names join the term list explicitly so synonym expansion
	// cannot dilute them out of the scoring.
	for _, entity := range e.vocab.Entities {
		if mentioned[entity] || wantsComparison {
			terms = append(terms, strings.ToLower(entity))
		}
	}

	for _, topic := range topics {
		if topic != "" {
			terms = append(terms, topic)
		}
	}

	return domain.QueryContext{
		RawQuestion:       question,
		ExpandedTerms:     dedupeTerms(terms),
		MentionedEntities: mentioned,
		WantsComparison:   wantsComparison,
	}
}

func dedupeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	unique := make([]string, 0, len(terms))
	for _, term := range terms {
		key := strings.ToLower(term)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, term)
	}
	return unique
}
