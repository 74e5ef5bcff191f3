package matcher

import (
	"sort"
	"strings"
)

// Relevance computes how well one chunk answers the expanded query terms.
// The score is additive over four passes (keyword table, query terms,
// high-value phrases, source-label bonus), then normalized to [0, 1].
// Deterministic and side-effect free; empty text scores 0.
func (v *Vocabulary) Relevance(text string, terms []string, sourceLabel string) float64 {
	textLower := strings.ToLower(text)
	score := 0.0

	// Domain keywords contribute even when the question never names them.
	// Occurrences are capped at 3 to prevent repetition gaming. Keywords
	// are visited in sorted order so the float sum is bit-for-bit stable.
	for _, keyword := range v.sortedKeywords() {
		if strings.Contains(textLower, keyword) {
			count := strings.Count(textLower, keyword)
			if count > 3 {
				count = 3
			}
			score += float64(count) * v.Keywords[keyword]
		}
	}

	for _, term := range terms {
		if term == "" {
			continue
		}
		termLower := strings.ToLower(term)

		// Exact phrase match supersedes word-level scoring.
		if len(termLower) > 3 && strings.Contains(textLower, termLower) {
			occurrences := float64(strings.Count(textLower, termLower))
			phraseScore := occurrences * 0.6
			if phraseScore > 1.5 {
				phraseScore = 1.5
			}
			score += phraseScore
			continue
		}

		words := strings.Fields(termLower)
		matched := 0
		for _, word := range words {
			if len(word) < 3 {
				continue
			}
			if strings.Contains(textLower, word) {
				matched++
				if weight, ok := v.Keywords[word]; ok {
					score += weight
				} else {
					score += 0.15
				}
			}
		}

		// Completeness bonus when most words of a multi-word term hit.
		if len(words) > 1 && float64(matched)/float64(len(words)) >= 0.7 {
			score += 0.3
		}
	}

	for _, p := range v.Patterns {
		if strings.Contains(textLower, p.Phrase) {
			score += p.Weight
		}
	}

	// Source-label bonus, awarded at most once.
	labelLower := strings.ToLower(sourceLabel)
	for _, term := range terms {
		if term != "" && strings.Contains(labelLower, strings.ToLower(term)) {
			score += 0.2
			break
		}
	}

	final := score / 3.0
	if final > 1.0 {
		final = 1.0
	}
	if final < 0.0 {
		final = 0.0
	}
	return final
}

func (v *Vocabulary) sortedKeywords() []string {
	keys := make([]string, 0, len(v.Keywords))
	for keyword := range v.Keywords {
		keys = append(keys, keyword)
	}
	sort.Strings(keys)
	return keys
}
