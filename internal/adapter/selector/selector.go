package selector

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"cirag/internal/domain"
)

// ErrBadBudget marks a selection budget the caller misconfigured.
// Budget errors propagate; they are never silently clamped.
var ErrBadBudget = errors.New("invalid selection budget")

// ValidateBudget rejects out-of-range budget values before any scoring
// runs. MaxSources of zero is legal and yields an empty selection.
func ValidateBudget(b domain.SelectionBudget) error {
	if b.MaxSources < 0 {
		return fmt.Errorf("%w: max sources %d is negative", ErrBadBudget, b.MaxSources)
	}
	if b.MaxCharacters < 0 {
		return fmt.Errorf("%w: max characters %d is negative", ErrBadBudget, b.MaxCharacters)
	}
	if b.MinGuaranteed < 0 {
		return fmt.Errorf("%w: min guaranteed %d is negative", ErrBadBudget, b.MinGuaranteed)
	}
	if b.MatchThreshold < 0 || b.MatchThreshold > 1 || math.IsNaN(b.MatchThreshold) {
		return fmt.Errorf("%w: match threshold %v is outside [0, 1]", ErrBadBudget, b.MatchThreshold)
	}
	return nil
}

// Selector reduces scored chunks to an ordered, budget-constrained result,
// guaranteeing representation of compared entities when asked to.
type Selector struct {
	entities []string
}

func New(entities []string) *Selector {
	return &Selector{entities: entities}
}

// Select filters by threshold, sorts by descending score (ties keep corpus
// order), then fills greedily under the budget. The first MinGuaranteed
// picks are exempt from the character budget, as is the diversity
// backfill. When nothing clears the threshold the top MinGuaranteed chunks
// by raw score are returned instead of an empty result.
func (s *Selector) Select(scored []domain.ScoredChunk, qc domain.QueryContext, b domain.SelectionBudget) ([]domain.ScoredChunk, error) {
	if err := ValidateBudget(b); err != nil {
		return nil, err
	}
	if len(scored) == 0 || b.MaxSources == 0 {
		return nil, nil
	}

	eligible := make([]domain.ScoredChunk, 0, len(scored))
	for _, sc := range scored {
		if sc.Score >= b.MatchThreshold {
			eligible = append(eligible, sc)
		}
	}
	sortByScore(eligible)

	if len(eligible) == 0 {
		return s.fallback(scored, b), nil
	}

	selected := make([]domain.ScoredChunk, 0, b.MaxSources)
	taken := make(map[*domain.DocumentChunk]bool, b.MaxSources)
	haveEntity := make(map[string]bool, len(s.entities))
	charsSoFar := 0

	for _, cand := range eligible {
		if len(selected) >= b.MaxSources {
			break
		}
		// The character budget only applies once the minimum count is
		// satisfied, so the first picks always survive oversized chunks.
		if len(selected) >= b.MinGuaranteed && charsSoFar+len(cand.Chunk.Text) > b.MaxCharacters {
			break
		}
		selected = append(selected, cand)
		taken[cand.Chunk] = true
		charsSoFar += len(cand.Chunk.Text)
		if entity := s.entityOf(cand.Chunk.SourceLabel); entity != "" {
			haveEntity[entity] = true
		}
	}

	if s.wantsDiversity(qc) {
		for _, entity := range s.entities {
			if len(selected) >= b.MaxSources {
				break
			}
			if haveEntity[entity] {
				continue
			}
			for _, cand := range eligible {
				if taken[cand.Chunk] {
					continue
				}
				if s.entityOf(cand.Chunk.SourceLabel) != entity {
					continue
				}
				selected = append(selected, cand)
				taken[cand.Chunk] = true
				haveEntity[entity] = true
				break
			}
		}
	}

	return selected, nil
}

// fallback returns the top MinGuaranteed chunks by raw score. This is the
// documented escape valve when the threshold filters everything out.
func (s *Selector) fallback(scored []domain.ScoredChunk, b domain.SelectionBudget) []domain.ScoredChunk {
	all := make([]domain.ScoredChunk, len(scored))
	copy(all, scored)
	sortByScore(all)

	limit := b.MinGuaranteed
	if limit > b.MaxSources {
		limit = b.MaxSources
	}
	if limit > len(all) {
		limit = len(all)
	}
	return all[:limit]
}

// wantsDiversity reports whether the backfill pass should run: either the
// question carries a comparison cue, or every known entity was named.
func (s *Selector) wantsDiversity(qc domain.QueryContext) bool {
	if qc.WantsComparison {
		return true
	}
	if len(s.entities) == 0 {
		return false
	}
	for _, entity := range s.entities {
		if !qc.MentionedEntities[entity] {
			return false
		}
	}
	return true
}

// entityOf maps a source label to the first known entity whose name occurs
// in it, or "" when the label belongs to no known entity.
func (s *Selector) entityOf(sourceLabel string) string {
	labelLower := strings.ToLower(sourceLabel)
	for _, entity := range s.entities {
		if entity != "" && strings.Contains(labelLower, strings.ToLower(entity)) {
			return entity
		}
	}
	return ""
}

func sortByScore(chunks []domain.ScoredChunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})
}
