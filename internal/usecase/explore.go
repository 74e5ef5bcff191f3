package usecase

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"cirag/internal/adapter/cache"
	"cirag/internal/adapter/citation"
	"cirag/internal/adapter/matcher"
	"cirag/internal/adapter/selector"
	"cirag/internal/domain"
	"cirag/internal/port"
)

// ExploreUseCase answers one question over an in-memory corpus: expand the
// question, score every chunk with the first available strategy, then
// select a budget-constrained, entity-diverse subset with citations.
type ExploreUseCase struct {
	expander   *matcher.Expander
	strategies []port.ScoringStrategy
	selector   *selector.Selector
	resolver   *citation.Resolver
	cache      *cache.QueryCache
	log        zerolog.Logger
}

// NewExploreUseCase creates an explore use case. The strategies are tried
// in order; cache may be nil.
func NewExploreUseCase(
	expander *matcher.Expander,
	strategies []port.ScoringStrategy,
	sel *selector.Selector,
	resolver *citation.Resolver,
	queryCache *cache.QueryCache,
	log zerolog.Logger,
) *ExploreUseCase {
	return &ExploreUseCase{
		expander:   expander,
		strategies: strategies,
		selector:   sel,
		resolver:   resolver,
		cache:      queryCache,
		log:        log,
	}
}

// Explore runs the full pipeline. Budget misconfiguration fails before any
// scoring; an empty corpus returns an empty result with no error.
func (u *ExploreUseCase) Explore(chunks []domain.DocumentChunk, question string, topics []string, budget domain.SelectionBudget) ([]domain.Match, error) {
	if err := selector.ValidateBudget(budget); err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	if u.cache != nil {
		if matches, ok := u.cache.Get(question, topics, budget); ok {
			u.log.Debug().Str("question", question).Msg("query cache hit")
			return matches, nil
		}
	}

	qc := u.expander.Expand(question, topics)
	u.log.Debug().
		Int("terms", len(qc.ExpandedTerms)).
		Int("entities", len(qc.MentionedEntities)).
		Bool("comparison", qc.WantsComparison).
		Msg("expanded query")

	scored, strategyName, err := u.scoreAll(chunks, qc)
	if err != nil {
		return nil, err
	}

	selected, err := u.selector.Select(scored, qc, budget)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Match, 0, len(selected))
	for _, sc := range selected {
		m := domain.Match{
			SourceLabel: sc.Chunk.SourceLabel,
			Locator:     sc.Chunk.Locator,
			Score:       sc.Score,
			Text:        sc.Chunk.Text,
		}
		if u.resolver != nil {
			m.URL = u.resolver.URL(sc.Chunk.SourceLabel, sc.Chunk.Locator)
		}
		matches = append(matches, m)
	}

	u.log.Info().
		Str("strategy", strategyName).
		Int("corpus", len(chunks)).
		Int("selected", len(matches)).
		Msg("selected documents")
	if len(matches) > 0 {
		u.log.Debug().
			Float64("top_score", matches[0].Score).
			Str("top_source", matches[0].SourceLabel).
			Msg("best match")
	}

	if u.cache != nil {
		u.cache.Put(question, topics, budget, matches)
	}

	return matches, nil
}

// scoreAll tries each strategy in order, skipping unavailable ones.
func (u *ExploreUseCase) scoreAll(chunks []domain.DocumentChunk, qc domain.QueryContext) ([]domain.ScoredChunk, string, error) {
	for _, strategy := range u.strategies {
		scored, err := strategy.Score(chunks, qc)
		if errors.Is(err, port.ErrUnavailable) {
			u.log.Debug().Str("strategy", strategy.Name()).Msg("strategy unavailable, trying next")
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("strategy %s failed: %w", strategy.Name(), err)
		}
		return scored, strategy.Name(), nil
	}
	return nil, "", errors.New("no scoring strategy available")
}
