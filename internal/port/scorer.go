package port

import (
	"errors"

	"cirag/internal/domain"
)

// ErrUnavailable is returned by a ScoringStrategy that cannot run in the
// current environment (missing API key, no embedder configured, etc).
// The caller moves on to the next strategy instead of failing the query.
var ErrUnavailable = errors.New("scoring strategy unavailable")

// ScoringStrategy scores every corpus chunk against a query context.
type ScoringStrategy interface {
	// Name identifies the strategy in logs and CLI output.
	Name() string

	// Score returns one ScoredChunk per input chunk, in corpus order.
	// Scores are in [0, 1]. Returns ErrUnavailable when the strategy
	// cannot run at all.
	Score(chunks []domain.DocumentChunk, qc domain.QueryContext) ([]domain.ScoredChunk, error)
}
