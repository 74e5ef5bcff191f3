package matcher

import (
	"cirag/internal/domain"
)

// KeywordStrategy is the always-available scoring strategy backed by the
// vocabulary scorer. It is the primary path; embedding search is an
// optional alternate plugged into the same pipeline.
type KeywordStrategy struct {
	vocab *Vocabulary
}

func NewKeywordStrategy(vocab *Vocabulary) *KeywordStrategy {
	return &KeywordStrategy{vocab: vocab}
}

func (s *KeywordStrategy) Name() string {
	return "keyword"
}

// Score computes the vocabulary relevance of every chunk, in corpus order.
// Chunks with missing text degrade to score 0 rather than failing the batch.
func (s *KeywordStrategy) Score(chunks []domain.DocumentChunk, qc domain.QueryContext) ([]domain.ScoredChunk, error) {
	scored := make([]domain.ScoredChunk, len(chunks))
	for i := range chunks {
		scored[i] = domain.ScoredChunk{
			Chunk: &chunks[i],
			Score: s.vocab.Relevance(chunks[i].Text, qc.ExpandedTerms, chunks[i].SourceLabel),
		}
	}
	return scored, nil
}
