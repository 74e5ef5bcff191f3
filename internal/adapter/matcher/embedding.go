package matcher

import (
	"fmt"
	"math"

	"cirag/internal/domain"
	"cirag/internal/port"
)

// EmbeddingStrategy scores chunks by cosine similarity between the raw
// question and each chunk text. It reports ErrUnavailable when no embedder
// is configured so the pipeline can fall through to keyword matching.
type EmbeddingStrategy struct {
	embedder port.Embedder
}

func NewEmbeddingStrategy(embedder port.Embedder) *EmbeddingStrategy {
	return &EmbeddingStrategy{embedder: embedder}
}

func (s *EmbeddingStrategy) Name() string {
	return "embedding"
}

func (s *EmbeddingStrategy) Score(chunks []domain.DocumentChunk, qc domain.QueryContext) ([]domain.ScoredChunk, error) {
	if s.embedder == nil || qc.RawQuestion == "" {
		return nil, port.ErrUnavailable
	}

	texts := make([]string, 0, len(chunks)+1)
	texts = append(texts, qc.RawQuestion)
	for i := range chunks {
		texts = append(texts, chunks[i].Text)
	}

	vectors, err := s.embedder.Embed(texts)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	query := vectors[0]
	scored := make([]domain.ScoredChunk, len(chunks))
	for i := range chunks {
		scored[i] = domain.ScoredChunk{
			Chunk: &chunks[i],
			Score: clampUnit(cosineSimilarity(query, vectors[i+1])),
		}
	}
	return scored, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
