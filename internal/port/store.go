package port

import "cirag/internal/domain"

// CorpusStore persists an ingested corpus between CLI invocations.
type CorpusStore interface {
	PutChunks(chunks []domain.DocumentChunk) error

	ListChunks() ([]domain.DocumentChunk, error)

	GetStats() (domain.Stats, error)

	UpdateStats(stats domain.Stats) error

	Clear() error

	Close() error
}
