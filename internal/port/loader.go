package port

import "cirag/internal/domain"

// PackLoader reads pre-chunked document packs into memory.
type PackLoader interface {
	// Load parses the pack file at path into document chunks.
	Load(path string) ([]domain.DocumentChunk, error)

	// Discover finds pack files under root matching the configured patterns.
	Discover(root string) ([]string, error)
}
