package usecase

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"cirag/internal/domain"
	"cirag/internal/port"
)

// IngestUseCase loads pack files and persists their chunks.
type IngestUseCase struct {
	loader   port.PackLoader
	store    port.CorpusStore
	entities []string
	log      zerolog.Logger
}

func NewIngestUseCase(loader port.PackLoader, store port.CorpusStore, entities []string, log zerolog.Logger) *IngestUseCase {
	return &IngestUseCase{
		loader:   loader,
		store:    store,
		entities: entities,
		log:      log,
	}
}

// IngestResult contains the results of an ingest operation.
type IngestResult struct {
	PacksLoaded  int
	ChunksStored int
	Stats        domain.Stats
}

// ProgressFunc reports ingest progress: packs processed out of total.
type ProgressFunc func(processed, total int, currentPack string)

// Ingest replaces the stored corpus with the chunks from every pack file
// found under root. The stats generation is bumped so query caches drop
// stale entries.
func (u *IngestUseCase) Ingest(root string, progress ProgressFunc) (*IngestResult, error) {
	packs, err := u.loader.Discover(root)
	if err != nil {
		return nil, fmt.Errorf("failed to discover pack files: %w", err)
	}
	if len(packs) == 0 {
		return nil, fmt.Errorf("no pack files found under %s", root)
	}

	if err := u.store.Clear(); err != nil {
		return nil, fmt.Errorf("failed to clear corpus: %w", err)
	}

	result := &IngestResult{}
	stats := domain.Stats{Entities: make(map[string]int)}

	for i, path := range packs {
		chunks, err := u.loader.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}

		if err := u.store.PutChunks(chunks); err != nil {
			return nil, fmt.Errorf("failed to store chunks from %s: %w", path, err)
		}

		for j := range chunks {
			stats.TotalChunks++
			stats.TotalChars += len(chunks[j].Text)
			if entity := u.entityOf(chunks[j].SourceLabel); entity != "" {
				stats.Entities[entity]++
			}
		}

		result.PacksLoaded++
		result.ChunksStored += len(chunks)
		if progress != nil {
			progress(i+1, len(packs), path)
		}
	}

	prev, err := u.store.GetStats()
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus stats: %w", err)
	}
	stats.Generation = prev.Generation + 1
	if err := u.store.UpdateStats(stats); err != nil {
		return nil, fmt.Errorf("failed to update corpus stats: %w", err)
	}

	result.Stats = stats
	u.log.Info().
		Int("packs", result.PacksLoaded).
		Int("chunks", result.ChunksStored).
		Uint64("generation", stats.Generation).
		Msg("corpus ingested")

	return result, nil
}

func (u *IngestUseCase) entityOf(sourceLabel string) string {
	labelLower := strings.ToLower(sourceLabel)
	for _, entity := range u.entities {
		if entity != "" && strings.Contains(labelLower, strings.ToLower(entity)) {
			return entity
		}
	}
	return ""
}
