package pack

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"cirag/internal/domain"
)

// Loader reads pre-chunked document packs: a JSON array of files, each
// with a name and its page chunks.
type Loader struct {
	patterns []string
}

func NewLoader(patterns []string) *Loader {
	if len(patterns) == 0 {
		patterns = []string{"pack.json"}
	}
	return &Loader{patterns: patterns}
}

type packFile struct {
	File   string      `json:"File"`
	Chunks []packChunk `json:"Chunks"`
}

type packChunk struct {
	Page int    `json:"Page"`
	Text string `json:"Text"`
}

// Load parses one pack file into document chunks. Chunks with missing
// text are kept with empty text; they score zero instead of failing the
// batch. A missing page locator defaults to 1.
func (l *Loader) Load(path string) ([]domain.DocumentChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pack file: %w", err)
	}

	var files []packFile
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, fmt.Errorf("unexpected pack format in %s: %w", path, err)
	}

	var chunks []domain.DocumentChunk
	for _, f := range files {
		name := f.File
		if name == "" {
			name = "unknown_file"
		}
		for _, c := range f.Chunks {
			locator := c.Page
			if locator == 0 {
				locator = 1
			}
			chunks = append(chunks, domain.DocumentChunk{
				SourceLabel: name,
				Text:        c.Text,
				Locator:     locator,
			})
		}
	}
	return chunks, nil
}

// Discover walks root and returns the pack files matching the configured
// glob patterns, in walk order.
func (l *Loader) Discover(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var found []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		for _, pattern := range l.patterns {
			matched, err := doublestar.Match(pattern, filepath.ToSlash(relPath))
			if err == nil && matched {
				found = append(found, path)
				break
			}
		}
		return nil
	})
	return found, err
}
