package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"cirag/config"
	"cirag/internal/adapter/pack"
	"cirag/internal/adapter/store"
	"cirag/internal/usecase"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Load document packs into the corpus",
	Long: `Discover pack files under the given directory, parse their chunks and
store them in .cirag/corpus.db for querying.

Examples:
  cirag ingest .                 # Ingest packs from the current directory
  cirag ingest /path/to/packs    # Ingest packs from a specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()

	if err := config.EnsureDir(path); err != nil {
		return fmt.Errorf("failed to create .cirag directory: %w", err)
	}

	st, err := store.NewBoltStore(config.CorpusDBPath(path))
	if err != nil {
		return fmt.Errorf("failed to open corpus store: %w", err)
	}
	defer st.Close()

	loader := pack.NewLoader(cfg.Corpus.Packs)
	ingestUC := usecase.NewIngestUseCase(loader, st, cfg.Corpus.Entities, GetLogger())

	fmt.Printf("Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	progress := func(processed, total int, currentPack string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Ingesting packs"),
				progressbar.OptionShowCount(),
			)
		}
		bar.Set(processed)
	}

	result, err := ingestUC.Ingest(path, progress)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	fmt.Printf("Ingested %d packs, %d chunks\n", result.PacksLoaded, result.ChunksStored)
	for entity, count := range result.Stats.Entities {
		fmt.Printf("  %s: %d chunks\n", entity, count)
	}

	return nil
}
