package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cirag/config"
	"cirag/internal/adapter/cache"
	"cirag/internal/adapter/citation"
	"cirag/internal/adapter/embedding"
	"cirag/internal/adapter/matcher"
	"cirag/internal/adapter/selector"
	"cirag/internal/adapter/store"
	"cirag/internal/domain"
	"cirag/internal/port"
	"cirag/internal/usecase"
)

var (
	askQuestion   string
	askTopics     []string
	askMaxSources int
	askThreshold  float64
	askMaxChars   int
	askJSON       bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Find document chunks relevant to a question",
	Long: `Score every corpus chunk against the question using the domain keyword
vocabulary (or embeddings when enabled) and select the best sources within
the configured budget. Comparison questions get at least one chunk per
competitor when available.

Examples:
  cirag ask -q "What special financing is Lennar offering?"
  cirag ask -q "Compare Lennar and Meritage pricing" --json
  cirag ask -q "inventory" --topic "move-in ready" --max-sources 3`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to answer (required)")
	askCmd.Flags().StringArrayVar(&askTopics, "topic", nil, "extra topic terms to search for")
	askCmd.Flags().IntVar(&askMaxSources, "max-sources", 0, "maximum sources to select (default from config)")
	askCmd.Flags().Float64Var(&askThreshold, "threshold", -1, "minimum match score (default from config)")
	askCmd.Flags().IntVar(&askMaxChars, "max-chars", 0, "character budget (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	rootDir := GetRootDir()
	log := GetLogger()

	dbPath := config.CorpusDBPath(rootDir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no corpus found. Run 'cirag ingest' first")
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer st.Close()

	chunks, err := st.ListChunks()
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	vocab, err := loadVocabulary(cfg)
	if err != nil {
		return err
	}

	var strategies []port.ScoringStrategy
	if cfg.Embedding.Enabled {
		embedder, err := embedding.NewOpenAICompatibleEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("embedding strategy disabled")
		} else {
			strategies = append(strategies, matcher.NewEmbeddingStrategy(embedder))
		}
	}
	strategies = append(strategies, matcher.NewKeywordStrategy(vocab))

	stats, err := st.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read corpus stats: %w", err)
	}
	queryCache := cache.NewQueryCache(cfg.Retrieve.CacheSize, 5*time.Minute)
	queryCache.SetGeneration(stats.Generation)

	exploreUC := usecase.NewExploreUseCase(
		matcher.NewExpander(vocab),
		strategies,
		selector.New(cfg.Corpus.Entities),
		citation.NewResolver(cfg.Corpus.BaseURL, cfg.Corpus.DocIDs),
		queryCache,
		log,
	)

	budget := domain.SelectionBudget{
		MaxSources:     cfg.Retrieve.MaxSources,
		MatchThreshold: cfg.Retrieve.MatchThreshold,
		MaxCharacters:  cfg.Retrieve.MaxCharacters,
		MinGuaranteed:  cfg.Retrieve.MinGuaranteed,
	}
	if askMaxSources > 0 {
		budget.MaxSources = askMaxSources
	}
	if askThreshold >= 0 {
		budget.MatchThreshold = askThreshold
	}
	if askMaxChars > 0 {
		budget.MaxCharacters = askMaxChars
	}

	matches, err := exploreUC.Explore(chunks, askQuestion, askTopics, budget)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if askJSON {
		output, _ := json.MarshalIndent(matches, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(matches) == 0 {
		fmt.Println("No relevant documents found.")
		return nil
	}

	fmt.Printf("Found %d sources for: %s\n\n", len(matches), askQuestion)
	for i, m := range matches {
		fmt.Printf("--- [%d] %s p.%d (score: %.3f) ---\n", i+1, m.SourceLabel, m.Locator, m.Score)
		if m.URL != "" {
			fmt.Printf("    %s\n", m.URL)
		}
		text := m.Text
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}

func loadVocabulary(cfg *config.Config) (*matcher.Vocabulary, error) {
	if cfg.Scoring.VocabularyFile != "" {
		vocab, err := matcher.LoadVocabulary(cfg.Scoring.VocabularyFile, cfg.Corpus.Entities)
		if err != nil {
			return nil, fmt.Errorf("failed to load vocabulary: %w", err)
		}
		return vocab, nil
	}
	return matcher.DefaultVocabulary(cfg.Corpus.Entities), nil
}
