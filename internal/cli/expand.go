package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"cirag/internal/adapter/matcher"
)

var (
	expandQuestion string
	expandTopics   []string
	expandJSON     bool
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Show how a question expands into search terms",
	Long: `Print the query context derived from a question: expanded terms,
detected entities and whether it reads as a comparison. Useful for tuning
the vocabulary.

Examples:
  cirag expand -q "What financing specials does Lennar have?"
  cirag expand -q "compare both builders" --json`,
	RunE: runExpand,
}

func init() {
	rootCmd.AddCommand(expandCmd)
	expandCmd.Flags().StringVarP(&expandQuestion, "question", "q", "", "question to expand (required)")
	expandCmd.Flags().StringArrayVar(&expandTopics, "topic", nil, "extra topic terms")
	expandCmd.Flags().BoolVar(&expandJSON, "json", false, "output as JSON")
	expandCmd.MarkFlagRequired("question")
}

func runExpand(cmd *cobra.Command, args []string) error {
	vocab, err := loadVocabulary(GetConfig())
	if err != nil {
		return err
	}

	qc := matcher.NewExpander(vocab).Expand(expandQuestion, expandTopics)

	if expandJSON {
		out := struct {
			Question   string   `json:"question"`
			Terms      []string `json:"terms"`
			Entities   []string `json:"entities"`
			Comparison bool     `json:"comparison"`
		}{
			Question:   qc.RawQuestion,
			Terms:      qc.ExpandedTerms,
			Comparison: qc.WantsComparison,
		}
		for entity := range qc.MentionedEntities {
			out.Entities = append(out.Entities, entity)
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Question: %s\n", qc.RawQuestion)
	fmt.Printf("Comparison: %v\n", qc.WantsComparison)
	if len(qc.MentionedEntities) > 0 {
		fmt.Print("Entities:")
		for entity := range qc.MentionedEntities {
			fmt.Printf(" %s", entity)
		}
		fmt.Println()
	}
	fmt.Printf("Terms (%d):\n", len(qc.ExpandedTerms))
	for _, term := range qc.ExpandedTerms {
		fmt.Printf("  %s\n", term)
	}

	return nil
}
