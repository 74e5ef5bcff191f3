package selector

import (
	"errors"
	"math"
	"strings"
	"testing"

	"cirag/internal/domain"
)

var testEntities = []string{"Lennar", "Meritage"}

// score wires scores onto a corpus slice without copying the chunks.
func score(corpus []domain.DocumentChunk, scores []float64) []domain.ScoredChunk {
	scored := make([]domain.ScoredChunk, len(corpus))
	for i := range corpus {
		scored[i] = domain.ScoredChunk{Chunk: &corpus[i], Score: scores[i]}
	}
	return scored
}

func budget(maxSources, maxChars int, threshold float64) domain.SelectionBudget {
	return domain.SelectionBudget{
		MaxSources:     maxSources,
		MaxCharacters:  maxChars,
		MinGuaranteed:  2,
		MatchThreshold: threshold,
	}
}

func TestSelectThresholdFilter(t *testing.T) {
	corpus := []domain.DocumentChunk{
		{SourceLabel: "Lennar_A.pdf", Text: "aaa", Locator: 1},
		{SourceLabel: "Lennar_B.pdf", Text: "bbb", Locator: 2},
		{SourceLabel: "Lennar_C.pdf", Text: "ccc", Locator: 3},
	}
	scored := score(corpus, []float64{0.5, 0.15, 0.1})

	sel := New(testEntities)
	selected, err := sel.Select(scored, domain.QueryContext{}, budget(5, 10000, 0.15))
	if err != nil {
		t.Fatal(err)
	}

	if len(selected) != 2 {
		t.Fatalf("expected 2 chunks at or above threshold, got %d", len(selected))
	}
	// Score equal to the threshold stays eligible.
	if selected[1].Score != 0.15 {
		t.Errorf("expected threshold-equal chunk kept, got score %f", selected[1].Score)
	}
}

func TestSelectOrderedByScore(t *testing.T) {
	corpus := []domain.DocumentChunk{
		{SourceLabel: "Lennar_A.pdf", Text: "aaa", Locator: 1},
		{SourceLabel: "Lennar_B.pdf", Text: "bbb", Locator: 2},
		{SourceLabel: "Lennar_C.pdf", Text: "ccc", Locator: 3},
	}
	scored := score(corpus, []float64{0.3, 0.9, 0.6})

	sel := New(testEntities)
	selected, err := sel.Select(scored, domain.QueryContext{}, budget(5, 10000, 0.15))
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i < len(selected); i++ {
		if selected[i].Score > selected[i-1].Score {
			t.Errorf("selection not ordered by descending score at %d", i)
		}
	}
}

func TestSelectTiesKeepCorpusOrder(t *testing.T) {
	corpus := []domain.DocumentChunk{
		{SourceLabel: "Lennar_A.pdf", Text: "first", Locator: 1},
		{SourceLabel: "Lennar_B.pdf", Text: "second", Locator: 2},
	}
	scored := score(corpus, []float64{0.5, 0.5})

	sel := New(testEntities)
	selected, err := sel.Select(scored, domain.QueryContext{}, budget(5, 10000, 0.15))
	if err != nil {
		t.Fatal(err)
	}

	if selected[0].Chunk.Locator != 1 || selected[1].Chunk.Locator != 2 {
		t.Error("tie-break should preserve corpus order")
	}
}

func TestSelectCountBound(t *testing.T) {
	// Scenario: 5 chunks, 3 above threshold (2 Lennar, 1 Meritage),
	// maxCount 4, no comparison: exactly the 3 qualifying chunks.
	corpus := []domain.DocumentChunk{
		{SourceLabel: "Lennar_A.pdf", Text: "aaa", Locator: 1},
		{SourceLabel: "Meritage_A.pdf", Text: "bbb", Locator: 2},
		{SourceLabel: "Lennar_B.pdf", Text: "ccc", Locator: 3},
		{SourceLabel: "Meritage_B.pdf", Text: "ddd", Locator: 4},
		{SourceLabel: "Other.pdf", Text: "eee", Locator: 5},
	}
	scored := score(corpus, []float64{0.8, 0.5, 0.3, 0.1, 0.05})

	sel := New(testEntities)
	selected, err := sel.Select(scored, domain.QueryContext{}, budget(4, 10000, 0.15))
	if err != nil {
		t.Fatal(err)
	}

	if len(selected) != 3 {
		t.Fatalf("expected exactly 3 qualifying chunks, got %d", len(selected))
	}
	wantScores := []float64{0.8, 0.5, 0.3}
	for i, want := range wantScores {
		if selected[i].Score != want {
			t.Errorf("selected[%d].Score = %f, want %f", i, selected[i].Score, want)
		}
	}
}

func TestSelectNeverExceedsMaxSources(t *testing.T) {
	corpus := make([]domain.DocumentChunk, 10)
	scores := make([]float64, 10)
	for i := range corpus {
		corpus[i] = domain.DocumentChunk{SourceLabel: "Lennar.pdf", Text: "text", Locator: i + 1}
		scores[i] = 0.9
	}
	scored := score(corpus, scores)

	sel := New(testEntities)
	selected, err := sel.Select(scored, domain.QueryContext{}, budget(3, 100000, 0.15))
	if err != nil {
		t.Fatal(err)
	}
	if len(selected) > 3 {
		t.Errorf("selected %d chunks, max is 3", len(selected))
	}
}

func TestSelectMinimumGuaranteeOverridesCharacterBudget(t *testing.T) {
	// Scenario: 80 and 90 character chunks against a 100 character budget.
	corpus := []domain.DocumentChunk{
		{SourceLabel: "Lennar_A.pdf", Text: strings.Repeat("a", 80), Locator: 1},
		{SourceLabel: "Lennar_B.pdf", Text: strings.Repeat("b", 90), Locator: 2},
		{SourceLabel: "Lennar_C.pdf", Text: strings.Repeat("c", 50), Locator: 3},
	}
	scored := score(corpus, []float64{0.9, 0.8, 0.7})

	sel := New(testEntities)
	selected, err := sel.Select(scored, domain.QueryContext{}, budget(5, 100, 0.15))
	if err != nil {
		t.Fatal(err)
	}

	if len(selected) != 2 {
		t.Fatalf("expected the guaranteed 2 chunks despite budget, got %d", len(selected))
	}
	if selected[0].Chunk.Locator != 1 || selected[1].Chunk.Locator != 2 {
		t.Error("expected the top two chunks by score")
	}
}

func TestSelectDiversityBackfill(t *testing.T) {
	// Greedy fill exhausts the character budget on Lennar chunks; the
	// comparison intent forces a Meritage chunk in afterwards.
	corpus := []domain.DocumentChunk{
		{SourceLabel: "Lennar_A.pdf", Text: strings.Repeat("a", 30), Locator: 1},
		{SourceLabel: "Lennar_B.pdf", Text: strings.Repeat("b", 30), Locator: 2},
		{SourceLabel: "Lennar_C.pdf", Text: strings.Repeat("c", 30), Locator: 3},
		{SourceLabel: "Meritage_A.pdf", Text: strings.Repeat("m", 30), Locator: 4},
	}
	scored := score(corpus, []float64{0.9, 0.8, 0.7, 0.2})

	sel := New(testEntities)
	qc := domain.QueryContext{WantsComparison: true}
	selected, err := sel.Select(scored, qc, budget(4, 100, 0.15))
	if err != nil {
		t.Fatal(err)
	}

	if len(selected) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(selected))
	}
	last := selected[len(selected)-1]
	if !strings.Contains(strings.ToLower(last.Chunk.SourceLabel), "meritage") {
		t.Errorf("expected Meritage backfill appended last, got %s", last.Chunk.SourceLabel)
	}
}

func TestSelectBackfillExemptFromCharacterBudget(t *testing.T) {
	corpus := []domain.DocumentChunk{
		{SourceLabel: "Lennar_A.pdf", Text: strings.Repeat("a", 60), Locator: 1},
		{SourceLabel: "Lennar_B.pdf", Text: strings.Repeat("b", 60), Locator: 2},
		{SourceLabel: "Meritage_A.pdf", Text: strings.Repeat("m", 500), Locator: 3},
	}
	scored := score(corpus, []float64{0.9, 0.8, 0.5})

	sel := New(testEntities)
	qc := domain.QueryContext{WantsComparison: true}
	selected, err := sel.Select(scored, qc, budget(5, 100, 0.15))
	if err != nil {
		t.Fatal(err)
	}

	if len(selected) != 3 {
		t.Fatalf("expected backfill to ignore character budget, got %d chunks", len(selected))
	}
	if !strings.Contains(strings.ToLower(selected[2].Chunk.SourceLabel), "meritage") {
		t.Errorf("expected Meritage chunk appended, got %s", selected[2].Chunk.SourceLabel)
	}
}

func TestSelectGracefulWhenEntityAbsent(t *testing.T) {
	// Scenario: only Lennar chunks above threshold, comparison wanted.
	corpus := []domain.DocumentChunk{
		{SourceLabel: "Lennar_A.pdf", Text: "aaa", Locator: 1},
		{SourceLabel: "Lennar_B.pdf", Text: "bbb", Locator: 2},
	}
	scored := score(corpus, []float64{0.9, 0.8})

	sel := New(testEntities)
	qc := domain.QueryContext{WantsComparison: true}
	selected, err := sel.Select(scored, qc, budget(5, 10000, 0.15))
	if err != nil {
		t.Fatal(err)
	}

	if len(selected) != 2 {
		t.Fatalf("expected all Lennar matches, got %d", len(selected))
	}
	for _, sc := range selected {
		if !strings.Contains(strings.ToLower(sc.Chunk.SourceLabel), "lennar") {
			t.Errorf("unexpected chunk fabricated: %s", sc.Chunk.SourceLabel)
		}
	}
}

func TestSelectFallbackBelowThreshold(t *testing.T) {
	corpus := []domain.DocumentChunk{
		{SourceLabel: "Lennar_A.pdf", Text: "aaa", Locator: 1},
		{SourceLabel: "Meritage_A.pdf", Text: "bbb", Locator: 2},
		{SourceLabel: "Other.pdf", Text: "ccc", Locator: 3},
	}
	scored := score(corpus, []float64{0.05, 0.1, 0.02})

	sel := New(testEntities)
	selected, err := sel.Select(scored, domain.QueryContext{}, budget(5, 10000, 0.15))
	if err != nil {
		t.Fatal(err)
	}

	if len(selected) != 2 {
		t.Fatalf("expected top 2 by raw score as fallback, got %d", len(selected))
	}
	if selected[0].Score != 0.1 || selected[1].Score != 0.05 {
		t.Errorf("fallback not ordered by raw score: %f, %f", selected[0].Score, selected[1].Score)
	}
}

func TestSelectEmptyCorpus(t *testing.T) {
	sel := New(testEntities)
	selected, err := sel.Select(nil, domain.QueryContext{}, budget(5, 3000, 0.15))
	if err != nil {
		t.Fatal(err)
	}
	if len(selected) != 0 {
		t.Errorf("expected empty selection for empty corpus, got %d", len(selected))
	}
}

func TestSelectZeroMaxSources(t *testing.T) {
	corpus := []domain.DocumentChunk{{SourceLabel: "Lennar.pdf", Text: "aaa", Locator: 1}}
	scored := score(corpus, []float64{0.9})

	sel := New(testEntities)
	selected, err := sel.Select(scored, domain.QueryContext{}, budget(0, 3000, 0.15))
	if err != nil {
		t.Fatal(err)
	}
	if len(selected) != 0 {
		t.Errorf("expected empty selection for zero max sources, got %d", len(selected))
	}
}

func TestValidateBudgetRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		budget domain.SelectionBudget
	}{
		{"negative max sources", domain.SelectionBudget{MaxSources: -1, MaxCharacters: 3000, MinGuaranteed: 2, MatchThreshold: 0.15}},
		{"negative max characters", domain.SelectionBudget{MaxSources: 5, MaxCharacters: -10, MinGuaranteed: 2, MatchThreshold: 0.15}},
		{"negative min guaranteed", domain.SelectionBudget{MaxSources: 5, MaxCharacters: 3000, MinGuaranteed: -1, MatchThreshold: 0.15}},
		{"threshold above one", domain.SelectionBudget{MaxSources: 5, MaxCharacters: 3000, MinGuaranteed: 2, MatchThreshold: 1.5}},
		{"threshold NaN", domain.SelectionBudget{MaxSources: 5, MaxCharacters: 3000, MinGuaranteed: 2, MatchThreshold: math.NaN()}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateBudget(tc.budget); !errors.Is(err, ErrBadBudget) {
				t.Errorf("expected ErrBadBudget, got %v", err)
			}
		})
	}
}
