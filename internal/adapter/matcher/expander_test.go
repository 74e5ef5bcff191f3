package matcher

import (
	"strings"
	"testing"
)

func TestExpandFinancingTrigger(t *testing.T) {
	expander := NewExpander(DefaultVocabulary(testEntities))

	qc := expander.Expand("What financing options are available?", nil)

	if len(qc.ExpandedTerms) == 0 || qc.ExpandedTerms[0] != "What financing options are available?" {
		t.Fatalf("expected raw question as first term, got %v", qc.ExpandedTerms)
	}
	for _, want := range []string{"mortgage", "apr", "buydown"} {
		if !containsTerm(qc.ExpandedTerms, want) {
			t.Errorf("expected expansion term %q, got %v", want, qc.ExpandedTerms)
		}
	}
	if qc.WantsComparison {
		t.Error("did not expect comparison intent")
	}
	if len(qc.MentionedEntities) != 0 {
		t.Errorf("did not expect entity mentions, got %v", qc.MentionedEntities)
	}
}

func TestExpandEntityDetection(t *testing.T) {
	expander := NewExpander(DefaultVocabulary(testEntities))

	qc := expander.Expand("What is Lennar offering this month?", nil)

	if !qc.MentionedEntities["Lennar"] {
		t.Errorf("expected Lennar to be detected, got %v", qc.MentionedEntities)
	}
	if qc.MentionedEntities["Meritage"] {
		t.Error("Meritage should not be detected")
	}
	if !containsTerm(qc.ExpandedTerms, "lennar") {
		t.Errorf("expected entity term appended, got %v", qc.ExpandedTerms)
	}
	if containsTerm(qc.ExpandedTerms, "meritage") {
		t.Error("unmentioned entity should not join the terms without comparison intent")
	}
}

func TestExpandComparisonAddsAllEntities(t *testing.T) {
	expander := NewExpander(DefaultVocabulary(testEntities))

	qc := expander.Expand("Compare the builders on pricing", nil)

	if !qc.WantsComparison {
		t.Fatal("expected comparison intent for 'compare'")
	}
	for _, entity := range []string{"lennar", "meritage"} {
		if !containsTerm(qc.ExpandedTerms, entity) {
			t.Errorf("expected %q in terms for comparison question, got %v", entity, qc.ExpandedTerms)
		}
	}
}

func TestExpandDeduplicatesCaseInsensitively(t *testing.T) {
	expander := NewExpander(DefaultVocabulary(testEntities))

	qc := expander.Expand("financing", []string{"Financing", "apr", "mortgage"})

	seen := make(map[string]int)
	for _, term := range qc.ExpandedTerms {
		seen[strings.ToLower(term)]++
	}
	for term, count := range seen {
		if count > 1 {
			t.Errorf("term %q appears %d times", term, count)
		}
	}
	// First-seen form wins: "financing" from the question, not "Financing".
	if qc.ExpandedTerms[0] != "financing" {
		t.Errorf("expected first-seen order preserved, got %v", qc.ExpandedTerms[0])
	}
}

func TestExpandEmptyQuestion(t *testing.T) {
	expander := NewExpander(DefaultVocabulary(testEntities))

	qc := expander.Expand("", []string{"inventory", ""})

	if len(qc.ExpandedTerms) != 1 || qc.ExpandedTerms[0] != "inventory" {
		t.Errorf("expected only the non-empty topic, got %v", qc.ExpandedTerms)
	}
	if qc.WantsComparison {
		t.Error("empty question cannot want comparison")
	}
}

func TestExpandIdempotent(t *testing.T) {
	expander := NewExpander(DefaultVocabulary(testEntities))
	question := "Compare Lennar and Meritage special financing"

	first := expander.Expand(question, []string{"incentives"})
	second := expander.Expand(question, []string{"incentives"})

	if len(first.ExpandedTerms) != len(second.ExpandedTerms) {
		t.Fatalf("term count changed: %d vs %d", len(first.ExpandedTerms), len(second.ExpandedTerms))
	}
	for i := range first.ExpandedTerms {
		if first.ExpandedTerms[i] != second.ExpandedTerms[i] {
			t.Errorf("term order changed at %d: %q vs %q", i, first.ExpandedTerms[i], second.ExpandedTerms[i])
		}
	}
}

func containsTerm(terms []string, want string) bool {
	for _, term := range terms {
		if strings.EqualFold(term, want) {
			return true
		}
	}
	return false
}
