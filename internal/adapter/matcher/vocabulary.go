package matcher

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WeightedPhrase is a literal multi-word phrase whose presence in a chunk
// signals high relevance on its own.
type WeightedPhrase struct {
	Phrase string  `yaml:"phrase"`
	Weight float64 `yaml:"weight"`
}

// Expansion maps a trigger keyword found in the question to the synonym
// terms that should join the search.
type Expansion struct {
	Trigger string   `yaml:"trigger"`
	Terms   []string `yaml:"terms"`
}

// Vocabulary is the domain knowledge the scorer and expander run on:
// keyword weights, high-value phrases, query expansions, entity names and
// comparison cue words. It is plain data so deployments can tune it
// without touching the matching logic.
type Vocabulary struct {
	Keywords       map[string]float64 `yaml:"keywords"`
	Patterns       []WeightedPhrase   `yaml:"patterns"`
	Expansions     []Expansion        `yaml:"expansions"`
	Entities       []string           `yaml:"entities"`
	ComparisonCues []string           `yaml:"comparison_cues"`
}

// DefaultVocabulary returns the built-in homebuilder competitive
// intelligence vocabulary. Entity names are added to the keyword table at
// a fixed weight so entity mentions count toward relevance.
func DefaultVocabulary(entities []string) *Vocabulary {
	v := &Vocabulary{
		Keywords: map[string]float64{
			// Financing
			"apr": 0.5, "rate": 0.4, "buydown": 0.6, "mortgage": 0.4, "financing": 0.5,
			"payment": 0.3, "monthly": 0.3,

			// Promotions
			"special": 0.5, "event": 0.4, "promotion": 0.5, "limited": 0.4, "offer": 0.4,
			"sale": 0.4, "national": 0.3, "incentive": 0.5,

			// Pricing
			"price": 0.4, "reduction": 0.5, "reduced": 0.5, "discount": 0.5,
			"$": 0.3, "cost": 0.3,

			// Inventory
			"available": 0.3, "inventory": 0.4, "move-in": 0.4, "ready": 0.3,
		},
		Patterns: []WeightedPhrase{
			{Phrase: "national sales event", Weight: 0.8},
			{Phrase: "special financing", Weight: 0.7},
			{Phrase: "apr buydown", Weight: 0.8},
			{Phrase: "price reduction", Weight: 0.6},
			{Phrase: "limited time", Weight: 0.5},
			{Phrase: "move-in ready", Weight: 0.5},
			{Phrase: "closing cost", Weight: 0.5},
			{Phrase: "monthly payment", Weight: 0.5},
		},
		Expansions: []Expansion{
			{Trigger: "financing", Terms: []string{
				"financing", "finance", "mortgage", "loan", "apr", "rate", "payment",
				"buydown", "interest", "monthly payment", "qualification", "credit",
				"lending", "lender",
			}},
			{Trigger: "special", Terms: []string{
				"special", "promotion", "offer", "event", "sale", "limited time",
				"exclusive", "discount", "incentive", "deal", "savings",
				"national sales event",
			}},
			{Trigger: "price", Terms: []string{
				"price", "pricing", "cost", "$", "reduction", "reduced", "discount",
				"drop", "decrease", "lower", "affordable", "starting from", "base price",
			}},
			{Trigger: "inventory", Terms: []string{
				"inventory", "available", "availability", "move-in ready", "quick move",
				"homes available", "in stock", "ready now", "immediate",
			}},
			{Trigger: "home", Terms: []string{
				"home", "house", "property", "residence", "unit", "model",
				"floor plan", "community",
			}},
			{Trigger: "new", Terms: []string{
				"new", "latest", "current", "upcoming", "recent", "now", "today",
			}},
		},
		ComparisonCues: []string{"competitors", "competition", "both", "compare", "versus", "vs"},
	}
	v.SetEntities(entities)
	return v
}

// entityKeywordWeight is the relevance contribution of a bare entity
// mention inside chunk text.
const entityKeywordWeight = 0.3

// SetEntities replaces the known entity list and folds the names into the
// keyword table.
func (v *Vocabulary) SetEntities(entities []string) {
	for _, old := range v.Entities {
		delete(v.Keywords, strings.ToLower(old))
	}
	v.Entities = append([]string(nil), entities...)
	if v.Keywords == nil {
		v.Keywords = make(map[string]float64)
	}
	for _, e := range entities {
		if e == "" {
			continue
		}
		v.Keywords[strings.ToLower(e)] = entityKeywordWeight
	}
}

// LoadVocabulary reads a vocabulary override from a YAML file. Fields left
// empty in the file keep their built-in defaults.
func LoadVocabulary(path string, entities []string) (*Vocabulary, error) {
	v := DefaultVocabulary(entities)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var override Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}

	if len(override.Keywords) > 0 {
		v.Keywords = override.Keywords
	}
	if len(override.Patterns) > 0 {
		v.Patterns = override.Patterns
	}
	if len(override.Expansions) > 0 {
		v.Expansions = override.Expansions
	}
	if len(override.ComparisonCues) > 0 {
		v.ComparisonCues = override.ComparisonCues
	}
	if len(override.Entities) > 0 {
		v.SetEntities(override.Entities)
	} else {
		v.SetEntities(entities)
	}

	return v, nil
}
