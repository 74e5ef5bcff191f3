package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"cirag/internal/domain"
)

// QueryCache memoizes final match lists per question and budget. Each
// query run is a pure function of (corpus generation, question, budget),
// so entries only need invalidating when the corpus is re-ingested.
type QueryCache struct {
	mu        sync.RWMutex
	entries   map[string]*cacheEntry
	order     []string
	maxSize   int
	ttl       time.Duration
	corpusGen uint64
}

type cacheEntry struct {
	matches   []domain.Match
	timestamp time.Time
	corpusGen uint64
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(question string, topics []string, budget domain.SelectionBudget) string {
	data := []byte(question)
	for _, t := range topics {
		data = append(data, 0)
		data = append(data, t...)
	}
	data = append(data, []byte(fmt.Sprintf("|%d|%d|%d|%g",
		budget.MaxSources, budget.MaxCharacters, budget.MinGuaranteed, budget.MatchThreshold))...)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

func (c *QueryCache) Get(question string, topics []string, budget domain.SelectionBudget) ([]domain.Match, bool) {
	key := cacheKey(question, topics, budget)

	c.mu.RLock()
	entry, exists := c.entries[key]
	currentGen := c.corpusGen
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if entry.corpusGen != currentGen || time.Since(entry.timestamp) > c.ttl {
		c.mu.Lock()
		c.evict(key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.matches, true
}

func (c *QueryCache) Put(question string, topics []string, budget domain.SelectionBudget, matches []domain.Match) {
	key := cacheKey(question, topics, budget)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.maxSize {
			c.evict(c.order[0])
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = &cacheEntry{
		matches:   matches,
		timestamp: time.Now(),
		corpusGen: c.corpusGen,
	}
}

// SetGeneration invalidates every entry written under an older corpus.
func (c *QueryCache) SetGeneration(gen uint64) {
	c.mu.Lock()
	c.corpusGen = gen
	c.mu.Unlock()
}

func (c *QueryCache) evict(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
