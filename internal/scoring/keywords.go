package scoring

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"

	"resumelab/internal/types"
)

// JDKeywords holds classified keywords from a job description.
type JDKeywords struct {
	MustHave   []string `json:"must_have"`
	NiceToHave []string `json:"nice_to_have"`
	SoftSkills []string `json:"soft_skills"`
}

// Classifier classifies job-description keywords into must-have,
// nice-to-have and soft-skill buckets. Implemented by the AI provider.
type Classifier interface {
	Classify(ctx context.Context, jobDescription string) (JDKeywords, error)
}

// Embedder produces dense vectors for semantic similarity. The AI package's
// embedding client satisfies this.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// BatchEmbedder is implemented by embedders that can vectorize several texts
// in one request. The JD scorer uses it to fetch the resume and job
// description vectors in a single round trip.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

const (
	maxMustHave   = 15
	maxNiceToHave = 10
	maxSoftSkills = 8
)

// KeywordCache is a bounded LRU cache of classified keywords keyed by the
// SHA-256 of the job description. Classification hits the AI provider, so a
// repeated job description must not pay for a second call.
type KeywordCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
}

type keywordCacheEntry struct {
	key   string
	value JDKeywords
}

// NewKeywordCache creates a cache that evicts the least recently used entry
// once capacity is exceeded.
func NewKeywordCache(capacity int) *KeywordCache {
	if capacity < 1 {
		capacity = 1
	}
	return &KeywordCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

func (c *KeywordCache) Get(key string) (JDKeywords, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		return JDKeywords{}, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*keywordCacheEntry).value, true
}

func (c *KeywordCache) Put(key string, value JDKeywords) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*keywordCacheEntry).value = value
		return
	}
	elem := c.order.PushFront(&keywordCacheEntry{key: key, value: value})
	c.items[key] = elem
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*keywordCacheEntry).key)
		}
	}
}

func (c *KeywordCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func hashJobDescription(jobDescription string) string {
	sum := sha256.Sum256([]byte(jobDescription))
	return hex.EncodeToString(sum[:])
}

// fallbackKeywords extracts keywords without classification. Terms are
// ordered longest first (length ties broken lexically) so the split into
// must-have and nice-to-have buckets is deterministic.
func fallbackKeywords(jobDescription string) JDKeywords {
	terms := extractTerms(jobDescription)

	seen := make(map[string]bool, len(terms))
	unique := make([]string, 0, len(terms))
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}
	sort.Slice(unique, func(i, j int) bool {
		if len(unique[i]) != len(unique[j]) {
			return len(unique[i]) > len(unique[j])
		}
		return unique[i] < unique[j]
	})

	keywords := JDKeywords{}
	if len(unique) > maxMustHave {
		keywords.MustHave = unique[:maxMustHave]
		end := maxMustHave + maxNiceToHave
		if end > len(unique) {
			end = len(unique)
		}
		keywords.NiceToHave = unique[maxMustHave:end]
	} else {
		keywords.MustHave = unique
	}
	return keywords
}

func capKeywords(list []string, max int) []string {
	if len(list) > max {
		return list[:max]
	}
	return list
}

// ClassifyFunc adapts a plain function to the Classifier interface.
type ClassifyFunc func(ctx context.Context, jobDescription string) (JDKeywords, error)

func (f ClassifyFunc) Classify(ctx context.Context, jobDescription string) (JDKeywords, error) {
	return f(ctx, jobDescription)
}

// KeywordsFromOutput converts an AI classification response into JDKeywords
// with per-bucket limits applied.
func KeywordsFromOutput(out types.ClassifyKeywordsOutput) JDKeywords {
	return JDKeywords{
		MustHave:   capKeywords(out.MustHave, maxMustHave),
		NiceToHave: capKeywords(out.NiceToHave, maxNiceToHave),
		SoftSkills: capKeywords(out.SoftSkills, maxSoftSkills),
	}
}
