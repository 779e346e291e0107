package scoring

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJD = `We are hiring a Senior Backend Engineer.
Requirements: 5+ years with Python, PostgreSQL and Docker.
Nice to have: Kubernetes, Terraform.
Strong communication and leadership skills.`

type stubClassifier struct {
	calls    int
	keywords JDKeywords
	err      error
}

func (s *stubClassifier) Classify(_ context.Context, _ string) (JDKeywords, error) {
	s.calls++
	return s.keywords, s.err
}

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return s.vec, s.err
}

func TestKeywordMatchScore(t *testing.T) {
	resumeTerms := toSet([]string{"python", "docker", "backend services"})
	keywords := JDKeywords{
		MustHave:   []string{"Python", "Kubernetes"},
		NiceToHave: []string{"Docker"},
		SoftSkills: []string{"leadership"},
	}

	// Matched: python (3.0) + docker (1.5) out of 3+3+1.5+0.5 total.
	score := keywordMatchScore(resumeTerms, keywords)
	assert.InDelta(t, 4.5/8.0, score, 1e-9)
}

func TestKeywordMatchScoreSubstring(t *testing.T) {
	resumeTerms := toSet([]string{"python developer"})
	keywords := JDKeywords{MustHave: []string{"Python"}}
	assert.InDelta(t, 1.0, keywordMatchScore(resumeTerms, keywords), 1e-9)
}

func TestKeywordMatchScoreNoKeywords(t *testing.T) {
	assert.InDelta(t, 1.0, keywordMatchScore(toSet([]string{"anything"}), JDKeywords{}), 1e-9)
}

func TestTFIDFSimilarity(t *testing.T) {
	identical := []string{"python", "docker", "python docker"}
	assert.InDelta(t, 1.0, tfidfSimilarity(identical, identical), 1e-9)

	disjoint := tfidfSimilarity([]string{"python"}, []string{"gardening"})
	assert.InDelta(t, 0.0, disjoint, 1e-9)

	assert.InDelta(t, 0.0, tfidfSimilarity(nil, identical), 1e-9)
}

func TestCosineVectors(t *testing.T) {
	assert.InDelta(t, 1.0, cosineVectors([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineVectors([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 0.0, cosineVectors(nil, []float32{1}), 1e-9)
	assert.InDelta(t, 0.0, cosineVectors([]float32{1}, []float32{1, 0}), 1e-9)
}

func TestFallbackKeywordsDeterministic(t *testing.T) {
	first := fallbackKeywords(sampleJD)
	second := fallbackKeywords(sampleJD)
	assert.Equal(t, first, second)

	require.NotEmpty(t, first.MustHave)
	assert.LessOrEqual(t, len(first.MustHave), maxMustHave)
	assert.LessOrEqual(t, len(first.NiceToHave), maxNiceToHave)
	assert.Empty(t, first.SoftSkills)

	// Longest terms classified first.
	for i := 1; i < len(first.MustHave); i++ {
		assert.GreaterOrEqual(t, len(first.MustHave[i-1]), len(first.MustHave[i]))
	}
}

func TestJDScorerNoCollaborators(t *testing.T) {
	scorer := NewJDScorer(nil, nil, nil)
	result := scorer.Score(context.Background(), strongResume, sampleJD)

	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
	assert.NotContains(t, result.Summary, "Keyword match:")
	assert.NotEmpty(t, result.MatchedKeywords)
	assert.LessOrEqual(t, len(result.MatchedKeywords), 15)
	assert.LessOrEqual(t, len(result.MissingKeywords), 10)
}

func TestJDScorerWithCollaborators(t *testing.T) {
	classifier := &stubClassifier{keywords: JDKeywords{
		MustHave:   []string{"Python", "Docker", "Fortran"},
		NiceToHave: []string{"Kubernetes"},
		SoftSkills: []string{"leadership"},
	}}
	embedder := &stubEmbedder{vec: []float32{1, 2, 3}}
	scorer := NewJDScorer(classifier, embedder, nil)

	result := scorer.Score(context.Background(), strongResume, sampleJD)

	assert.Contains(t, result.MatchedKeywords, "Python")
	assert.Contains(t, result.MatchedKeywords, "Docker")
	assert.Contains(t, result.MissingKeywords, "Fortran")
	assert.Contains(t, result.Summary, "Keyword match:")
	// Identical stub vectors make semantic similarity exactly 1.
	assert.Contains(t, result.Summary, "Semantic: 100%")
	assert.Equal(t, 1, classifier.calls)
}

func TestJDScorerCachesClassification(t *testing.T) {
	classifier := &stubClassifier{keywords: JDKeywords{MustHave: []string{"Python"}}}
	scorer := NewJDScorer(classifier, nil, nil)

	scorer.Score(context.Background(), strongResume, sampleJD)
	scorer.Score(context.Background(), "different resume text", sampleJD)
	assert.Equal(t, 1, classifier.calls)

	scorer.Score(context.Background(), strongResume, "a different job description")
	assert.Equal(t, 2, classifier.calls)
}

func TestJDScorerClassifierFailureFallsBack(t *testing.T) {
	classifier := &stubClassifier{err: fmt.Errorf("model unavailable")}
	scorer := NewJDScorer(classifier, nil, nil)

	result := scorer.Score(context.Background(), strongResume, sampleJD)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
	assert.Contains(t, result.Summary, "Keyword match:")

	// The fallback result is cached too.
	scorer.Score(context.Background(), strongResume, sampleJD)
	assert.Equal(t, 1, classifier.calls)
}

func TestJDScorerEmbedderFailureDegrades(t *testing.T) {
	embedder := &stubEmbedder{err: fmt.Errorf("quota exceeded")}
	scorer := NewJDScorer(nil, embedder, nil)

	result := scorer.Score(context.Background(), strongResume, sampleJD)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
}

func TestJDScorerDeterministic(t *testing.T) {
	scorer := NewJDScorer(nil, nil, nil)
	first := scorer.Score(context.Background(), strongResume, sampleJD)
	second := scorer.Score(context.Background(), strongResume, sampleJD)
	assert.Equal(t, first, second)
}

func TestKeywordCacheLRU(t *testing.T) {
	cache := NewKeywordCache(2)
	cache.Put("a", JDKeywords{MustHave: []string{"one"}})
	cache.Put("b", JDKeywords{MustHave: []string{"two"}})

	// Touch "a" so "b" is the eviction candidate.
	_, ok := cache.Get("a")
	require.True(t, ok)

	cache.Put("c", JDKeywords{MustHave: []string{"three"}})
	assert.Equal(t, 2, cache.Len())

	_, ok = cache.Get("b")
	assert.False(t, ok)
	_, ok = cache.Get("a")
	assert.True(t, ok)
	_, ok = cache.Get("c")
	assert.True(t, ok)
}

func TestJDRatingBands(t *testing.T) {
	// Full must-have coverage with a lexically disjoint JD isolates the
	// keyword component: blended = 0.6*1.0 = 60, the "Good" band floor.
	classifier := &stubClassifier{keywords: JDKeywords{MustHave: []string{"python"}}}
	s := NewJDScorer(classifier, nil, nil)

	result := s.Score(context.Background(), "python", "kubernetes experience required")
	assert.Equal(t, 60, result.Score)
	assert.Equal(t, "Good", result.Rating)

	// No coverage at all bottoms out in the lowest band.
	empty := s.Score(context.Background(), "", "kubernetes experience required")
	assert.Equal(t, "Needs Work", empty.Rating)
}

type stubBatchEmbedder struct {
	vecs       [][]float32
	batchCalls int
	embedCalls int
}

func (s *stubBatchEmbedder) Embed(context.Context, string) ([]float32, error) {
	s.embedCalls++
	return nil, fmt.Errorf("single embed should not be used when batching is available")
}

func (s *stubBatchEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.batchCalls++
	if len(texts) != 2 {
		return nil, fmt.Errorf("expected 2 texts, got %d", len(texts))
	}
	return s.vecs, nil
}

func TestJDScorerPrefersBatchEmbedding(t *testing.T) {
	embedder := &stubBatchEmbedder{vecs: [][]float32{{1, 0}, {1, 0}}}
	scorer := NewJDScorer(nil, embedder, nil)

	// Lexically disjoint texts leave only the semantic component:
	// identical vectors give cosine 1.0, so blended = 0.15*100.
	result := scorer.Score(context.Background(), "golang", "astronomy")

	assert.Equal(t, 1, embedder.batchCalls)
	assert.Zero(t, embedder.embedCalls)
	assert.Equal(t, 15, result.Score)
}
