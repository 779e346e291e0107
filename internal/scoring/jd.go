package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"resumelab/internal/errors"
)

// JDResult is the outcome of scoring a resume against a job description.
type JDResult struct {
	Score           int      `json:"score"`
	Rating          string   `json:"rating"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	Summary         string   `json:"summary"`
}

const (
	keywordWeight  = 0.6
	tfidfWeight    = 0.25
	semanticWeight = 0.15

	mustHaveWeight   = 3.0
	niceToHaveWeight = 1.5
	softSkillWeight  = 0.5

	// Embedding inputs are truncated so a long resume does not blow the
	// token budget; the opening text dominates similarity anyway.
	embeddingInputLimit = 1000

	keywordCacheSize = 256
)

// JDScorer blends weighted keyword matching, TF-IDF cosine similarity and
// embedding similarity into a single match score. The classifier and
// embedder are optional: scoring degrades to deterministic heuristics when
// either is missing or failing.
type JDScorer struct {
	classifier Classifier
	embedder   Embedder
	cache      *KeywordCache
	logger     *errors.Logger
}

// NewJDScorer creates a scorer. Either collaborator may be nil.
func NewJDScorer(classifier Classifier, embedder Embedder, logger *errors.Logger) *JDScorer {
	return &JDScorer{
		classifier: classifier,
		embedder:   embedder,
		cache:      NewKeywordCache(keywordCacheSize),
		logger:     logger,
	}
}

// Score computes the match between a resume and a job description. It never
// returns an error: collaborator failures downgrade individual components.
func (s *JDScorer) Score(ctx context.Context, resumeText, jobDescription string) JDResult {
	resumeTerms := extractTerms(resumeText)
	jdTerms := extractTerms(jobDescription)
	resumeTermSet := toSet(resumeTerms)

	var (
		keywordScore     float64
		matched, missing []string
		classified       bool
	)

	if s.classifier != nil {
		keywords := s.classifyKeywords(ctx, jobDescription)
		keywordScore = keywordMatchScore(resumeTermSet, keywords)
		matched, missing = matchMustHave(resumeTermSet, keywords.MustHave)
		classified = true
	} else {
		jdTermSet := toSet(jdTerms)
		matched, missing, keywordScore = simpleKeywordMatch(resumeTermSet, jdTermSet)
	}

	tfidfScore := tfidfSimilarity(resumeTerms, jdTerms)
	semanticScore := s.semanticSimilarity(ctx, resumeText, jobDescription)

	blended := (keywordWeight*keywordScore +
		tfidfWeight*tfidfScore +
		semanticWeight*semanticScore) * 100
	score := int(math.Round(math.Min(100, math.Max(0, blended))))

	var rating, summary string
	switch {
	case score >= 80:
		rating = "Excellent"
		summary = "Strong match! Your resume aligns well with this job."
	case score >= 60:
		rating = "Good"
		summary = "Good match. Adding missing keywords could improve your score."
	case score >= 40:
		rating = "Fair"
		summary = "Partial match. Consider tailoring your resume more to this role."
	default:
		rating = "Needs Work"
		summary = "Low match. Your resume may not pass ATS for this job."
	}

	if classified {
		summary = fmt.Sprintf("%s Keyword match: %d%%, Semantic: %d%%, TF-IDF: %d%%",
			summary, int(keywordScore*100), int(semanticScore*100), int(tfidfScore*100))
	}

	return JDResult{
		Score:           score,
		Rating:          rating,
		MatchedKeywords: matched,
		MissingKeywords: missing,
		Summary:         summary,
	}
}

// classifyKeywords resolves JD keywords through the cache, the classifier,
// then the naive fallback, in that order. Classification runs once per
// distinct job description.
func (s *JDScorer) classifyKeywords(ctx context.Context, jobDescription string) JDKeywords {
	key := hashJobDescription(jobDescription)
	if keywords, ok := s.cache.Get(key); ok {
		return keywords
	}

	keywords, err := s.classifier.Classify(ctx, jobDescription)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Keyword classification failed, using naive extraction",
				"error", err.Error())
		}
		keywords = fallbackKeywords(jobDescription)
	} else {
		keywords.MustHave = capKeywords(keywords.MustHave, maxMustHave)
		keywords.NiceToHave = capKeywords(keywords.NiceToHave, maxNiceToHave)
		keywords.SoftSkills = capKeywords(keywords.SoftSkills, maxSoftSkills)
	}

	s.cache.Put(key, keywords)
	return keywords
}

func (s *JDScorer) semanticSimilarity(ctx context.Context, resumeText, jobDescription string) float64 {
	if s.embedder == nil {
		return 0
	}

	resumeInput := truncateRunes(cleanText(resumeText), embeddingInputLimit)
	jdInput := truncateRunes(cleanText(jobDescription), embeddingInputLimit)

	if batcher, ok := s.embedder.(BatchEmbedder); ok {
		vecs, err := batcher.EmbedBatch(ctx, []string{resumeInput, jdInput})
		if err != nil || len(vecs) != 2 {
			if s.logger != nil {
				s.logger.Warn("Batch embedding failed, skipping semantic similarity", "error", errString(err))
			}
			return 0
		}
		return clampUnit(cosineVectors(vecs[0], vecs[1]))
	}

	resumeVec, err := s.embedder.Embed(ctx, resumeInput)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Resume embedding failed, skipping semantic similarity", "error", err.Error())
		}
		return 0
	}
	jdVec, err := s.embedder.Embed(ctx, jdInput)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Job description embedding failed, skipping semantic similarity", "error", err.Error())
		}
		return 0
	}

	return clampUnit(cosineVectors(resumeVec, jdVec))
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func errString(err error) string {
	if err == nil {
		return "unexpected embedding count"
	}
	return err.Error()
}

// keywordMatchScore computes the weighted fraction of classified keywords the
// resume covers. A keyword counts as matched on an exact term hit or when it
// appears inside a longer resume term.
func keywordMatchScore(resumeTerms map[string]bool, keywords JDKeywords) float64 {
	var score, maxScore float64

	buckets := []struct {
		skills []string
		weight float64
	}{
		{keywords.MustHave, mustHaveWeight},
		{keywords.NiceToHave, niceToHaveWeight},
		{keywords.SoftSkills, softSkillWeight},
	}

	for _, bucket := range buckets {
		for _, skill := range bucket.skills {
			maxScore += bucket.weight
			if termSetContains(resumeTerms, strings.ToLower(skill)) {
				score += bucket.weight
			}
		}
	}

	if maxScore == 0 {
		return 1.0
	}
	return score / maxScore
}

func matchMustHave(resumeTerms map[string]bool, mustHave []string) (matched, missing []string) {
	for _, skill := range mustHave {
		if termSetContains(resumeTerms, strings.ToLower(skill)) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	matched = capKeywords(matched, 15)
	missing = capKeywords(missing, 10)
	return matched, missing
}

// simpleKeywordMatch is used when no classifier is configured: plain set
// intersection of extracted terms, longest terms reported first.
func simpleKeywordMatch(resumeTerms, jdTerms map[string]bool) (matched, missing []string, score float64) {
	for term := range jdTerms {
		if resumeTerms[term] {
			matched = append(matched, term)
		} else {
			missing = append(missing, term)
		}
	}
	sortByLengthDesc(matched)
	sortByLengthDesc(missing)

	if len(jdTerms) > 0 {
		matchedCount := len(matched)
		if matchedCount > 15 {
			matchedCount = 15
		}
		score = float64(matchedCount) / float64(len(jdTerms))
	}
	matched = capKeywords(matched, 15)
	missing = capKeywords(missing, 10)
	return matched, missing, score
}

func sortByLengthDesc(terms []string) {
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
}

func termSetContains(terms map[string]bool, skill string) bool {
	if terms[skill] {
		return true
	}
	for term := range terms {
		if strings.Contains(term, skill) {
			return true
		}
	}
	return false
}

func toSet(terms []string) map[string]bool {
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[t] = true
	}
	return set
}

// tfidfSimilarity computes cosine similarity of the two documents' TF-IDF
// vectors with smoothed IDF over the two-document corpus.
func tfidfSimilarity(resumeTerms, jdTerms []string) float64 {
	resumeSet := toSet(resumeTerms)
	jdSet := toSet(jdTerms)

	idf := make(map[string]float64, len(resumeSet)+len(jdSet))
	for term := range union(resumeSet, jdSet) {
		docCount := 0
		if resumeSet[term] {
			docCount++
		}
		if jdSet[term] {
			docCount++
		}
		idf[term] = math.Log(3/float64(docCount+1)) + 1
	}

	resumeTF := termFrequency(resumeTerms)
	jdTF := termFrequency(jdTerms)

	resumeVec := make(map[string]float64, len(resumeSet))
	for term := range resumeSet {
		resumeVec[term] = resumeTF[term] * idf[term]
	}
	jdVec := make(map[string]float64, len(jdSet))
	for term := range jdSet {
		jdVec[term] = jdTF[term] * idf[term]
	}

	return cosineMaps(resumeVec, jdVec)
}

func union(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

func termFrequency(terms []string) map[string]float64 {
	if len(terms) == 0 {
		return map[string]float64{}
	}
	counts := make(map[string]float64, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	total := float64(len(terms))
	for t := range counts {
		counts[t] /= total
	}
	return counts
}

func cosineMaps(vec1, vec2 map[string]float64) float64 {
	if len(vec1) == 0 || len(vec2) == 0 {
		return 0
	}

	var dot float64
	for k, v1 := range vec1 {
		if v2, ok := vec2[k]; ok {
			dot += v1 * v2
		}
	}
	if dot == 0 {
		return 0
	}

	var mag1, mag2 float64
	for _, v := range vec1 {
		mag1 += v * v
	}
	for _, v := range vec2 {
		mag2 += v * v
	}
	mag1 = math.Sqrt(mag1)
	mag2 = math.Sqrt(mag2)
	if mag1 == 0 || mag2 == 0 {
		return 0
	}
	return dot / (mag1 * mag2)
}

func cosineVectors(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
