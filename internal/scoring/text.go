// Package scoring computes heuristic resume quality scores from raw LaTeX
// text: a universal ATS-compatibility score, a job-description match score,
// and a human first-impression score. All scorers degrade gracefully on
// malformed input; they never fail.
package scoring

import (
	"regexp"
	"strings"
)

var (
	commandWithArgPattern = regexp.MustCompile(`\\[a-zA-Z]+\{([^}]*)\}`)
	bareCommandPattern    = regexp.MustCompile(`\\[a-zA-Z]+\*?\s*`)
	braceBackslashPattern = regexp.MustCompile(`[{}\\]`)
	urlPattern            = regexp.MustCompile(`https?://\S+`)
	whitespacePattern     = regexp.MustCompile(`\s+`)

	mathPercentPattern    = regexp.MustCompile(`\$(\d+)\s*\\?%`)
	escapedPercentPattern = regexp.MustCompile(`(\d+)\s*\\%`)

	termPattern = regexp.MustCompile(`[a-z0-9]+(?:-[a-z0-9]+)*`)
)

// stopWords are filtered out of keyword extraction. Kept intentionally small;
// the TF-IDF vectors still include them.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true,
	"of": true, "with": true, "by": true, "from": true, "as": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "may": true, "might": true,
	"must": true, "can": true, "need": true,
	"our": true, "you": true, "your": true, "we": true, "they": true,
	"their": true, "this": true, "that": true, "it": true,
	"all": true, "any": true, "both": true, "each": true, "few": true,
	"more": true, "most": true, "other": true, "some": true,
	"such": true, "no": true, "not": true, "only": true, "same": true,
	"so": true, "than": true, "too": true, "very": true,
	"just": true, "also": true, "now": true, "here": true, "there": true,
	"when": true, "where": true, "why": true, "how": true,
	"what": true, "which": true, "who": true, "whom": true,
	"able": true, "about": true, "above": true, "across": true,
}

// cleanText strips LaTeX markup and URLs and normalizes whitespace. It works
// on LaTeX produced by PDF/DOCX conversion as well as hand-written sources.
func cleanText(text string) string {
	// Remove LaTeX commands but keep content: \command{content} -> content
	text = commandWithArgPattern.ReplaceAllString(text, "$1")
	text = bareCommandPattern.ReplaceAllString(text, " ")
	text = braceBackslashPattern.ReplaceAllString(text, " ")
	text = urlPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// cleanTermText is cleanText plus ampersand expansion, used for keyword
// extraction so phrases like "C & data" keep their connective meaning.
func cleanTermText(text string) string {
	text = commandWithArgPattern.ReplaceAllString(text, "$1")
	text = bareCommandPattern.ReplaceAllString(text, " ")
	text = braceBackslashPattern.ReplaceAllString(text, " ")
	text = urlPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&", " and ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// normalizePercents converts LaTeX math-mode and escaped percent signs to
// plain form: $60\%$ and 60\% both become 60%.
func normalizePercents(text string) string {
	text = mathPercentPattern.ReplaceAllString(text, "${1}%")
	return escapedPercentPattern.ReplaceAllString(text, "${1}%")
}

// extractTerms extracts lowercase words and adjacent-word bigrams, excluding
// stop words and very short tokens. Hyphenated terms like "hands-on" are
// kept intact.
func extractTerms(text string) []string {
	text = cleanTermText(text)

	words := termPattern.FindAllString(text, -1)

	valid := make([]string, 0, len(words))
	for _, w := range words {
		if !stopWords[w] && len(w) > 2 {
			valid = append(valid, w)
		}
	}

	terms := make([]string, 0, len(valid)*2)
	terms = append(terms, valid...)
	for i := 0; i+1 < len(valid); i++ {
		terms = append(terms, valid[i]+" "+valid[i+1])
	}

	return terms
}

// truncateRunes bounds text to at most n runes.
func truncateRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
