package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"command with argument", `\textbf{Python} developer`, "python developer"},
		{"bare command", `\noindent some text`, "some text"},
		{"url removed", `see https://example.com/profile for details`, "see for details"},
		{"braces stripped", `{nested {braces}} here`, "nested braces here"},
		{"whitespace collapsed", "multiple   \n\t spaces", "multiple spaces"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanText(tt.input))
		})
	}
}

func TestCleanTermTextExpandsAmpersand(t *testing.T) {
	assert.Equal(t, "research and development", cleanTermText("Research & Development"))
}

func TestNormalizePercents(t *testing.T) {
	assert.Contains(t, normalizePercents(`improved by $60\%$`), "60%")
	assert.Contains(t, normalizePercents(`reduced costs 40\%`), "40%")
	assert.Equal(t, "plain 25%", normalizePercents("plain 25%"))
}

func TestExtractTerms(t *testing.T) {
	terms := extractTerms("Senior Python Developer with the Go")

	// Stop words and short tokens are dropped; bigrams come from the
	// filtered word list.
	assert.Equal(t, []string{
		"senior", "python", "developer",
		"senior python", "python developer",
	}, terms)
}

func TestExtractTermsHyphenated(t *testing.T) {
	terms := extractTerms("hands-on experience")
	assert.Contains(t, terms, "hands-on")
	assert.Contains(t, terms, "hands-on experience")
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abcdef", 3))
	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "héł", truncateRunes("héłło", 3))
}
