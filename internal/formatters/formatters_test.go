package formatters

import (
	"testing"

	"resumelab/internal/editor"
	"resumelab/internal/latex"
	"resumelab/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDispatchesPerType(t *testing.T) {
	registry := NewFormatterRegistry()

	universal := scoring.UniversalResult{Score: 72, Rating: "Good", Summary: "Solid resume."}
	out, err := registry.Format(universal, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "ATS COMPATIBILITY")
	assert.Contains(t, out, "72/100")

	human := scoring.HumanResult{Score: 65, Rating: "Good", Summary: "Reads well."}
	out, err = registry.Format(human, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "HUMAN IMPACT")

	jd := scoring.JDResult{
		Score:           80,
		Rating:          "Excellent Match",
		MatchedKeywords: []string{"go", "kubernetes"},
		MissingKeywords: []string{"terraform"},
		Summary:         "Strong match.",
	}
	out, err = registry.Format(jd, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "JOB MATCH")
	assert.Contains(t, out, "- kubernetes")
	assert.Contains(t, out, "Missing keywords:")
}

func TestRegistryJSONHandlesAnyType(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(scoring.JDResult{Score: 50, Rating: "Good Match"}, "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"score": 50`)

	// Unregistered types still work as JSON
	out, err = registry.Format(map[string]int{"n": 1}, "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"n": 1`)
}

func TestRegistryUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	_, err := registry.Format(scoring.UniversalResult{}, "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no formatter found")
}

func TestSectionListFormatting(t *testing.T) {
	registry := NewFormatterRegistry()

	document := "\\documentclass{article}\n\\begin{document}\n" +
		"\\section*{Experience}\nEngineer at Acme.\n" +
		"\\section*{Skills}\nGo, SQL.\n\\end{document}\n"
	sections := latex.Parse(document)
	require.NotEmpty(t, sections)

	out, err := registry.Format(sections, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "RESUME SECTIONS")
	assert.Contains(t, out, "Experience")
	assert.Contains(t, out, "Skills")

	md, err := registry.Format(sections, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "| Section |")
	assert.Contains(t, md, "## Skills")
}

func TestEditorResultFormatting(t *testing.T) {
	registry := NewFormatterRegistry()

	ok := editor.Result{Success: true, NewContent: "\\item Built things", Explanation: "Modified Skills section based on your request."}
	out, err := registry.Format(ok, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "EDITED CONTENT")
	assert.Contains(t, out, "\\item Built things")

	failed := editor.Result{Success: false, Error: "AI editing failed: timeout"}
	out, err = registry.Format(failed, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "EDIT FAILED")
	assert.Contains(t, out, "timeout")

	md, err := registry.Format(ok, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "```latex")
}
