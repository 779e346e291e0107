package latex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `\documentclass{article}
\usepackage{hyperref}
\begin{document}
John Doe \\
john@example.com | (555) 123-4567
\section*{Summary}
Senior software engineer with 8 years experience.
\section*{Experience}
\begin{itemize}
\item Led a team of 5 engineers
\item Built a data pipeline
\end{itemize}
\subsection*{Earlier Roles}
Junior developer at Acme Corp.
\section*{Education}
B.S. Computer Science
\end{document}`

func TestParse(t *testing.T) {
	sections := Parse(sampleResume)
	require.Len(t, sections, 5)

	assert.Equal(t, HeaderSectionName, sections[0].Name)
	assert.Equal(t, KindHeader, sections[0].Kind)
	assert.Equal(t, "Summary", sections[1].Name)
	assert.Equal(t, KindSection, sections[1].Kind)
	assert.Equal(t, "Experience", sections[2].Name)
	assert.Equal(t, "Earlier Roles", sections[3].Name)
	assert.Equal(t, KindSubsection, sections[3].Kind)
	assert.Equal(t, "Education", sections[4].Name)

	// A subsection terminates the enclosing section's span.
	assert.NotContains(t, sections[2].Content, "Earlier Roles")
	assert.Contains(t, sections[2].Content, `\item Led a team`)
}

func TestParseBoundaryOrdering(t *testing.T) {
	sections := Parse(sampleResume)

	// Sections are in document order, non-overlapping, and contiguous.
	for i := 1; i < len(sections); i++ {
		assert.Equal(t, sections[i-1].EndLine, sections[i].StartLine,
			"section %d should start where section %d ends", i, i-1)
	}
}

func TestParseCoverageInvariant(t *testing.T) {
	lines := strings.Split(sampleResume, "\n")
	sections := Parse(sampleResume)
	require.NotEmpty(t, sections)

	// Concatenating all spans reconstructs the document body exactly.
	var body []string
	for _, s := range sections {
		body = append(body, strings.Split(s.Content, "\n")...)
	}
	bodyStart := sections[0].StartLine - 1
	bodyEnd := sections[len(sections)-1].EndLine - 1
	assert.Equal(t, lines[bodyStart:bodyEnd], body)
}

func TestParseNoSections(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("just some text\nwith no commands"))
	assert.Empty(t, Parse("\\begin{document}\nplain body\n\\end{document}"))
}

func TestParseNoDocumentMarkers(t *testing.T) {
	source := "\\section{Skills}\nGo, Python"
	sections := Parse(source)
	require.Len(t, sections, 1)
	assert.Equal(t, "Skills", sections[0].Name)
	assert.Equal(t, 1, sections[0].StartLine)
	assert.Equal(t, "\\section{Skills}\nGo, Python", sections[0].Content)
}

func TestParseStarredAndCaseInsensitive(t *testing.T) {
	source := "\\Section*{Projects}\ncontent"
	sections := Parse(source)
	require.Len(t, sections, 1)
	assert.Equal(t, "Projects", sections[0].Name)
	assert.Equal(t, KindSection, sections[0].Kind)
}

func TestParseIndentedCommand(t *testing.T) {
	source := "  \\section{Skills}\nGo"
	sections := Parse(source)
	require.Len(t, sections, 1)
	assert.Equal(t, "Skills", sections[0].Name)
}

func TestReplaceSectionRoundTrip(t *testing.T) {
	// Replacing every section with its own content must return the
	// original document byte for byte.
	for _, s := range Parse(sampleResume) {
		got := ReplaceSection(sampleResume, s, s.Content)
		assert.Equal(t, sampleResume, got, "round trip failed for %q", s.Name)
	}
}

func TestReplaceSection(t *testing.T) {
	section, ok := SectionByName(sampleResume, "Education")
	require.True(t, ok)

	replacement := "\\section*{Education}\nM.S. Computer Science"
	got := ReplaceSection(sampleResume, section, replacement)

	assert.Contains(t, got, "M.S. Computer Science")
	assert.NotContains(t, got, "B.S. Computer Science")
	// Everything outside the replaced span is untouched.
	assert.Contains(t, got, "john@example.com")
	assert.Contains(t, got, `\item Built a data pipeline`)
	assert.Contains(t, got, `\end{document}`)
}

func TestReplaceSectionPreservesLinePosition(t *testing.T) {
	target, ok := SectionByName(sampleResume, "Summary")
	require.True(t, ok)

	replacement := "\\section*{Summary}\nStaff engineer."
	got := ReplaceSection(sampleResume, target, replacement)
	gotLines := strings.Split(got, "\n")
	assert.Equal(t, "\\section*{Summary}", gotLines[target.StartLine-1])
	assert.Equal(t, "Staff engineer.", gotLines[target.StartLine])
}

func TestSectionByName(t *testing.T) {
	s, ok := SectionByName(sampleResume, "experience")
	require.True(t, ok)
	assert.Equal(t, "Experience", s.Name)

	_, ok = SectionByName(sampleResume, "Publications")
	assert.False(t, ok)
}

func TestSectionNames(t *testing.T) {
	names := SectionNames(sampleResume)
	assert.Equal(t, []string{
		HeaderSectionName, "Summary", "Experience", "Earlier Roles", "Education",
	}, names)
}

func TestPreamble(t *testing.T) {
	preamble := Preamble(sampleResume)
	assert.Contains(t, preamble, `\documentclass{article}`)
	assert.NotContains(t, preamble, `\begin{document}`)
	assert.NotContains(t, preamble, "John Doe")
}

func TestPreview(t *testing.T) {
	s := Section{Content: "line one\nline two"}
	assert.Equal(t, "line one line two", s.Preview())

	long := Section{Content: strings.Repeat("x", 150)}
	assert.Len(t, long.Preview(), 103)
	assert.True(t, strings.HasSuffix(long.Preview(), "..."))
}

func TestParseDeterminism(t *testing.T) {
	first := Parse(sampleResume)
	for range 5 {
		assert.Equal(t, first, Parse(sampleResume))
	}
}
