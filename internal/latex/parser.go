// Package latex splits resume-shaped LaTeX documents into line-addressed
// sections and splices edited content back in. It is not a general LaTeX
// parser: only \section and \subsection commands (starred or not) are
// recognized as boundaries.
package latex

import (
	"fmt"
	"regexp"
	"strings"
)

// HeaderSectionName is the synthetic name given to content that appears
// before the first recognized section command.
const HeaderSectionName = "Header / Contact Info"

// SectionKind identifies what produced a section boundary.
type SectionKind string

const (
	KindHeader     SectionKind = "header"
	KindSection    SectionKind = "section"
	KindSubsection SectionKind = "subsection"
)

// Section is a contiguous span of the document. StartLine and EndLine form a
// 1-indexed, inclusive-exclusive half-open range over the original document's
// lines. Sections are value objects re-derived on every Parse call; they hold
// no identity across edits.
type Section struct {
	Name      string      `json:"name"`
	Kind      SectionKind `json:"kind"`
	StartLine int         `json:"startLine"`
	EndLine   int         `json:"endLine"`
	Content   string      `json:"content"`
}

// LineRange returns a human-readable line range for display.
func (s Section) LineRange() string {
	return fmt.Sprintf("Lines %d-%d", s.StartLine, s.EndLine)
}

// Preview returns the first 100 characters of the section content with
// newlines collapsed.
func (s Section) Preview() string {
	clean := strings.TrimSpace(strings.ReplaceAll(s.Content, "\n", " "))
	if len(clean) > 100 {
		return clean[:100] + "..."
	}
	return clean
}

var sectionPattern = regexp.MustCompile(`(?i)^\\(section|subsection)\*?\{([^}]+)\}`)

const (
	beginDocument = `\begin{document}`
	endDocument   = `\end{document}`
)

type boundary struct {
	line int // 0-indexed
	kind SectionKind
	name string
}

// Parse extracts all sections from a LaTeX source. Content between
// \begin{document} and \end{document} is scanned (the whole text when the
// markers are absent). A document with no section commands yields an empty
// slice, never an error.
func Parse(source string) []Section {
	lines := strings.Split(source, "\n")

	docStart := 0
	for i, line := range lines {
		if strings.Contains(line, beginDocument) {
			docStart = i + 1
			break
		}
	}
	docEnd := len(lines)
	for i, line := range lines {
		if strings.Contains(line, endDocument) {
			docEnd = i
			break
		}
	}

	// Boundaries of both kinds go into one flat list: a \subsection
	// terminates its enclosing \section's span just like a sibling would.
	var boundaries []boundary
	for i := docStart; i < docEnd; i++ {
		m := sectionPattern.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			continue
		}
		kind := KindSection
		if strings.ToLower(m[1]) == "subsection" {
			kind = KindSubsection
		}
		boundaries = append(boundaries, boundary{line: i, kind: kind, name: m[2]})
	}

	var sections []Section
	if len(boundaries) > 0 && boundaries[0].line > docStart {
		headerContent := strings.Join(lines[docStart:boundaries[0].line], "\n")
		if strings.TrimSpace(headerContent) != "" {
			sections = append(sections, Section{
				Name:      HeaderSectionName,
				Kind:      KindHeader,
				StartLine: docStart + 1,
				EndLine:   boundaries[0].line + 1,
				Content:   headerContent,
			})
		}
	}

	for idx, b := range boundaries {
		end := docEnd
		if idx+1 < len(boundaries) {
			end = boundaries[idx+1].line
		}
		sections = append(sections, Section{
			Name:      b.name,
			Kind:      b.kind,
			StartLine: b.line + 1,
			EndLine:   end + 1,
			Content:   strings.Join(lines[b.line:end], "\n"),
		})
	}

	return sections
}

// SectionByName finds a section by its display name, case-insensitively.
// Returns false when no section matches.
func SectionByName(source, name string) (Section, bool) {
	lower := strings.ToLower(name)
	for _, s := range Parse(source) {
		if strings.ToLower(s.Name) == lower {
			return s, true
		}
	}
	return Section{}, false
}

// SectionNames returns the display names of all sections in document order.
func SectionNames(source string) []string {
	sections := Parse(source)
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name
	}
	return names
}

// ReplaceSection splices newContent into source over the section's line
// range. The section must have been derived from this exact source: line
// offsets are only valid against the text that produced them, and a stale
// section silently corrupts the document. Callers that edit repeatedly must
// re-parse and relocate by name between edits (the session layer does this
// and additionally verifies the document hash).
func ReplaceSection(source string, section Section, newContent string) string {
	lines := strings.Split(source, "\n")

	before := lines[:section.StartLine-1]
	after := lines[section.EndLine-1:]

	result := make([]string, 0, len(before)+len(after)+1)
	result = append(result, before...)
	result = append(result, strings.Split(newContent, "\n")...)
	result = append(result, after...)

	return strings.Join(result, "\n")
}

// Preamble returns everything before \begin{document}.
func Preamble(source string) string {
	var preamble []string
	for _, line := range strings.Split(source, "\n") {
		if strings.Contains(line, beginDocument) {
			break
		}
		preamble = append(preamble, line)
	}
	return strings.Join(preamble, "\n")
}
