package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumelab/internal/editor"
	"resumelab/internal/latex"
	"resumelab/internal/scoring"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "SectionList", &SectionsTextFormatter{})
	registry.RegisterFormatter("markdown", "SectionList", &SectionsMarkdownFormatter{})
	registry.RegisterFormatter("text", "EditorResult", &EditTextFormatter{})
	registry.RegisterFormatter("markdown", "EditorResult", &EditMarkdownFormatter{})
	registry.RegisterFormatter("text", "UniversalResult", &UniversalScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "UniversalResult", &UniversalScoreMarkdownFormatter{})
	registry.RegisterFormatter("text", "JDResult", &JDScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "JDResult", &JDScoreMarkdownFormatter{})
	registry.RegisterFormatter("text", "HumanResult", &HumanScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "HumanResult", &HumanScoreMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case []latex.Section:
		return "SectionList"
	case editor.Result:
		return "EditorResult"
	case scoring.UniversalResult:
		return "UniversalResult"
	case scoring.JDResult:
		return "JDResult"
	case scoring.HumanResult:
		return "HumanResult"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// SectionsTextFormatter handles text formatting for parsed section lists
type SectionsTextFormatter struct{}

func (stf *SectionsTextFormatter) Format(data any) (string, error) {
	sections, ok := data.([]latex.Section)
	if !ok {
		return "", fmt.Errorf("expected []latex.Section, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME SECTIONS ===\n\n")
	if len(sections) == 0 {
		output.WriteString("No sections found.\n")
		return output.String(), nil
	}

	for i, section := range sections {
		output.WriteString(fmt.Sprintf("%d. %s (%s, lines %s)\n", i+1, section.Name, section.Kind, section.LineRange()))
		output.WriteString("   ")
		output.WriteString(section.Preview())
		output.WriteString("\n\n")
	}

	return output.String(), nil
}

func (stf *SectionsTextFormatter) SupportedType() string {
	return "SectionList"
}

// SectionsMarkdownFormatter handles markdown formatting for parsed section lists
type SectionsMarkdownFormatter struct{}

func (smf *SectionsMarkdownFormatter) Format(data any) (string, error) {
	sections, ok := data.([]latex.Section)
	if !ok {
		return "", fmt.Errorf("expected []latex.Section, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Sections\n\n")
	if len(sections) == 0 {
		output.WriteString("No sections found.\n")
		return output.String(), nil
	}

	output.WriteString("| # | Section | Kind | Lines |\n")
	output.WriteString("|---|---------|------|-------|\n")
	for i, section := range sections {
		output.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n", i+1, section.Name, section.Kind, section.LineRange()))
	}
	output.WriteString("\n")

	for _, section := range sections {
		output.WriteString(fmt.Sprintf("## %s\n\n", section.Name))
		output.WriteString(section.Preview())
		output.WriteString("\n\n")
	}

	return output.String(), nil
}

func (smf *SectionsMarkdownFormatter) SupportedType() string {
	return "SectionList"
}

// EditTextFormatter handles text formatting for edit results
type EditTextFormatter struct{}

func (etf *EditTextFormatter) Format(data any) (string, error) {
	result, ok := data.(editor.Result)
	if !ok {
		return "", fmt.Errorf("expected editor.Result, got %T", data)
	}

	var output strings.Builder

	if !result.Success {
		output.WriteString("=== EDIT FAILED ===\n\n")
		output.WriteString(result.Error)
		output.WriteString("\n")
		return output.String(), nil
	}

	output.WriteString("=== EDITED CONTENT ===\n\n")
	output.WriteString(result.NewContent)
	output.WriteString("\n\n")
	output.WriteString("=== EXPLANATION ===\n")
	output.WriteString(result.Explanation)
	output.WriteString("\n")

	return output.String(), nil
}

func (etf *EditTextFormatter) SupportedType() string {
	return "EditorResult"
}

// EditMarkdownFormatter handles markdown formatting for edit results
type EditMarkdownFormatter struct{}

func (emf *EditMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(editor.Result)
	if !ok {
		return "", fmt.Errorf("expected editor.Result, got %T", data)
	}

	var output strings.Builder

	if !result.Success {
		output.WriteString("# Edit Failed\n\n")
		output.WriteString(result.Error)
		output.WriteString("\n")
		return output.String(), nil
	}

	output.WriteString("# Edited Content\n\n")
	output.WriteString("```latex\n")
	output.WriteString(result.NewContent)
	output.WriteString("\n```\n\n")
	output.WriteString("## Explanation\n\n")
	output.WriteString(result.Explanation)
	output.WriteString("\n")

	return output.String(), nil
}

func (emf *EditMarkdownFormatter) SupportedType() string {
	return "EditorResult"
}

// UniversalScoreTextFormatter handles text formatting for ATS score results
type UniversalScoreTextFormatter struct{}

func (utf *UniversalScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(scoring.UniversalResult)
	if !ok {
		return "", fmt.Errorf("expected scoring.UniversalResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS COMPATIBILITY ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %d/100 (%s)\n\n", result.Score, result.Rating))
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	output.WriteString("=== COMPONENT SCORES ===\n")
	output.WriteString(fmt.Sprintf("Sections:     %d/100\n", result.SectionScore))
	output.WriteString(fmt.Sprintf("Metrics:      %d/100 (%d found)\n", result.MetricsScore, result.MetricsCount))
	output.WriteString(fmt.Sprintf("Action verbs: %d/100 (%d found)\n", result.ActionVerbsScore, result.ActionVerbsCount))
	output.WriteString(fmt.Sprintf("Structure:    %d/100 (%d words)\n", result.StructureScore, result.WordCount))
	output.WriteString(fmt.Sprintf("Design:       %d/100\n\n", result.DesignScore))

	if len(result.FoundSections) > 0 {
		output.WriteString("Found sections:\n")
		for _, section := range result.FoundSections {
			output.WriteString(fmt.Sprintf("- %s\n", section))
		}
		output.WriteString("\n")
	}
	if len(result.MissingSections) > 0 {
		output.WriteString("Missing sections:\n")
		for _, section := range result.MissingSections {
			output.WriteString(fmt.Sprintf("- %s\n", section))
		}
		output.WriteString("\n")
	}
	if len(result.DesignIssues) > 0 {
		output.WriteString("Design issues:\n")
		for _, issue := range result.DesignIssues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}
	if len(result.Recommendations) > 0 {
		output.WriteString("=== RECOMMENDATIONS ===\n")
		for i, recommendation := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
		}
	}

	return output.String(), nil
}

func (utf *UniversalScoreTextFormatter) SupportedType() string {
	return "UniversalResult"
}

// UniversalScoreMarkdownFormatter handles markdown formatting for ATS score results
type UniversalScoreMarkdownFormatter struct{}

func (umf *UniversalScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(scoring.UniversalResult)
	if !ok {
		return "", fmt.Errorf("expected scoring.UniversalResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Compatibility\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100 (%s)\n\n", result.Score, result.Rating))
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	output.WriteString("## Component Scores\n\n")
	output.WriteString("| Component | Score |\n")
	output.WriteString("|-----------|-------|\n")
	output.WriteString(fmt.Sprintf("| Sections | %d/100 |\n", result.SectionScore))
	output.WriteString(fmt.Sprintf("| Metrics (%d found) | %d/100 |\n", result.MetricsCount, result.MetricsScore))
	output.WriteString(fmt.Sprintf("| Action verbs (%d found) | %d/100 |\n", result.ActionVerbsCount, result.ActionVerbsScore))
	output.WriteString(fmt.Sprintf("| Structure (%d words) | %d/100 |\n", result.WordCount, result.StructureScore))
	output.WriteString(fmt.Sprintf("| Design | %d/100 |\n\n", result.DesignScore))

	if len(result.MissingSections) > 0 {
		output.WriteString("## Missing Sections\n\n")
		for _, section := range result.MissingSections {
			output.WriteString(fmt.Sprintf("- %s\n", section))
		}
		output.WriteString("\n")
	}
	if len(result.DesignIssues) > 0 {
		output.WriteString("## Design Issues\n\n")
		for _, issue := range result.DesignIssues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}
	if len(result.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		for i, recommendation := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
		}
	}

	return output.String(), nil
}

func (umf *UniversalScoreMarkdownFormatter) SupportedType() string {
	return "UniversalResult"
}

// JDScoreTextFormatter handles text formatting for job-description match results
type JDScoreTextFormatter struct{}

func (jtf *JDScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(scoring.JDResult)
	if !ok {
		return "", fmt.Errorf("expected scoring.JDResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB MATCH ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %d/100 (%s)\n\n", result.Score, result.Rating))
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	if len(result.MatchedKeywords) > 0 {
		output.WriteString("Matched keywords:\n")
		for _, keyword := range result.MatchedKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
		output.WriteString("\n")
	}
	if len(result.MissingKeywords) > 0 {
		output.WriteString("Missing keywords:\n")
		for _, keyword := range result.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
	}

	return output.String(), nil
}

func (jtf *JDScoreTextFormatter) SupportedType() string {
	return "JDResult"
}

// JDScoreMarkdownFormatter handles markdown formatting for job-description match results
type JDScoreMarkdownFormatter struct{}

func (jmf *JDScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(scoring.JDResult)
	if !ok {
		return "", fmt.Errorf("expected scoring.JDResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Match\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100 (%s)\n\n", result.Score, result.Rating))
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	if len(result.MatchedKeywords) > 0 {
		output.WriteString("## Matched Keywords\n\n")
		for _, keyword := range result.MatchedKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
		output.WriteString("\n")
	}
	if len(result.MissingKeywords) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		for _, keyword := range result.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
	}

	return output.String(), nil
}

func (jmf *JDScoreMarkdownFormatter) SupportedType() string {
	return "JDResult"
}

// HumanScoreTextFormatter handles text formatting for human impact results
type HumanScoreTextFormatter struct{}

func (htf *HumanScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(scoring.HumanResult)
	if !ok {
		return "", fmt.Errorf("expected scoring.HumanResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== HUMAN IMPACT ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %d/100 (%s)\n\n", result.Score, result.Rating))
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	output.WriteString("=== COMPONENT SCORES ===\n")
	output.WriteString(fmt.Sprintf("First impression: %d/100\n", result.FirstImpressionScore))
	output.WriteString(fmt.Sprintf("Scannability:     %d/100\n", result.ScannabilityScore))
	output.WriteString(fmt.Sprintf("Impact numbers:   %d/100\n", result.ImpactNumbersScore))
	output.WriteString(fmt.Sprintf("Credibility:      %d/100\n", result.CredibilityScore))
	output.WriteString(fmt.Sprintf("Clarity:          %d/100\n\n", result.ClarityScore))

	if len(result.WhatRecruiterSees) > 0 {
		output.WriteString("What a recruiter sees:\n")
		for _, standout := range result.WhatRecruiterSees {
			output.WriteString(fmt.Sprintf("- %s\n", standout))
		}
		output.WriteString("\n")
	}
	if len(result.Recommendations) > 0 {
		output.WriteString("=== RECOMMENDATIONS ===\n")
		for i, recommendation := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
		}
	}

	return output.String(), nil
}

func (htf *HumanScoreTextFormatter) SupportedType() string {
	return "HumanResult"
}

// HumanScoreMarkdownFormatter handles markdown formatting for human impact results
type HumanScoreMarkdownFormatter struct{}

func (hmf *HumanScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(scoring.HumanResult)
	if !ok {
		return "", fmt.Errorf("expected scoring.HumanResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Human Impact\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100 (%s)\n\n", result.Score, result.Rating))
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	output.WriteString("## Component Scores\n\n")
	output.WriteString("| Component | Score |\n")
	output.WriteString("|-----------|-------|\n")
	output.WriteString(fmt.Sprintf("| First impression | %d/100 |\n", result.FirstImpressionScore))
	output.WriteString(fmt.Sprintf("| Scannability | %d/100 |\n", result.ScannabilityScore))
	output.WriteString(fmt.Sprintf("| Impact numbers | %d/100 |\n", result.ImpactNumbersScore))
	output.WriteString(fmt.Sprintf("| Credibility | %d/100 |\n", result.CredibilityScore))
	output.WriteString(fmt.Sprintf("| Clarity | %d/100 |\n\n", result.ClarityScore))

	if len(result.WhatRecruiterSees) > 0 {
		output.WriteString("## What a Recruiter Sees\n\n")
		for _, standout := range result.WhatRecruiterSees {
			output.WriteString(fmt.Sprintf("- %s\n", standout))
		}
		output.WriteString("\n")
	}
	if len(result.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		for i, recommendation := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, recommendation))
		}
	}

	return output.String(), nil
}

func (hmf *HumanScoreMarkdownFormatter) SupportedType() string {
	return "HumanResult"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
