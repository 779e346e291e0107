package editor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumelab/internal/ai"
	"resumelab/internal/latex"
	"resumelab/internal/types"
)

// stubProvider records the inputs it receives and returns canned output.
type stubProvider struct {
	editSectionInput  *types.EditSectionInput
	editDocumentInput *types.EditDocumentInput
	suggestInput      *types.SuggestInput
	content           string
	err               error
}

func (s *stubProvider) EditSection(_ context.Context, input types.EditSectionInput) (types.EditOutput, *ai.TokenUsage, error) {
	s.editSectionInput = &input
	return types.EditOutput{Content: s.content}, nil, s.err
}

func (s *stubProvider) EditDocument(_ context.Context, input types.EditDocumentInput) (types.EditOutput, *ai.TokenUsage, error) {
	s.editDocumentInput = &input
	return types.EditOutput{Content: s.content}, nil, s.err
}

func (s *stubProvider) SuggestImprovements(_ context.Context, input types.SuggestInput) (types.EditOutput, *ai.TokenUsage, error) {
	s.suggestInput = &input
	return types.EditOutput{Content: s.content}, nil, s.err
}

func (s *stubProvider) ClassifyKeywords(_ context.Context, _ types.ClassifyKeywordsInput) (types.ClassifyKeywordsOutput, *ai.TokenUsage, error) {
	return types.ClassifyKeywordsOutput{}, nil, s.err
}

func (s *stubProvider) GetModelInfo(_ context.Context) *ai.ModelInfo { return nil }

func (s *stubProvider) Close() error { return nil }

func TestEditSection(t *testing.T) {
	provider := &stubProvider{content: "\\section*{Skills}\nPython, Go"}
	e := New(provider, nil)

	result := e.EditSection(context.Background(), types.EditSectionInput{
		SectionName:    "Skills",
		SectionContent: "\\section*{Skills}\nPython",
		Instruction:    "add Go",
	})

	require.True(t, result.Success)
	assert.Equal(t, "\\section*{Skills}\nPython, Go", result.NewContent)
	assert.Equal(t, "Modified Skills section based on your request.", result.Explanation)
	assert.Empty(t, result.Error)
}

func TestEditSectionStripsCodeFences(t *testing.T) {
	provider := &stubProvider{content: "```latex\n\\section*{Skills}\nPython, Go\n```"}
	e := New(provider, nil)

	result := e.EditSection(context.Background(), types.EditSectionInput{SectionName: "Skills"})
	require.True(t, result.Success)
	assert.Equal(t, "\\section*{Skills}\nPython, Go", result.NewContent)
}

func TestEditSectionTruncatesHistory(t *testing.T) {
	provider := &stubProvider{content: "x"}
	e := New(provider, nil)

	history := make([]types.ChatMessage, 40)
	for i := range history {
		history[i] = types.ChatMessage{Role: "user", Content: fmt.Sprintf("message %d", i)}
	}

	e.EditSection(context.Background(), types.EditSectionInput{
		SectionName: "Skills",
		ChatHistory: history,
	})

	require.NotNil(t, provider.editSectionInput)
	require.Len(t, provider.editSectionInput.ChatHistory, maxHistoryMessages)
	assert.Equal(t, "message 25", provider.editSectionInput.ChatHistory[0].Content)
	assert.Equal(t, "message 39", provider.editSectionInput.ChatHistory[14].Content)
}

func TestEditSectionProviderError(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("model overloaded")}
	e := New(provider, nil)

	result := e.EditSection(context.Background(), types.EditSectionInput{SectionName: "Skills"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "AI editing failed")
	assert.Contains(t, result.Error, "model overloaded")
}

func TestEditorNotConfigured(t *testing.T) {
	e := New(nil, nil)
	assert.False(t, e.Configured())

	for _, result := range []Result{
		e.EditSection(context.Background(), types.EditSectionInput{}),
		e.EditDocument(context.Background(), types.EditDocumentInput{}),
		e.SuggestImprovements(context.Background(), types.SuggestInput{}),
	} {
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "not configured")
	}
}

func TestEditDocument(t *testing.T) {
	provider := &stubProvider{content: "\\documentclass{article}\n\\begin{document}\nupdated\n\\end{document}"}
	e := New(provider, nil)

	result := e.EditDocument(context.Background(), types.EditDocumentInput{
		Document:    "\\documentclass{article}\n\\begin{document}\noriginal\n\\end{document}",
		Instruction: "rewrite",
	})

	require.True(t, result.Success)
	assert.Contains(t, result.NewContent, "updated")
	assert.Equal(t, "Modified resume based on your request.", result.Explanation)
}

func TestSuggestImprovements(t *testing.T) {
	provider := &stubProvider{content: "1. Add metrics\n2. Use action verbs"}
	e := New(provider, nil)

	result := e.SuggestImprovements(context.Background(), types.SuggestInput{
		SectionName:    "Experience",
		SectionContent: "\\section*{Experience}\nWorked on things.",
	})

	require.True(t, result.Success)
	assert.Equal(t, "Suggestions for Experience", result.Explanation)
	assert.Contains(t, result.NewContent, "Add metrics")
}

// Editing a section and splicing the result back is the primary UI flow.
func TestEditSectionSpliceRoundTrip(t *testing.T) {
	document := `\documentclass{article}
\begin{document}
\section*{Summary}
Engineer.
\section*{Skills}
Python
\section*{Education}
B.S.
\end{document}`

	provider := &stubProvider{content: "\\section*{Skills}\nPython, Go"}
	e := New(provider, nil)

	skills, ok := latex.SectionByName(document, "Skills")
	require.True(t, ok)

	result := e.EditSection(context.Background(), types.EditSectionInput{
		SectionName:    skills.Name,
		SectionContent: skills.Content,
		Instruction:    "add Go",
	})
	require.True(t, result.Success)

	updated := latex.ReplaceSection(document, skills, result.NewContent)
	assert.Contains(t, updated, "Python, Go")
	assert.Contains(t, updated, `\section*{Summary}`)
	assert.Contains(t, updated, `\section*{Education}`)
}
