package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumelab/internal/errors"
)

const sampleDoc = `\documentclass{article}
\begin{document}
\section*{Summary}
Engineer.
\section*{Skills}
Python
\end{document}`

func TestNewSessionRecordsInitialVersion(t *testing.T) {
	s := New(sampleDoc)
	current, total := s.VersionInfo()
	assert.Equal(t, 1, current)
	assert.Equal(t, 1, total)
	assert.Equal(t, sampleDoc, s.Current())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestNewEmptySession(t *testing.T) {
	s := New("")
	_, total := s.VersionInfo()
	assert.Zero(t, total)
	assert.Empty(t, s.Current())
}

func TestSetDocumentAndUndoRedo(t *testing.T) {
	s := New("v1")
	s.SetDocument("v2", "second")
	s.SetDocument("v3", "third")

	assert.Equal(t, "v3", s.Current())
	require.True(t, s.Undo())
	assert.Equal(t, "v2", s.Current())
	require.True(t, s.Undo())
	assert.Equal(t, "v1", s.Current())
	assert.False(t, s.Undo())

	require.True(t, s.Redo())
	assert.Equal(t, "v2", s.Current())
	require.True(t, s.Redo())
	assert.Equal(t, "v3", s.Current())
	assert.False(t, s.Redo())
}

func TestSetDocumentUnchangedSkipsVersion(t *testing.T) {
	s := New("v1")
	s.SetDocument("v1", "no-op")
	_, total := s.VersionInfo()
	assert.Equal(t, 1, total)
}

func TestEditAfterUndoDropsRedoTail(t *testing.T) {
	s := New("v1")
	s.SetDocument("v2", "")
	s.SetDocument("v3", "")
	require.True(t, s.Undo())
	require.True(t, s.Undo())

	s.SetDocument("v4", "branch")
	assert.Equal(t, "v4", s.Current())
	assert.False(t, s.CanRedo())

	require.True(t, s.Undo())
	assert.Equal(t, "v1", s.Current())
}

func TestVersionHistoryBounded(t *testing.T) {
	s := New("v0")
	for i := 1; i <= 80; i++ {
		s.SetDocument(fmt.Sprintf("v%d", i), "")
	}
	_, total := s.VersionInfo()
	assert.Equal(t, 50, total)
	assert.Equal(t, "v80", s.Current())

	// Undo all the way down the bounded window.
	steps := 0
	for s.Undo() {
		steps++
	}
	assert.Equal(t, 49, steps)
	assert.Equal(t, "v31", s.Current())
}

func TestApplySectionEdit(t *testing.T) {
	s := New(sampleDoc)
	hash := s.DocumentHash()

	updated, err := s.ApplySectionEdit("Skills", hash, "\\section*{Skills}\nPython, Go")
	require.NoError(t, err)
	assert.Contains(t, updated, "Python, Go")
	assert.Equal(t, updated, s.Current())

	_, total := s.VersionInfo()
	assert.Equal(t, 2, total)
	require.True(t, s.Undo())
	assert.Equal(t, sampleDoc, s.Current())
}

func TestApplySectionEditStaleHash(t *testing.T) {
	s := New(sampleDoc)
	hash := s.DocumentHash()
	s.SetDocument(sampleDoc+"\n% trailing comment", "concurrent edit")

	_, err := s.ApplySectionEdit("Skills", hash, "\\section*{Skills}\nGo")
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeSectionStale, appErr.Code)
}

func TestApplySectionEditUnknownSection(t *testing.T) {
	s := New(sampleDoc)

	_, err := s.ApplySectionEdit("Publications", s.DocumentHash(), "content")
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeSectionNotFound, appErr.Code)
}

func TestApplySectionEditWithoutHashGuard(t *testing.T) {
	s := New(sampleDoc)
	_, err := s.ApplySectionEdit("Skills", "", "\\section*{Skills}\nGo")
	assert.NoError(t, err)
}

func TestSectionSelection(t *testing.T) {
	s := New(sampleDoc)
	s.SelectSection("Skills", "\\section*{Skills}\nPython")

	name, content := s.SelectedSection()
	assert.Equal(t, "Skills", name)
	assert.Contains(t, content, "Python")

	s.ClearSelection()
	name, content = s.SelectedSection()
	assert.Empty(t, name)
	assert.Empty(t, content)
}

func TestChatHistoryBounded(t *testing.T) {
	s := New(sampleDoc)
	for i := 0; i < 60; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		s.AddChatMessage(Message{Role: role, Content: fmt.Sprintf("message %d", i)})
	}

	messages := s.ChatMessages()
	require.Len(t, messages, 50)
	assert.Equal(t, "message 10", messages[0].Content)
	assert.Equal(t, "message 59", messages[49].Content)

	recent := s.RecentChatContext(10)
	require.Len(t, recent, 10)
	assert.Equal(t, "message 50", recent[0].Content)

	s.ClearChat()
	assert.Empty(t, s.ChatMessages())
}

func TestJobDescriptionPersists(t *testing.T) {
	s := New(sampleDoc)
	assert.False(t, s.HasJobDescription())

	s.SetJobDescription("Senior Backend Engineer role")
	assert.True(t, s.HasJobDescription())
	assert.Equal(t, "Senior Backend Engineer role", s.JobDescription())

	// Chat truncation never touches the job description.
	for i := 0; i < 120; i++ {
		s.AddChatMessage(Message{Role: "user", Content: "m"})
	}
	assert.True(t, s.HasJobDescription())

	s.SetJobDescription("   ")
	assert.False(t, s.HasJobDescription())
}

func TestDocumentHashChangesWithContent(t *testing.T) {
	s := New(sampleDoc)
	before := s.DocumentHash()
	s.SetDocument(sampleDoc+"\nextra", "")
	assert.NotEqual(t, before, s.DocumentHash())
}

func TestCompileStateTracking(t *testing.T) {
	s := New(sampleDoc)
	assert.True(t, s.NeedsRecompile())

	s.MarkCompiled()
	assert.False(t, s.NeedsRecompile())
	assert.Empty(t, s.LastCompileError())

	s.SetDocument(sampleDoc+"\nextra", "edit")
	assert.True(t, s.NeedsRecompile())

	s.SetCompileError("Undefined control sequence")
	assert.True(t, s.NeedsRecompile())
	assert.Equal(t, "Undefined control sequence", s.LastCompileError())

	s.MarkCompiled()
	assert.Empty(t, s.LastCompileError())

	s.Undo()
	assert.True(t, s.NeedsRecompile())
}
