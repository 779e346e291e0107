// Package session holds the mutable editing state for one resume document:
// current LaTeX source, bounded version history with undo/redo, chat
// messages, section selection, the persistent job description, and compile
// state. A Session is safe for concurrent use.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"resumelab/internal/errors"
	"resumelab/internal/latex"
	"resumelab/internal/types"
)

const (
	maxVersions     = 50
	maxChatMessages = 50
)

// Version is one entry in the undo history.
type Version struct {
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// Message is a chat entry, optionally tied to the section it was about.
type Message struct {
	Role           string `json:"role"`
	Content        string `json:"content"`
	SectionContext string `json:"sectionContext,omitempty"`
}

// Session is the per-document editing state.
type Session struct {
	mu sync.Mutex

	current      string
	versions     []Version
	versionIndex int

	selectedSection string
	selectedContent string

	chat           []Message
	jobDescription string

	needsRecompile   bool
	lastCompileError string
}

// New creates a session. A non-empty initial document is recorded as the
// first version.
func New(initial string) *Session {
	s := &Session{current: initial, versionIndex: -1, needsRecompile: true}
	if initial != "" {
		s.saveVersion(initial, "Initial template")
	}
	return s
}

// Current returns the current LaTeX source.
func (s *Session) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// DocumentHash returns the SHA-256 of the current source. Clients echo this
// back with section edits so stale edits are rejected.
func (s *Session) DocumentHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return hashDocument(s.current)
}

func hashDocument(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SetDocument replaces the source and records a version when the text
// actually changed.
func (s *Session) SetDocument(text, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if text == s.current {
		return
	}
	s.current = text
	s.needsRecompile = true
	s.saveVersion(text, description)
}

// saveVersion appends to history, discarding any redo tail. Callers hold mu
// (New is the exception, before the session escapes).
func (s *Session) saveVersion(text, description string) {
	if s.versionIndex >= 0 && s.versionIndex < len(s.versions)-1 {
		s.versions = s.versions[:s.versionIndex+1]
	}
	s.versions = append(s.versions, Version{
		Content:     text,
		Timestamp:   time.Now(),
		Description: description,
	})
	if len(s.versions) > maxVersions {
		s.versions = s.versions[len(s.versions)-maxVersions:]
	}
	s.versionIndex = len(s.versions) - 1
}

// Undo steps back one version. Returns false at the oldest version.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versionIndex <= 0 {
		return false
	}
	s.versionIndex--
	s.current = s.versions[s.versionIndex].Content
	s.needsRecompile = true
	return true
}

// Redo steps forward one version. Returns false at the newest version.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versionIndex >= len(s.versions)-1 {
		return false
	}
	s.versionIndex++
	s.current = s.versions[s.versionIndex].Content
	s.needsRecompile = true
	return true
}

func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versionIndex > 0
}

func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versionIndex < len(s.versions)-1
}

// VersionInfo returns the 1-indexed current position and the total count.
func (s *Session) VersionInfo() (current, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versionIndex + 1, len(s.versions)
}

// ApplySectionEdit splices new content into the named section. The edit is
// rejected when baseHash no longer matches the current document (another
// edit landed since the client read the section) or when the section no
// longer exists. The updated document is returned and recorded as a version.
func (s *Session) ApplySectionEdit(sectionName, baseHash, newContent string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if baseHash != "" && baseHash != hashDocument(s.current) {
		return "", errors.NewValidationError(errors.ErrCodeSectionStale,
			fmt.Sprintf("Document changed since section %q was read; re-read before editing", sectionName), nil)
	}

	section, ok := latex.SectionByName(s.current, sectionName)
	if !ok {
		return "", errors.NewValidationError(errors.ErrCodeSectionNotFound,
			fmt.Sprintf("Section %q not found in document", sectionName), nil)
	}

	updated := latex.ReplaceSection(s.current, section, newContent)
	s.current = updated
	s.needsRecompile = true
	s.saveVersion(updated, "Edited "+sectionName)
	return updated, nil
}

// NeedsRecompile reports whether the document changed since MarkCompiled.
func (s *Session) NeedsRecompile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.needsRecompile
}

// MarkCompiled records a successful compile of the current source.
func (s *Session) MarkCompiled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.needsRecompile = false
	s.lastCompileError = ""
}

// SetCompileError records a failed compile. The recompile flag stays set so
// the next change triggers another attempt.
func (s *Session) SetCompileError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCompileError = msg
}

// LastCompileError returns the most recent compile failure, or "" after a
// successful compile.
func (s *Session) LastCompileError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCompileError
}

// SelectSection records the section the user is editing.
func (s *Session) SelectSection(name, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedSection = name
	s.selectedContent = content
}

// SelectedSection returns the current selection; both strings are empty when
// nothing is selected.
func (s *Session) SelectedSection() (name, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedSection, s.selectedContent
}

func (s *Session) ClearSelection() {
	s.SelectSection("", "")
}

// AddChatMessage appends to the chat log, keeping the most recent entries.
func (s *Session) AddChatMessage(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = append(s.chat, msg)
	if len(s.chat) > maxChatMessages {
		s.chat = s.chat[len(s.chat)-maxChatMessages:]
	}
}

// ChatMessages returns a copy of the chat log.
func (s *Session) ChatMessages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.chat))
	copy(out, s.chat)
	return out
}

func (s *Session) ClearChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = nil
}

// RecentChatContext returns the last n messages in the shape the AI
// operations accept.
func (s *Session) RecentChatContext(n int) []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := len(s.chat) - n
	if start < 0 {
		start = 0
	}
	recent := s.chat[start:]
	out := make([]types.ChatMessage, len(recent))
	for i, m := range recent {
		out[i] = types.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

// SetJobDescription stores the target job description. It persists across
// chat truncation so tailoring context is never silently lost.
func (s *Session) SetJobDescription(jd string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobDescription = jd
}

func (s *Session) JobDescription() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobDescription
}

func (s *Session) HasJobDescription() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.TrimSpace(s.jobDescription) != ""
}
