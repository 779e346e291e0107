// Package editor applies AI-assisted edits to LaTeX resumes: rewriting one
// section, rewriting the whole document, or suggesting improvements. Failures
// are reported in-band through Result so callers can render them to users
// without unwrapping error chains.
package editor

import (
	"context"
	"fmt"

	"resumelab/internal/ai"
	"resumelab/internal/errors"
	"resumelab/internal/types"
	"resumelab/internal/utils"
)

// maxHistoryMessages bounds how much chat context travels with each request.
const maxHistoryMessages = 15

// Result is the outcome of an edit or suggestion operation.
type Result struct {
	Success     bool   `json:"success"`
	NewContent  string `json:"newContent"`
	Explanation string `json:"explanation"`
	Error       string `json:"error,omitempty"`
}

// Editor coordinates AI edit operations against a provider.
type Editor struct {
	provider ai.AIProvider
	logger   *errors.Logger
}

// New creates an Editor. The provider may be nil when no AI credential is
// configured; operations then fail with a configuration message instead of
// panicking.
func New(provider ai.AIProvider, logger *errors.Logger) *Editor {
	return &Editor{provider: provider, logger: logger}
}

// Configured reports whether an AI provider is available.
func (e *Editor) Configured() bool {
	return e.provider != nil
}

// EditSection rewrites a single section according to the instruction. The
// job description, when present, steers the rewrite toward the role.
func (e *Editor) EditSection(ctx context.Context, input types.EditSectionInput) Result {
	if e.provider == nil {
		return notConfiguredResult()
	}

	input.ChatHistory = truncateHistory(input.ChatHistory)

	output, usage, err := e.provider.EditSection(ctx, input)
	if err != nil {
		e.logFailure("edit_section", err)
		return Result{Success: false, Error: "AI editing failed: " + err.Error()}
	}
	e.logUsage("edit_section", usage)

	return Result{
		Success:     true,
		NewContent:  utils.StripCodeFences(output.Content),
		Explanation: fmt.Sprintf("Modified %s section based on your request.", input.SectionName),
	}
}

// EditDocument rewrites the complete LaTeX document, preamble included.
func (e *Editor) EditDocument(ctx context.Context, input types.EditDocumentInput) Result {
	if e.provider == nil {
		return notConfiguredResult()
	}

	input.ChatHistory = truncateHistory(input.ChatHistory)

	output, usage, err := e.provider.EditDocument(ctx, input)
	if err != nil {
		e.logFailure("edit_document", err)
		return Result{Success: false, Error: "AI editing failed: " + err.Error()}
	}
	e.logUsage("edit_document", usage)

	return Result{
		Success:     true,
		NewContent:  utils.StripCodeFences(output.Content),
		Explanation: "Modified resume based on your request.",
	}
}

// SuggestImprovements returns actionable suggestions for a section without
// changing it. NewContent carries the suggestion text.
func (e *Editor) SuggestImprovements(ctx context.Context, input types.SuggestInput) Result {
	if e.provider == nil {
		return notConfiguredResult()
	}

	output, usage, err := e.provider.SuggestImprovements(ctx, input)
	if err != nil {
		e.logFailure("suggest", err)
		return Result{Success: false, Error: "Failed to get suggestions: " + err.Error()}
	}
	e.logUsage("suggest", usage)

	return Result{
		Success:     true,
		NewContent:  utils.StripCodeFences(output.Content),
		Explanation: "Suggestions for " + input.SectionName,
	}
}

func notConfiguredResult() Result {
	return Result{
		Success: false,
		Error:   "AI provider not configured. Set the GEMINI_API_KEY environment variable or ai.apiKey in the configuration.",
	}
}

func truncateHistory(history []types.ChatMessage) []types.ChatMessage {
	if len(history) > maxHistoryMessages {
		return history[len(history)-maxHistoryMessages:]
	}
	return history
}

func (e *Editor) logFailure(operation string, err error) {
	if e.logger != nil {
		e.logger.LogError(err, "AI edit operation failed", "operation", operation)
	}
}

func (e *Editor) logUsage(operation string, usage *ai.TokenUsage) {
	if e.logger == nil || usage == nil {
		return
	}
	e.logger.Debug("AI edit operation completed",
		"operation", operation,
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
		"total_tokens", usage.TotalTokens)
}
