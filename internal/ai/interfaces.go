package ai

import (
	"context"

	"resumelab/internal/types"
)

// AIProvider interface for different AI implementations
// All methods now return token usage information - callers can ignore it if not needed
type AIProvider interface {
	EditSection(ctx context.Context, input types.EditSectionInput) (types.EditOutput, *TokenUsage, error)
	EditDocument(ctx context.Context, input types.EditDocumentInput) (types.EditOutput, *TokenUsage, error)
	SuggestImprovements(ctx context.Context, input types.SuggestInput) (types.EditOutput, *TokenUsage, error)
	ClassifyKeywords(ctx context.Context, input types.ClassifyKeywordsInput) (types.ClassifyKeywordsOutput, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// Embedder produces dense vector representations of text for semantic
// similarity scoring.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// PromptBuilder interface for building AI prompts
type PromptBuilder interface {
	BuildEditSectionPrompt(sectionName, sectionContent, instruction string) string
	BuildEditDocumentPrompt(document, instruction string) string
}
