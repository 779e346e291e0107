package ai

import (
	"context"

	"resumelab/internal/config"
	resumelabErrors "resumelab/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

// embeddingDimensions is the vector size produced by gemini-embedding-001.
const embeddingDimensions = 768

// GeminiEmbedder implements Embedder using the Gemini embedding models
type GeminiEmbedder struct {
	client         *genai.Client
	config         *config.OperationAIConfig
	circuitBreaker *EmbedCircuitBreaker
	logger         *resumelabErrors.Logger
}

// Ensure GeminiEmbedder implements Embedder
var _ Embedder = (*GeminiEmbedder)(nil)

// NewGeminiEmbedder creates a new Gemini embedding client for the embed operation
func NewGeminiEmbedder(cfg *config.OperationAIConfig, logger *resumelabErrors.Logger) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, resumelabErrors.NewConfigError(resumelabErrors.ErrCodeMissingAPIKey,
			"AI API key is required (set RESUMELAB_AI_APIKEY environment variable)", nil)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, resumelabErrors.NewAIError(resumelabErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini embedding client", err)
	}

	return &GeminiEmbedder{
		client:         client,
		config:         cfg,
		circuitBreaker: NewEmbedCircuitBreaker("embed", cfg, logger),
		logger:         logger,
	}, nil
}

// Embed generates an embedding vector for a single text
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	tracer := otel.Tracer("resumelab.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.embed")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", e.config.Model),
		attribute.Int("input.text_length", len(text)),
	)

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := e.circuitBreaker.ExecuteEmbed(func() (*genai.EmbedContentResponse, error) {
		return e.client.Models.EmbedContent(ctx, e.config.Model, contents, &genai.EmbedContentConfig{
			TaskType: "SEMANTIC_SIMILARITY",
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, resumelabErrors.NewAIError(resumelabErrors.ErrCodeAIServiceFailed,
			"Failed to generate embedding", err)
	}

	if len(result.Embeddings) == 0 {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, resumelabErrors.NewAIError(resumelabErrors.ErrCodeAIResponseParse,
			"Embedding response contained no vectors", nil)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return result.Embeddings[0].Values, nil
}

// EmbedBatch generates embeddings for multiple texts in a single request
func (e *GeminiEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	tracer := otel.Tracer("resumelab.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.embed_batch")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", e.config.Model),
		attribute.Int("input.batch_size", len(texts)),
	)

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := e.circuitBreaker.ExecuteEmbed(func() (*genai.EmbedContentResponse, error) {
		return e.client.Models.EmbedContent(ctx, e.config.Model, contents, &genai.EmbedContentConfig{
			TaskType: "SEMANTIC_SIMILARITY",
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, resumelabErrors.NewAIError(resumelabErrors.ErrCodeAIServiceFailed,
			"Failed to generate batch embeddings", err)
	}

	embeddings := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		embeddings[i] = emb.Values
	}

	span.SetAttributes(attribute.Bool("success", true))
	return embeddings, nil
}

// Dimensions returns the dimensionality of embedding vectors
func (e *GeminiEmbedder) Dimensions() int {
	return embeddingDimensions
}

// GetCircuitBreakerStats returns embedding circuit breaker statistics
func (e *GeminiEmbedder) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"embed_operations": e.circuitBreaker.GetEmbedStats(),
		"overall_healthy":  e.circuitBreaker.IsEmbedHealthy(),
	}
}

// Close implements Embedder interface
func (e *GeminiEmbedder) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}
