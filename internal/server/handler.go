package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resumelab/internal/ai"
	"resumelab/internal/editor"
	"resumelab/internal/latex"
	"resumelab/internal/observability"
	"resumelab/internal/scoring"
	"resumelab/internal/types"
	"resumelab/internal/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SectionSummary is a single parsed section in the sections response
type SectionSummary struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Lines   string `json:"lines"`
	Preview string `json:"preview"`
}

// createSectionsHandler wraps the section listing handler with observability
func (s *Server) createSectionsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelab.api")
		_, span := tracer.Start(ctx, "api.sections")
		defer span.End()

		var req SectionsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Document) == "" {
			err := fmt.Errorf("missing document")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing document", "document field is required", http.StatusBadRequest)
			return
		}

		sections := latex.Parse(req.Document)
		summaries := make([]SectionSummary, 0, len(sections))
		for _, section := range sections {
			summaries = append(summaries, SectionSummary{
				Name:    section.Name,
				Kind:    string(section.Kind),
				Lines:   section.LineRange(),
				Preview: section.Preview(),
			})
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.section_count", len(summaries)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"sections": summaries}); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createEditSectionHandler wraps the section edit handler with observability
func (s *Server) createEditSectionHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelab.api")
		ctx, span := tracer.Start(ctx, "api.edit_section")
		defer span.End()

		var req EditSectionRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Document) == "" {
			err := fmt.Errorf("missing document")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing document", "document field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.SectionName) == "" {
			err := fmt.Errorf("missing section name")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing section name", "sectionName field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Instruction) == "" {
			err := fmt.Errorf("missing instruction")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing instruction", "instruction field is required", http.StatusBadRequest)
			return
		}
		if len(req.Document) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("document too large: %d chars", len(req.Document))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Document too large", fmt.Sprintf("document exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		section, found := latex.SectionByName(req.Document, req.SectionName)
		if !found {
			err := fmt.Errorf("section not found: %s", req.SectionName)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Section not found", fmt.Sprintf("no section named %q in document", req.SectionName), http.StatusNotFound)
			return
		}

		span.SetAttributes(
			attribute.Int("request.document_length", len(req.Document)),
			attribute.String("request.section", req.SectionName),
			attribute.String("operation", "edit_section"),
		)

		input := types.EditSectionInput{
			SectionName:    section.Name,
			SectionContent: section.Content,
			Instruction:    req.Instruction,
			ChatHistory:    req.ChatHistory,
			JobDescription: req.JobDescription,
		}

		// Create AI service for the edit operation
		editConfig := s.AppConfig.GetEditConfig()
		aiService, err := ai.NewService(&editConfig, "edit", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		// Track AI operation with observability and token usage
		metrics := om.GetMetrics()
		var output types.EditOutput
		err = metrics.TrackAIOperationWithTokens(ctx, "edit", func(ctx context.Context) *observability.AIOperationResult {
			result, tokenUsage, aiErr := aiService.Provider.EditSection(ctx, input)
			output = result
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "section_edited", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to edit section", err.Error(), http.StatusInternalServerError)
			return
		}

		newContent := utils.StripCodeFences(output.Content)
		newDocument := latex.ReplaceSection(req.Document, section, newContent)

		metrics.RecordBusinessMetric(ctx, "section_edited", true, om,
			attribute.String("section", section.Name),
			attribute.Int("output.content_length", len(newContent)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.content_length", len(newContent)),
		)

		response := map[string]any{
			"result": editor.Result{
				Success:     true,
				NewContent:  newContent,
				Explanation: fmt.Sprintf("Modified %s section based on your request.", section.Name),
			},
			"document": newDocument,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createEditDocumentHandler wraps the full-document edit handler with observability
func (s *Server) createEditDocumentHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelab.api")
		ctx, span := tracer.Start(ctx, "api.edit_document")
		defer span.End()

		var req EditDocumentRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Document) == "" {
			err := fmt.Errorf("missing document")
			span.RecordError(err)
			writeErrorResponse(w, "Missing document", "document field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Instruction) == "" {
			err := fmt.Errorf("missing instruction")
			span.RecordError(err)
			writeErrorResponse(w, "Missing instruction", "instruction field is required", http.StatusBadRequest)
			return
		}
		if len(req.Document) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("document too large: %d chars", len(req.Document))
			span.RecordError(err)
			writeErrorResponse(w, "Document too large", fmt.Sprintf("document exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.document_length", len(req.Document)),
			attribute.String("operation", "edit_document"),
		)

		input := types.EditDocumentInput{
			Document:       req.Document,
			Instruction:    req.Instruction,
			ChatHistory:    req.ChatHistory,
			JobDescription: req.JobDescription,
		}

		editConfig := s.AppConfig.GetEditConfig()
		aiService, err := ai.NewService(&editConfig, "edit", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var output types.EditOutput
		err = metrics.TrackAIOperationWithTokens(ctx, "edit", func(ctx context.Context) *observability.AIOperationResult {
			result, tokenUsage, aiErr := aiService.Provider.EditDocument(ctx, input)
			output = result
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "section_edited", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to edit document", err.Error(), http.StatusInternalServerError)
			return
		}

		newDocument := utils.StripCodeFences(output.Content)

		metrics.RecordBusinessMetric(ctx, "section_edited", true, om,
			attribute.String("section", "document"),
			attribute.Int("output.content_length", len(newDocument)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.content_length", len(newDocument)),
		)

		response := map[string]any{
			"result": editor.Result{
				Success:     true,
				NewContent:  newDocument,
				Explanation: "Modified resume based on your request.",
			},
			"document": newDocument,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createScoreATSHandler wraps the universal ATS score handler with observability
func (s *Server) createScoreATSHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelab.api")
		ctx, span := tracer.Start(ctx, "api.score_ats")
		defer span.End()

		req, ok := s.parseScoreRequest(w, r, span)
		if !ok {
			return
		}

		result := scoring.ScoreUniversal(req.Document)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "resume_scored", true, om,
			attribute.String("scorer", "ats"),
			attribute.Int("score", result.Score))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("score", result.Score),
			attribute.String("rating", result.Rating),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createScoreHumanHandler wraps the human impact score handler with observability
func (s *Server) createScoreHumanHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelab.api")
		ctx, span := tracer.Start(ctx, "api.score_human")
		defer span.End()

		req, ok := s.parseScoreRequest(w, r, span)
		if !ok {
			return
		}

		result := scoring.ScoreHumanImpact(req.Document)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "resume_scored", true, om,
			attribute.String("scorer", "human"),
			attribute.Int("score", result.Score))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("score", result.Score),
			attribute.String("rating", result.Rating),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createScoreJDHandler wraps the job-description match handler with observability
func (s *Server) createScoreJDHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelab.api")
		ctx, span := tracer.Start(ctx, "api.score_jd")
		defer span.End()

		var req JDScoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Document) == "" {
			err := fmt.Errorf("missing document")
			span.RecordError(err)
			writeErrorResponse(w, "Missing document", "document field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.document_length", len(req.Document)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "score_jd"),
		)

		result := s.getJDScorer().Score(ctx, req.Document, req.JobDescription)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "keywords_classified", true, om)
		metrics.RecordBusinessMetric(ctx, "resume_scored", true, om,
			attribute.String("scorer", "jd"),
			attribute.Int("score", result.Score))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("score", result.Score),
			attribute.Int("matched_keywords", len(result.MatchedKeywords)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// parseScoreRequest parses and validates the shared score request body
func (s *Server) parseScoreRequest(w http.ResponseWriter, r *http.Request, span trace.Span) (ScoreRequest, bool) {
	var req ScoreRequest
	if err := parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return req, false
	}

	if strings.TrimSpace(req.Document) == "" {
		err := fmt.Errorf("missing document")
		span.RecordError(err)
		writeErrorResponse(w, "Missing document", "document field is required", http.StatusBadRequest)
		return req, false
	}

	return req, true
}

// getJDScorer lazily builds the shared job-description scorer. The classifier
// and embedder are optional: when the AI services cannot be created the scorer
// degrades to lexical matching.
func (s *Server) getJDScorer() *scoring.JDScorer {
	s.jdOnce.Do(func() {
		var classifier scoring.Classifier
		classifyConfig := s.AppConfig.GetClassifyConfig()
		if aiService, err := ai.NewService(&classifyConfig, "classify", s.Logger); err == nil {
			classifier = scoring.NewProviderClassifier(aiService.Provider)
		} else {
			s.Logger.Warn("Keyword classification unavailable, falling back to lexical matching",
				"error", err.Error())
		}

		var embedder scoring.Embedder
		embedConfig := s.AppConfig.GetEmbedConfig()
		if embedService, err := ai.NewEmbedderService(&embedConfig, s.Logger); err == nil {
			embedder = embedService
		} else {
			s.Logger.Warn("Embedding service unavailable, semantic similarity disabled",
				"error", err.Error())
		}

		s.jdScorer = scoring.NewJDScorer(classifier, embedder, s.Logger)
	})

	return s.jdScorer
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
