package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"resumelab/internal/ai"
	"resumelab/internal/editor"
	resumelabErrors "resumelab/internal/errors"
	"resumelab/internal/latex"
	"resumelab/internal/observability"
	"resumelab/internal/session"
	"resumelab/internal/types"
	"resumelab/internal/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// writeJSONResponse encodes payload with the given status. Encode failures
// after the header is written can only be recorded on the span.
func writeJSONResponse(w http.ResponseWriter, span trace.Span, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		span.RecordError(err)
	}
}

// SessionCreateRequest starts an editing session around a document.
type SessionCreateRequest struct {
	Document string `json:"document"`
}

// SessionUpdateRequest replaces a session's document.
type SessionUpdateRequest struct {
	Document    string `json:"document"`
	Description string `json:"description,omitempty"`
}

// SessionEditSectionRequest is an AI section edit scoped to a session. The
// baseHash echoes the document hash the client read the section from; the
// edit is rejected when the session's document has moved on since.
type SessionEditSectionRequest struct {
	SectionName    string `json:"sectionName"`
	Instruction    string `json:"instruction"`
	BaseHash       string `json:"baseHash,omitempty"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// createSessionCreateHandler starts a new editing session
func (s *Server) createSessionCreateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := om.Tracer("resumelab.api")
		_, span := tracer.Start(r.Context(), "api.session_create")
		defer span.End()

		var req SessionCreateRequest
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

		id, sess := s.Sessions.Create(req.Document)
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("request.document_length", len(req.Document)),
		)

		writeJSONResponse(w, span, http.StatusCreated, map[string]any{
			"sessionId":    id,
			"documentHash": sess.DocumentHash(),
		})
	}
}

// createSessionStateHandler reports a session's current state
func (s *Server) createSessionStateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := om.Tracer("resumelab.api")
		_, span := tracer.Start(r.Context(), "api.session_state")
		defer span.End()

		sess, ok := s.lookupSession(w, r)
		if !ok {
			span.SetAttributes(attribute.String("error.type", "not_found"))
			return
		}

		current, total := sess.VersionInfo()
		selectedName, _ := sess.SelectedSection()
		writeJSONResponse(w, span, http.StatusOK, map[string]any{
			"documentHash":      sess.DocumentHash(),
			"versionInfo":       map[string]int{"current": current, "total": total},
			"canUndo":           sess.CanUndo(),
			"canRedo":           sess.CanRedo(),
			"needsRecompile":    sess.NeedsRecompile(),
			"lastCompileError":  sess.LastCompileError(),
			"selectedSection":   selectedName,
			"chatMessageCount":  len(sess.ChatMessages()),
			"hasJobDescription": sess.HasJobDescription(),
		})
	}
}

// createSessionDocumentHandler returns a session's LaTeX source
func (s *Server) createSessionDocumentHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := om.Tracer("resumelab.api")
		_, span := tracer.Start(r.Context(), "api.session_document")
		defer span.End()

		sess, ok := s.lookupSession(w, r)
		if !ok {
			span.SetAttributes(attribute.String("error.type", "not_found"))
			return
		}

		writeJSONResponse(w, span, http.StatusOK, map[string]any{
			"document":     sess.Current(),
			"documentHash": sess.DocumentHash(),
		})
	}
}

// createSessionUpdateHandler replaces a session's LaTeX source
func (s *Server) createSessionUpdateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := om.Tracer("resumelab.api")
		_, span := tracer.Start(r.Context(), "api.session_update")
		defer span.End()

		sess, ok := s.lookupSession(w, r)
		if !ok {
			span.SetAttributes(attribute.String("error.type", "not_found"))
			return
		}

		var req SessionUpdateRequest
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

		description := req.Description
		if description == "" {
			description = "Manual edit"
		}
		sess.SetDocument(req.Document, description)

		span.SetAttributes(attribute.Bool("success", true))
		writeJSONResponse(w, span, http.StatusOK, map[string]any{
			"success":      true,
			"documentHash": sess.DocumentHash(),
		})
	}
}

// createSessionUndoHandler steps a session back one version
func (s *Server) createSessionUndoHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.sessionHistoryHandler(om, "api.session_undo", "Cannot undo - at oldest version", (*session.Session).Undo)
}

// createSessionRedoHandler steps a session forward one version
func (s *Server) createSessionRedoHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.sessionHistoryHandler(om, "api.session_redo", "Cannot redo - at newest version", (*session.Session).Redo)
}

func (s *Server) sessionHistoryHandler(om *observability.ObservabilityManager, spanName, failMessage string, step func(*session.Session) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := om.Tracer("resumelab.api")
		_, span := tracer.Start(r.Context(), spanName)
		defer span.End()

		sess, ok := s.lookupSession(w, r)
		if !ok {
			span.SetAttributes(attribute.String("error.type", "not_found"))
			return
		}

		if !step(sess) {
			err := fmt.Errorf("history boundary")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "History unavailable", failMessage, http.StatusBadRequest)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		writeJSONResponse(w, span, http.StatusOK, map[string]any{
			"success":      true,
			"document":     sess.Current(),
			"documentHash": sess.DocumentHash(),
		})
	}
}

// createSessionDeleteHandler removes a session
func (s *Server) createSessionDeleteHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := om.Tracer("resumelab.api")
		_, span := tracer.Start(r.Context(), "api.session_delete")
		defer span.End()

		s.Sessions.Delete(r.PathValue("id"))
		span.SetAttributes(attribute.Bool("success", true))
		w.WriteHeader(http.StatusNoContent)
	}
}

// createSessionEditSectionHandler runs an AI section edit inside a session.
// The splice goes through the session's hash guard, so an edit based on a
// document that has since changed comes back 409 instead of landing on the
// wrong lines.
func (s *Server) createSessionEditSectionHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelab.api")
		ctx, span := tracer.Start(ctx, "api.session_edit_section")
		defer span.End()

		sess, ok := s.lookupSession(w, r)
		if !ok {
			span.SetAttributes(attribute.String("error.type", "not_found"))
			return
		}

		var req SessionEditSectionRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
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

		// Reject stale edits before spending an AI call; the splice below
		// re-checks under the session lock.
		if req.BaseHash != "" && req.BaseHash != sess.DocumentHash() {
			err := fmt.Errorf("stale base hash")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "stale_document"))
			writeErrorResponse(w, "Document changed", fmt.Sprintf("document changed since section %q was read; re-read before editing", req.SectionName), http.StatusConflict)
			return
		}

		document := sess.Current()
		section, found := latex.SectionByName(document, req.SectionName)
		if !found {
			err := fmt.Errorf("section not found: %s", req.SectionName)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Section not found", fmt.Sprintf("no section named %q in document", req.SectionName), http.StatusNotFound)
			return
		}

		jobDescription := req.JobDescription
		if jobDescription == "" {
			jobDescription = sess.JobDescription()
		}

		span.SetAttributes(
			attribute.Int("request.document_length", len(document)),
			attribute.String("request.section", req.SectionName),
			attribute.String("operation", "session_edit_section"),
		)

		input := types.EditSectionInput{
			SectionName:    section.Name,
			SectionContent: section.Content,
			Instruction:    req.Instruction,
			ChatHistory:    sess.RecentChatContext(15),
			JobDescription: jobDescription,
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
		newDocument, err := sess.ApplySectionEdit(section.Name, req.BaseHash, newContent)
		if err != nil {
			span.RecordError(err)
			status := http.StatusConflict
			var appErr *resumelabErrors.AppError
			if errors.As(err, &appErr) && appErr.Code == resumelabErrors.ErrCodeSectionNotFound {
				status = http.StatusNotFound
			}
			span.SetAttributes(attribute.String("error.type", "stale_document"))
			metrics.RecordBusinessMetric(ctx, "section_edited", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to apply edit", err.Error(), status)
			return
		}

		explanation := fmt.Sprintf("Modified %s section based on your request.", section.Name)
		sess.AddChatMessage(session.Message{Role: "user", Content: req.Instruction, SectionContext: section.Name})
		sess.AddChatMessage(session.Message{Role: "assistant", Content: explanation, SectionContext: section.Name})

		metrics.RecordBusinessMetric(ctx, "section_edited", true, om,
			attribute.String("section", section.Name),
			attribute.Int("output.content_length", len(newContent)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.content_length", len(newContent)),
		)

		writeJSONResponse(w, span, http.StatusOK, map[string]any{
			"result": editor.Result{
				Success:     true,
				NewContent:  newContent,
				Explanation: explanation,
			},
			"document":     newDocument,
			"documentHash": sess.DocumentHash(),
		})
	}
}

// lookupSession resolves the {id} path parameter, writing a 404 when the
// session does not exist or has expired.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.Sessions.Get(r.PathValue("id"))
	if !ok {
		writeErrorResponse(w, "Session not found", "session does not exist or has expired", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}
