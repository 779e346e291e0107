package server

import (
	"sync"
	"time"

	"resumelab/internal/config"
	resumelabErrors "resumelab/internal/errors"
	"resumelab/internal/scoring"
	"resumelab/internal/session"
	"resumelab/internal/types"
)

// SectionsRequest represents the request body for the sections endpoint
type SectionsRequest struct {
	Document string `json:"document"`
}

// EditSectionRequest represents the request body for the section edit endpoint
type EditSectionRequest struct {
	Document       string              `json:"document"`
	SectionName    string              `json:"sectionName"`
	Instruction    string              `json:"instruction"`
	ChatHistory    []types.ChatMessage `json:"chatHistory,omitempty"`
	JobDescription string              `json:"jobDescription,omitempty"`
}

// EditDocumentRequest represents the request body for the full-document edit endpoint
type EditDocumentRequest struct {
	Document       string              `json:"document"`
	Instruction    string              `json:"instruction"`
	ChatHistory    []types.ChatMessage `json:"chatHistory,omitempty"`
	JobDescription string              `json:"jobDescription,omitempty"`
}

// ScoreRequest represents the request body for the ATS and human score endpoints
type ScoreRequest struct {
	Document string `json:"document"`
}

// JDScoreRequest represents the request body for the job-description match endpoint
type JDScoreRequest struct {
	Document       string `json:"document"`
	JobDescription string `json:"jobDescription"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Certificate management
	CertificateManager *CertificateManager

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Active editing sessions
	Sessions *session.Store

	// Logger
	Logger *resumelabErrors.Logger

	// Job-description scorer, built lazily so its keyword cache survives
	// across requests
	jdOnce   sync.Once
	jdScorer *scoring.JDScorer
}

// ServerConfig holds configuration for creating a Server instance
// (Refactored to reduce long parameter list in NewServer)
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *resumelabErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Sessions:       session.NewStore(session.DefaultTTL),
		Logger:         logger,
	}
}
