package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() Config {
	return Config{
		AI: AIConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Timeout:  30 * time.Second,
		},
		Server: ServerConfig{
			Port: "8080",
			TLS:  TLSConfig{Mode: "disabled"},
		},
		App: AppConfig{
			DefaultFormat:    "text",
			SupportedFormats: []string{"json", "text", "markdown"},
		},
	}
}

// Scoring and section listing run without a collaborator, so configuration
// validation must pass with no API key set.
func TestValidateWithoutAPIKey(t *testing.T) {
	cfg := validTestConfig()
	cfg.AI.APIKey = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveTimeout(t *testing.T) {
	cfg := validTestConfig()
	cfg.AI.Timeout = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsMissingPort(t *testing.T) {
	cfg := validTestConfig()
	cfg.Server.Port = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownDefaultFormat(t *testing.T) {
	cfg := validTestConfig()
	cfg.App.DefaultFormat = "yaml"
	assert.Error(t, cfg.Validate())
}
