package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// PromptSource represents where a prompt was loaded from
type PromptSource struct {
	Source    string // "file", "operation-config", "global-config", or "default"
	FilePath  string // Set if Source is "file"
	Operation string // The operation this prompt is for
	Type      string // "system" or "user"
}

// GetLoadedPrompts returns the loaded prompt content in a thread-safe way
func GetLoadedPrompts() *AllLoadedPrompts {
	return &loadedPrompts
}

// trackPromptSource tracks the source of a prompt for debugging
func (c *Config) trackPromptSource(source PromptSource) {
	// Prompt source tracking can be implemented when new logging is hooked up
}

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	// Initialize loaded prompts exactly once
	loadedPromptsOnce.Do(func() {
		loadedPrompts = AllLoadedPrompts{}
	})

	// Load global prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.CustomPrompts.SystemPrompts, &loadedPrompts.Global.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load global system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.CustomPrompts.UserPrompts, &loadedPrompts.Global.UserPrompts); err != nil {
		return fmt.Errorf("failed to load global user prompts: %w", err)
	}

	// Load operation-specific prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.Edit.CustomPrompts.SystemPrompts, &loadedPrompts.Edit.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load edit system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Edit.CustomPrompts.UserPrompts, &loadedPrompts.Edit.UserPrompts); err != nil {
		return fmt.Errorf("failed to load edit user prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.Classify.CustomPrompts.SystemPrompts, &loadedPrompts.Classify.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load classify system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Classify.CustomPrompts.UserPrompts, &loadedPrompts.Classify.UserPrompts); err != nil {
		return fmt.Errorf("failed to load classify user prompts: %w", err)
	}

	// Log summary of prompt sources after loading
	c.logPromptLoadingSummary()

	return nil
}

// loadSystemPromptsFromFiles loads system prompts from files if file paths are specified
func (c *Config) loadSystemPromptsFromFiles(prompts *SystemPrompts, target *LoadedSystemPrompts) error {
	// Load EditSection prompt from file if specified
	if prompts.EditSectionFile != "" {
		content, err := c.loadPromptFromFile(prompts.EditSectionFile, "system", "editSection")
		if err != nil {
			return err
		}
		target.EditSection = content
	}

	// Load EditDocument prompt from file if specified
	if prompts.EditDocumentFile != "" {
		content, err := c.loadPromptFromFile(prompts.EditDocumentFile, "system", "editDocument")
		if err != nil {
			return err
		}
		target.EditDocument = content
	}

	// Load Suggest prompt from file if specified
	if prompts.SuggestFile != "" {
		content, err := c.loadPromptFromFile(prompts.SuggestFile, "system", "suggest")
		if err != nil {
			return err
		}
		target.Suggest = content
	}

	// Load ClassifyKeywords prompt from file if specified
	if prompts.ClassifyKeywordsFile != "" {
		content, err := c.loadPromptFromFile(prompts.ClassifyKeywordsFile, "system", "classifyKeywords")
		if err != nil {
			return err
		}
		target.ClassifyKeywords = content
	}

	return nil
}

// loadUserPromptsFromFiles loads user prompts from files if file paths are specified
func (c *Config) loadUserPromptsFromFiles(prompts *UserPrompts, target *LoadedUserPrompts) error {
	// Load EditSection prompt from file if specified
	if prompts.EditSectionFile != "" {
		content, err := c.loadPromptFromFile(prompts.EditSectionFile, "user", "editSection")
		if err != nil {
			return err
		}
		target.EditSection = content
	}

	// Load EditDocument prompt from file if specified
	if prompts.EditDocumentFile != "" {
		content, err := c.loadPromptFromFile(prompts.EditDocumentFile, "user", "editDocument")
		if err != nil {
			return err
		}
		target.EditDocument = content
	}

	// Load Suggest prompt from file if specified
	if prompts.SuggestFile != "" {
		content, err := c.loadPromptFromFile(prompts.SuggestFile, "user", "suggest")
		if err != nil {
			return err
		}
		target.Suggest = content
	}

	// Load ClassifyKeywords prompt from file if specified
	if prompts.ClassifyKeywordsFile != "" {
		content, err := c.loadPromptFromFile(prompts.ClassifyKeywordsFile, "user", "classifyKeywords")
		if err != nil {
			return err
		}
		target.ClassifyKeywords = content
	}

	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func (c *Config) loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	// Track prompt source
	c.trackPromptSource(PromptSource{
		Source:    "file",
		FilePath:  filePath,
		Operation: operation,
		Type:      promptType,
	})

	// Resolve relative paths
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	// Read file content
	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	// Validate content is not empty
	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	// Log successful loading
	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist and are readable before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	// Helper function to validate a file path
	validateFile := func(filePath, promptType, operation string) {
		if filePath == "" {
			return // No file specified, skip validation
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", promptType, operation, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", promptType, operation, absPath))
		}
	}

	// Validate global prompt files
	validateFile(c.AI.CustomPrompts.SystemPrompts.EditSectionFile, "system", "editSection")
	validateFile(c.AI.CustomPrompts.SystemPrompts.EditDocumentFile, "system", "editDocument")
	validateFile(c.AI.CustomPrompts.SystemPrompts.SuggestFile, "system", "suggest")
	validateFile(c.AI.CustomPrompts.SystemPrompts.ClassifyKeywordsFile, "system", "classifyKeywords")
	validateFile(c.AI.CustomPrompts.UserPrompts.EditSectionFile, "user", "editSection")
	validateFile(c.AI.CustomPrompts.UserPrompts.EditDocumentFile, "user", "editDocument")
	validateFile(c.AI.CustomPrompts.UserPrompts.SuggestFile, "user", "suggest")
	validateFile(c.AI.CustomPrompts.UserPrompts.ClassifyKeywordsFile, "user", "classifyKeywords")

	// Validate operation-specific prompt files
	validateFile(c.AI.Edit.CustomPrompts.SystemPrompts.EditSectionFile, "edit system", "editSection")
	validateFile(c.AI.Edit.CustomPrompts.UserPrompts.EditSectionFile, "edit user", "editSection")
	validateFile(c.AI.Edit.CustomPrompts.SystemPrompts.EditDocumentFile, "edit system", "editDocument")
	validateFile(c.AI.Edit.CustomPrompts.UserPrompts.EditDocumentFile, "edit user", "editDocument")
	validateFile(c.AI.Edit.CustomPrompts.SystemPrompts.SuggestFile, "edit system", "suggest")
	validateFile(c.AI.Edit.CustomPrompts.UserPrompts.SuggestFile, "edit user", "suggest")
	validateFile(c.AI.Classify.CustomPrompts.SystemPrompts.ClassifyKeywordsFile, "classify system", "classifyKeywords")
	validateFile(c.AI.Classify.CustomPrompts.UserPrompts.ClassifyKeywordsFile, "classify user", "classifyKeywords")

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// logPromptLoadingSummary logs a summary of loaded prompts
func (c *Config) logPromptLoadingSummary() {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	promptCount := c.countAndLogLoadedPrompts()

	c.logPromptSummaryFooter(promptCount)
}

// countAndLogLoadedPrompts counts and logs all loaded prompts, returning the total count
func (c *Config) countAndLogLoadedPrompts() int {
	promptCount := 0

	// Check global prompts
	promptCount += c.logGlobalPrompts()

	// Check operation-specific prompts
	promptCount += c.logOperationSpecificPrompts()

	return promptCount
}

// logGlobalPrompts logs global prompt status and returns count
func (c *Config) logGlobalPrompts() int {
	count := 0

	promptChecks := []struct {
		content string
		message string
	}{
		{loadedPrompts.Global.SystemPrompts.EditSection, "[CONFIG] Global system edit-section prompt: loaded from config/file"},
		{loadedPrompts.Global.SystemPrompts.EditDocument, "[CONFIG] Global system edit-document prompt: loaded from config/file"},
		{loadedPrompts.Global.SystemPrompts.Suggest, "[CONFIG] Global system suggest prompt: loaded from config/file"},
		{loadedPrompts.Global.SystemPrompts.ClassifyKeywords, "[CONFIG] Global system classify prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.EditSection, "[CONFIG] Global user edit-section prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.EditDocument, "[CONFIG] Global user edit-document prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.Suggest, "[CONFIG] Global user suggest prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.ClassifyKeywords, "[CONFIG] Global user classify prompt: loaded from config/file"},
	}

	for _, check := range promptChecks {
		if check.content != "" {
			log.Println(check.message)
			count++
		}
	}

	return count
}

// logOperationSpecificPrompts logs operation-specific prompt status and returns count
func (c *Config) logOperationSpecificPrompts() int {
	count := 0

	promptChecks := []struct {
		content string
		message string
	}{
		{loadedPrompts.Edit.SystemPrompts.EditSection, "[CONFIG] Edit-specific system edit-section prompt: loaded from config/file"},
		{loadedPrompts.Edit.UserPrompts.EditSection, "[CONFIG] Edit-specific user edit-section prompt: loaded from config/file"},
		{loadedPrompts.Edit.SystemPrompts.EditDocument, "[CONFIG] Edit-specific system edit-document prompt: loaded from config/file"},
		{loadedPrompts.Edit.UserPrompts.EditDocument, "[CONFIG] Edit-specific user edit-document prompt: loaded from config/file"},
		{loadedPrompts.Edit.SystemPrompts.Suggest, "[CONFIG] Edit-specific system suggest prompt: loaded from config/file"},
		{loadedPrompts.Edit.UserPrompts.Suggest, "[CONFIG] Edit-specific user suggest prompt: loaded from config/file"},
		{loadedPrompts.Classify.SystemPrompts.ClassifyKeywords, "[CONFIG] Classify-specific system prompt: loaded from config/file"},
		{loadedPrompts.Classify.UserPrompts.ClassifyKeywords, "[CONFIG] Classify-specific user prompt: loaded from config/file"},
	}

	for _, check := range promptChecks {
		if check.content != "" {
			log.Println(check.message)
			count++
		}
	}

	return count
}

// logPromptSummaryFooter logs the summary footer with total count
func (c *Config) logPromptSummaryFooter(promptCount int) {
	if promptCount == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", promptCount)
	}

	log.Println("[CONFIG] ==========================================")
}
