package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetEditConfig returns the AI configuration for edit operations with fallback to global config
func (c *Config) GetEditConfig() OperationAIConfig {
	config := c.AI.Edit

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply edit-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.EditSection == "" {
		config.CustomPrompts.SystemPrompts.EditSection = c.AI.CustomPrompts.SystemPrompts.EditSection
	}
	if config.CustomPrompts.UserPrompts.EditSection == "" {
		config.CustomPrompts.UserPrompts.EditSection = c.AI.CustomPrompts.UserPrompts.EditSection
	}
	if config.CustomPrompts.SystemPrompts.EditDocument == "" {
		config.CustomPrompts.SystemPrompts.EditDocument = c.AI.CustomPrompts.SystemPrompts.EditDocument
	}
	if config.CustomPrompts.UserPrompts.EditDocument == "" {
		config.CustomPrompts.UserPrompts.EditDocument = c.AI.CustomPrompts.UserPrompts.EditDocument
	}
	if config.CustomPrompts.SystemPrompts.Suggest == "" {
		config.CustomPrompts.SystemPrompts.Suggest = c.AI.CustomPrompts.SystemPrompts.Suggest
	}
	if config.CustomPrompts.UserPrompts.Suggest == "" {
		config.CustomPrompts.UserPrompts.Suggest = c.AI.CustomPrompts.UserPrompts.Suggest
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.EditSectionFile == "" {
		config.CustomPrompts.SystemPrompts.EditSectionFile = c.AI.CustomPrompts.SystemPrompts.EditSectionFile
	}
	if config.CustomPrompts.UserPrompts.EditSectionFile == "" {
		config.CustomPrompts.UserPrompts.EditSectionFile = c.AI.CustomPrompts.UserPrompts.EditSectionFile
	}
	if config.CustomPrompts.SystemPrompts.EditDocumentFile == "" {
		config.CustomPrompts.SystemPrompts.EditDocumentFile = c.AI.CustomPrompts.SystemPrompts.EditDocumentFile
	}
	if config.CustomPrompts.UserPrompts.EditDocumentFile == "" {
		config.CustomPrompts.UserPrompts.EditDocumentFile = c.AI.CustomPrompts.UserPrompts.EditDocumentFile
	}
	if config.CustomPrompts.SystemPrompts.SuggestFile == "" {
		config.CustomPrompts.SystemPrompts.SuggestFile = c.AI.CustomPrompts.SystemPrompts.SuggestFile
	}
	if config.CustomPrompts.UserPrompts.SuggestFile == "" {
		config.CustomPrompts.UserPrompts.SuggestFile = c.AI.CustomPrompts.UserPrompts.SuggestFile
	}

	return config
}

// GetClassifyConfig returns the AI configuration for keyword classification with fallback to global config
func (c *Config) GetClassifyConfig() OperationAIConfig {
	config := c.AI.Classify

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply classify-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.ClassifyKeywords == "" {
		config.CustomPrompts.SystemPrompts.ClassifyKeywords = c.AI.CustomPrompts.SystemPrompts.ClassifyKeywords
	}
	if config.CustomPrompts.UserPrompts.ClassifyKeywords == "" {
		config.CustomPrompts.UserPrompts.ClassifyKeywords = c.AI.CustomPrompts.UserPrompts.ClassifyKeywords
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.ClassifyKeywordsFile == "" {
		config.CustomPrompts.SystemPrompts.ClassifyKeywordsFile = c.AI.CustomPrompts.SystemPrompts.ClassifyKeywordsFile
	}
	if config.CustomPrompts.UserPrompts.ClassifyKeywordsFile == "" {
		config.CustomPrompts.UserPrompts.ClassifyKeywordsFile = c.AI.CustomPrompts.UserPrompts.ClassifyKeywordsFile
	}

	return config
}

// GetEmbedConfig returns the AI configuration for embedding operations with fallback to global config
func (c *Config) GetEmbedConfig() OperationAIConfig {
	config := c.AI.Embed

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Embedding requests carry no prompts, only model and transport settings
	return config
}

// GetLoadedEditPrompts returns a copy of the loaded prompts for edit operations
func (c *Config) GetLoadedEditPrompts() OperationLoadedPrompts {
	return loadedPrompts.Edit
}

// GetLoadedClassifyPrompts returns a copy of the loaded prompts for classify operations
func (c *Config) GetLoadedClassifyPrompts() OperationLoadedPrompts {
	return loadedPrompts.Classify
}

// GetLoadedGlobalPrompts returns a copy of the loaded global prompts
func (c *Config) GetLoadedGlobalPrompts() LoadedPrompts {
	return loadedPrompts.Global
}
