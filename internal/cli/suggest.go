package cli

import (
	"context"
	"fmt"

	"resumelab/internal/ai"
	"resumelab/internal/common"
	"resumelab/internal/editor"
	"resumelab/internal/latex"
	"resumelab/internal/types"
	"resumelab/internal/utils"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [resume-file]",
	Short: "Suggest improvements for a resume section",
	Long: `Ask the AI for concrete improvement suggestions for one section of
a LaTeX resume. The section content is sent as-is; nothing in the resume is
modified.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if suggestConfig.OutputFormat == "" {
			suggestConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(suggestConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runSuggest,
}

var (
	suggestConfig  common.CommandConfig
	suggestSection string
)

func init() {
	suggestCmd.Flags().StringVarP(&suggestConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	suggestCmd.Flags().StringVar(&suggestConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	suggestCmd.Flags().StringVarP(&suggestSection, "section", "s", "", "Name of the section to get suggestions for (required)")
	_ = suggestCmd.MarkFlagRequired("section")

	// Add completion for format flag
	_ = suggestCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Suggestions ride on the edit operation configuration
	editAIConfig := cfg.GetEditConfig()
	aiService, err := ai.NewService(&editAIConfig, "edit", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.SuggestInput, error) {
		if len(contents) != 1 {
			return types.SuggestInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		section, found := latex.SectionByName(contents[0], suggestSection)
		if !found {
			return types.SuggestInput{}, fmt.Errorf("no section named %q in resume", suggestSection)
		}
		return types.SuggestInput{
			SectionName:    section.Name,
			SectionContent: section.Content,
		}, nil
	}

	logDetails := func(input types.SuggestInput, cfg common.CommandConfig) {
		logger.Info("Requesting section suggestions",
			"section", input.SectionName,
			"section_chars", len(input.SectionContent),
			"output_format", cfg.OutputFormat)
	}

	// Create a wrapper function that uses our specific AI service
	suggestOperation := func(ctx context.Context, input types.SuggestInput) (editor.Result, *ai.TokenUsage, error) {
		output, tokenUsage, err := aiService.Provider.SuggestImprovements(ctx, input)
		if err != nil {
			return editor.Result{}, tokenUsage, err
		}
		return editor.Result{
			Success:     true,
			NewContent:  utils.StripCodeFences(output.Content),
			Explanation: "Suggestions for " + input.SectionName,
		}, tokenUsage, nil
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		suggestConfig,
		args,
		createInput,
		suggestOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to get suggestions: %w", err)
	}
	logger.Info("Section suggestions completed successfully")
	return nil
}
