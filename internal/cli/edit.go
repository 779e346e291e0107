package cli

import (
	"context"
	"fmt"

	"resumelab/internal/ai"
	"resumelab/internal/common"
	"resumelab/internal/editor"
	"resumelab/internal/latex"
	"resumelab/internal/types"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [resume-file] [instruction]",
	Short: "Edit a resume section using AI",
	Long: `Edit a LaTeX resume using AI. The command takes the path to the
resume file and a natural-language instruction. Use --section to edit a
single named section (only that section is sent to the model and spliced
back); without it the whole document is rewritten.

Use --job-description to point at a job description file; its content is
used to steer the edit toward the role. Use --write to splice the edited
section back into the resume file in place.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if editConfig.OutputFormat == "" {
			editConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(editConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runEdit,
}

var (
	editConfig         common.CommandConfig
	editSectionName    string
	editJobDescription string
	editWriteBack      bool
)

func init() {
	editCmd.Flags().StringVarP(&editConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	editCmd.Flags().StringVar(&editConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	editCmd.Flags().StringVarP(&editSectionName, "section", "s", "", "Name of the section to edit (default: whole document)")
	editCmd.Flags().StringVar(&editJobDescription, "job-description", "", "Job description file to steer the edit")
	editCmd.Flags().BoolVar(&editWriteBack, "write", false, "Write the edited document back to the resume file")

	// Add completion for format flag
	_ = editCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	outputHandler := common.NewOutputHandler(logger)

	resumeFile, instruction := args[0], args[1]

	contents, err := fileProcessor.ValidateAndReadFiles(resumeFile)
	if err != nil {
		return err
	}
	document := contents[0]

	var jobDescription string
	if editJobDescription != "" {
		jdContents, err := fileProcessor.ValidateAndReadFiles(editJobDescription)
		if err != nil {
			return err
		}
		jobDescription = jdContents[0]
	}

	// Create AI service for the edit operation
	editAIConfig := cfg.GetEditConfig()
	var provider ai.AIProvider
	if aiService, err := ai.NewService(&editAIConfig, "edit", logger); err == nil {
		provider = aiService.Provider
	} else {
		logger.Warn("AI service unavailable", "error", err.Error())
	}
	ed := editor.New(provider, logger)
	if !ed.Configured() {
		return fmt.Errorf("editing requires an AI provider (set RESUMELAB_AI_APIKEY)")
	}

	logger.Info("Starting resume edit",
		"file", resumeFile,
		"section", editSectionName,
		"instruction_chars", len(instruction),
		"has_job_description", jobDescription != "",
		"output_format", editConfig.OutputFormat)

	result, newDocument, err := applyEdit(cmd.Context(), ed, document, instruction, jobDescription)
	if err != nil {
		return err
	}

	if result.Success && editWriteBack {
		if err := fileProcessor.WriteFile(resumeFile, newDocument); err != nil {
			return fmt.Errorf("failed to write edited resume: %w", err)
		}
		logger.Info("Edited resume written", "file", resumeFile)
	}

	if err := outputHandler.HandleOutput(result, editConfig); err != nil {
		return fmt.Errorf("failed to edit resume: %w", err)
	}
	if result.Success {
		logger.Info("Resume edit completed successfully")
	}
	return nil
}

// applyEdit runs the section or whole-document edit and returns the result
// plus the full document with the change applied.
func applyEdit(ctx context.Context, ed *editor.Editor, document, instruction, jobDescription string) (editor.Result, string, error) {
	if editSectionName == "" {
		result := ed.EditDocument(ctx, types.EditDocumentInput{
			Document:       document,
			Instruction:    instruction,
			JobDescription: jobDescription,
		})
		if !result.Success {
			return result, document, nil
		}
		return result, result.NewContent, nil
	}

	section, found := latex.SectionByName(document, editSectionName)
	if !found {
		return editor.Result{}, document, fmt.Errorf("no section named %q in resume", editSectionName)
	}

	result := ed.EditSection(ctx, types.EditSectionInput{
		SectionName:    section.Name,
		SectionContent: section.Content,
		Instruction:    instruction,
		JobDescription: jobDescription,
	})
	if !result.Success {
		return result, document, nil
	}
	return result, latex.ReplaceSection(document, section, result.NewContent), nil
}
