package cli

import (
	"fmt"

	"resumelab/internal/common"
	"resumelab/internal/latex"

	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections [resume-file]",
	Short: "List the sections of a LaTeX resume",
	Long: `Parse a LaTeX resume and list its sections with line ranges and
content previews. Both \section{...} headers and common custom commands
(\cvsection, \resumeSection and friends) are recognized; content before the
first header is reported as the Header section.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if sectionsConfig.OutputFormat == "" {
			sectionsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(sectionsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runSections,
}

var sectionsConfig common.CommandConfig

func init() {
	sectionsCmd.Flags().StringVarP(&sectionsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	sectionsCmd.Flags().StringVar(&sectionsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = sectionsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runSections(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	outputHandler := common.NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	sections := latex.Parse(contents[0])

	logger.Info("Parsed resume sections",
		"file", args[0],
		"section_count", len(sections),
		"output_format", sectionsConfig.OutputFormat)

	if err := outputHandler.HandleOutput(sections, sectionsConfig); err != nil {
		return fmt.Errorf("failed to list sections: %w", err)
	}
	return nil
}
