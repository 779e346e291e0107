package cli

import (
	"fmt"

	"resumelab/internal/ai"
	"resumelab/internal/common"
	"resumelab/internal/scoring"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file]",
	Short: "Score a resume with the heuristic scorers",
	Long: `Score a LaTeX resume without sending it to an AI model.

By default the universal ATS scorer runs: section coverage, quantified
metrics, action verbs, structure and design friendliness. Use --human for
the recruiter first-impression scorer instead. Use --job-description to
score the resume against a specific job posting; keyword classification
and semantic similarity use the configured AI services when available and
degrade to lexical matching when they are not.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if scoreConfig.OutputFormat == "" {
			scoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		if scoreHuman && scoreJobDescription != "" {
			return fmt.Errorf("--human and --job-description are mutually exclusive")
		}
		return common.ValidateOutputFormat(scoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScore,
}

var (
	scoreConfig         common.CommandConfig
	scoreHuman          bool
	scoreJobDescription string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	scoreCmd.Flags().BoolVar(&scoreHuman, "human", false, "Run the human first-impression scorer")
	scoreCmd.Flags().StringVar(&scoreJobDescription, "job-description", "", "Job description file to match the resume against")

	// Add completion for format flag
	_ = scoreCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runScore(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	outputHandler := common.NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}
	document := contents[0]

	result, err := computeScore(cmd, document)
	if err != nil {
		return err
	}

	if err := outputHandler.HandleOutput(result, scoreConfig); err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	logger.Info("Resume scoring completed successfully")
	return nil
}

// computeScore dispatches to the scorer selected by flags
func computeScore(cmd *cobra.Command, document string) (any, error) {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	switch {
	case scoreHuman:
		logger.Info("Scoring resume for human impact", "resume_chars", len(document))
		return scoring.ScoreHumanImpact(document), nil

	case scoreJobDescription != "":
		fileProcessor := common.NewFileProcessor(logger)
		jdContents, err := fileProcessor.ValidateAndReadFiles(scoreJobDescription)
		if err != nil {
			return nil, err
		}
		jobDescription := jdContents[0]

		var classifier scoring.Classifier
		classifyConfig := cfg.GetClassifyConfig()
		if aiService, err := ai.NewService(&classifyConfig, "classify", logger); err == nil {
			classifier = scoring.NewProviderClassifier(aiService.Provider)
		} else {
			logger.Warn("Keyword classification unavailable, falling back to lexical matching",
				"error", err.Error())
		}

		var embedder scoring.Embedder
		embedConfig := cfg.GetEmbedConfig()
		if embedService, err := ai.NewEmbedderService(&embedConfig, logger); err == nil {
			embedder = embedService
		} else {
			logger.Warn("Embedding service unavailable, semantic similarity disabled",
				"error", err.Error())
		}

		logger.Info("Scoring resume against job description",
			"resume_chars", len(document),
			"job_chars", len(jobDescription),
			"ai_classifier", classifier != nil,
			"ai_embedder", embedder != nil)

		scorer := scoring.NewJDScorer(classifier, embedder, logger)
		return scorer.Score(cmd.Context(), document, jobDescription), nil

	default:
		logger.Info("Scoring resume for ATS compatibility", "resume_chars", len(document))
		return scoring.ScoreUniversal(document), nil
	}
}
