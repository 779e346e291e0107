package scoring

import (
	"context"

	"resumelab/internal/ai"
	"resumelab/internal/types"
)

// NewProviderClassifier wraps an AI provider as a keyword Classifier.
func NewProviderClassifier(provider ai.AIProvider) Classifier {
	return ClassifyFunc(func(ctx context.Context, jobDescription string) (JDKeywords, error) {
		out, _, err := provider.ClassifyKeywords(ctx, types.ClassifyKeywordsInput{JobDescription: jobDescription})
		if err != nil {
			return JDKeywords{}, err
		}
		return KeywordsFromOutput(out), nil
	})
}
