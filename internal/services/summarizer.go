package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/application-processor/internal/apperrors"
)

// Summarizer compresses a job description into one requirements paragraph.
// The output must be non-empty and bounded; a bad output gets exactly one
// retry before the stage fails.
type Summarizer interface {
	Summarize(ctx context.Context, jobDescription string) (string, error)
}

type summarizer struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxChars      int
	maxRetries    int
	logger        *zap.Logger
}

func NewSummarizer(gemini GeminiService, maxChars, maxRetries int, logger *zap.Logger) Summarizer {
	if maxChars <= 0 {
		maxChars = 4000
	}
	return &summarizer{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxChars:      maxChars,
		maxRetries:    maxRetries,
		logger:        logger,
	}
}

func (s *summarizer) Summarize(ctx context.Context, jobDescription string) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", apperrors.NewInput("summarize", 400, "job description is empty", nil)
	}

	prompt := s.promptBuilder.BuildSummaryPrompt(jobDescription)

	var lastProblem string
	for attempt := 0; attempt < 2; attempt++ {
		response, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.1, s.maxRetries)
		if err != nil {
			return "", apperrors.NewDependency("summarize", "failed to generate job summary", err)
		}

		summary := strings.TrimSpace(response)
		switch {
		case summary == "":
			lastProblem = "empty summary"
		case len(summary) > s.maxChars:
			lastProblem = "summary exceeds length bound"
		default:
			return summary, nil
		}

		s.logger.Warn("rejected summarizer output",
			zap.String("reason", lastProblem),
			zap.Int("attempt", attempt+1))
	}

	return "", apperrors.NewDependency("summarize",
		"job summary invalid after retry: "+lastProblem, nil)
}
