package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/application-processor/internal/apperrors"
)

// ResumeValidator classifies extracted text as resume-like or not.
// Fail-closed: an ambiguous or empty model answer means "not a resume".
type ResumeValidator interface {
	IsResume(ctx context.Context, text string) (bool, error)
}

type resumeValidator struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
	logger        *zap.Logger
}

func NewResumeValidator(gemini GeminiService, maxRetries int, logger *zap.Logger) ResumeValidator {
	return &resumeValidator{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
		logger:        logger,
	}
}

func (v *resumeValidator) IsResume(ctx context.Context, text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}

	prompt := v.promptBuilder.BuildValidationPrompt(text)

	response, err := v.gemini.GenerateTextWithRetry(ctx, prompt, 0.1, v.maxRetries)
	if err != nil {
		return false, apperrors.NewDependency("validate", "resume validation service unavailable", err)
	}

	answer := strings.ToLower(strings.TrimSpace(response))
	switch answer {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		v.logger.Info("ambiguous validation answer, treating as not a resume",
			zap.String("answer", answer))
		return false, nil
	}
}
