package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/application-processor/internal/apperrors"
)

func TestSummarizeReturnsTrimmedSummary(t *testing.T) {
	gemini := &stubGemini{textOut: []string{"  A Go developer with Postgres experience.  "}}
	s := NewSummarizer(gemini, 4000, 3, zap.NewNop())

	summary, err := s.Summarize(context.Background(), "We need a Go developer")

	require.NoError(t, err)
	assert.Equal(t, "A Go developer with Postgres experience.", summary)
	assert.Equal(t, 1, gemini.textCalls)
}

func TestSummarizeEmptyJobDescription(t *testing.T) {
	gemini := &stubGemini{textOut: []string{"unused"}}
	s := NewSummarizer(gemini, 4000, 3, zap.NewNop())

	_, err := s.Summarize(context.Background(), "   \n  ")

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CategoryInput, appErr.Category)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, 0, gemini.textCalls)
}

func TestSummarizeRetriesOnceOnEmptyOutput(t *testing.T) {
	gemini := &stubGemini{textOut: []string{"", "A valid summary."}}
	s := NewSummarizer(gemini, 4000, 3, zap.NewNop())

	summary, err := s.Summarize(context.Background(), "We need a Go developer")

	require.NoError(t, err)
	assert.Equal(t, "A valid summary.", summary)
	assert.Equal(t, 2, gemini.textCalls)
}

func TestSummarizeFailsAfterSecondBadOutput(t *testing.T) {
	gemini := &stubGemini{textOut: []string{"", ""}}
	s := NewSummarizer(gemini, 4000, 3, zap.NewNop())

	_, err := s.Summarize(context.Background(), "We need a Go developer")

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CategoryDependency, appErr.Category)
	assert.Equal(t, 2, gemini.textCalls)
}

func TestSummarizeRejectsOverlongOutput(t *testing.T) {
	long := strings.Repeat("x", 5000)
	gemini := &stubGemini{textOut: []string{long, long}}
	s := NewSummarizer(gemini, 4000, 3, zap.NewNop())

	_, err := s.Summarize(context.Background(), "We need a Go developer")

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CategoryDependency, appErr.Category)
}

func TestSummarizeTransportFailure(t *testing.T) {
	gemini := &stubGemini{textErr: fmt.Errorf("deadline exceeded")}
	s := NewSummarizer(gemini, 4000, 3, zap.NewNop())

	_, err := s.Summarize(context.Background(), "We need a Go developer")

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CategoryDependency, appErr.Category)
	assert.Equal(t, "summarize", appErr.Stage)
}
