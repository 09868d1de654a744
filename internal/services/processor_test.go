package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"alfredoptarigan/application-processor/internal/apperrors"
	"alfredoptarigan/application-processor/internal/models"
	"alfredoptarigan/application-processor/internal/repositories"
)

type stubAppRepo struct {
	existing   *models.Application
	created    []*models.Application
	createErr  error
	findErr    error
	onConflict *models.Application // returned by FindExact after the first call
	findCalls  int
}

func (s *stubAppRepo) Create(app *models.Application) error {
	if s.createErr != nil {
		return s.createErr
	}
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	s.created = append(s.created, app)
	return nil
}

func (s *stubAppRepo) FindExact(email, resumeContent, jobDescription string) (*models.Application, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.findCalls > 1 && s.onConflict != nil {
		return s.onConflict, nil
	}
	return s.existing, nil
}

func (s *stubAppRepo) FindByID(id uuid.UUID) (*models.Application, error) {
	return nil, fmt.Errorf("not found")
}

func (s *stubAppRepo) FindAll() ([]models.Application, error) {
	return nil, nil
}

type stubErrRepo struct {
	messages  []string
	createErr error
}

func (s *stubErrRepo) Create(message string) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.messages = append(s.messages, message)
	return nil
}

func (s *stubErrRepo) Recent(limit int) ([]models.ErrorLog, error) {
	return nil, nil
}

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(data []byte, declaredType string) (string, error) {
	return s.text, s.err
}

type stubValidator struct {
	isResume bool
	err      error
}

func (s *stubValidator) IsResume(ctx context.Context, text string) (bool, error) {
	return s.isResume, s.err
}

type stubSummarizer struct {
	summary string
	err     error
}

func (s *stubSummarizer) Summarize(ctx context.Context, jobDescription string) (string, error) {
	return s.summary, s.err
}

type stubScorer struct {
	value float64
	err   error
}

func (s *stubScorer) Score(ctx context.Context, resumeText, summaryText string) (*ScoreResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ScoreResult{Value: s.value, ResumeEmbedding: []float32{0.1, 0.2}}, nil
}

func (s *stubScorer) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, s.err
}

type stubNotifier struct {
	delivered bool
	err       error
	sentTo    []string
}

func (s *stubNotifier) SendInvitation(ctx context.Context, email string, score float64) (bool, error) {
	s.sentTo = append(s.sentTo, email)
	return s.delivered, s.err
}

type stubIndexer struct {
	jobs []IndexJob
}

func (s *stubIndexer) Start(ctx context.Context) {}
func (s *stubIndexer) Stop()                     {}
func (s *stubIndexer) Enqueue(job IndexJob)      { s.jobs = append(s.jobs, job) }

type processorFixture struct {
	appRepo    *stubAppRepo
	errRepo    *stubErrRepo
	extractor  *stubExtractor
	validator  *stubValidator
	summarizer *stubSummarizer
	scorer     *stubScorer
	notifier   *stubNotifier
	indexer    *stubIndexer
	processor  ApplicationProcessor
}

func newProcessorFixture() *processorFixture {
	f := &processorFixture{
		appRepo:    &stubAppRepo{},
		errRepo:    &stubErrRepo{},
		extractor:  &stubExtractor{text: "Jane Doe\njane.doe@example.com\nSoftware Engineer"},
		validator:  &stubValidator{isResume: true},
		summarizer: &stubSummarizer{summary: "Looking for a Go developer"},
		scorer:     &stubScorer{value: 85.0},
		notifier:   &stubNotifier{delivered: true},
		indexer:    &stubIndexer{},
	}
	f.processor = NewApplicationProcessor(
		f.appRepo,
		f.errRepo,
		f.extractor,
		f.validator,
		f.summarizer,
		f.scorer,
		f.notifier,
		f.indexer,
		70.0,
		zap.NewNop(),
	)
	return f
}

func (f *processorFixture) process(t *testing.T) (*models.ProcessResult, error) {
	t.Helper()
	return f.processor.Process(context.Background(), ResumeUpload{
		Filename: "resume.pdf",
		Data:     []byte("%PDF-1.4"),
	}, "We need a Go developer")
}

func TestProcessPassingCandidate(t *testing.T) {
	f := newProcessorFixture()

	result, err := f.process(t)

	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", result.Email)
	assert.Equal(t, 85.0, result.Score)
	assert.True(t, result.EmailStatus)
	assert.Equal(t, MessagePassedSent, result.Message)
	require.Len(t, f.appRepo.created, 1)
	assert.True(t, f.appRepo.created[0].EmailStatus)
	require.Len(t, f.indexer.jobs, 1)
	assert.Equal(t, f.appRepo.created[0].ID.String(), f.indexer.jobs[0].ApplicationID)
	assert.Empty(t, f.errRepo.messages)
}

func TestProcessThresholdIsInclusive(t *testing.T) {
	f := newProcessorFixture()
	f.scorer.value = 70.0

	result, err := f.process(t)

	require.NoError(t, err)
	assert.Equal(t, MessagePassedSent, result.Message)
	assert.True(t, result.EmailStatus)
	assert.Len(t, f.notifier.sentTo, 1)
}

func TestProcessBelowThresholdSkipsNotification(t *testing.T) {
	f := newProcessorFixture()
	f.scorer.value = 69.99

	result, err := f.process(t)

	require.NoError(t, err)
	assert.Equal(t, MessageBelowCutoff, result.Message)
	assert.False(t, result.EmailStatus)
	assert.Empty(t, f.notifier.sentTo)
	require.Len(t, f.appRepo.created, 1)
	assert.False(t, f.appRepo.created[0].EmailStatus)
}

func TestProcessNotificationFailureIsNonFatal(t *testing.T) {
	f := newProcessorFixture()
	f.notifier.delivered = false
	f.notifier.err = fmt.Errorf("connection refused")

	result, err := f.process(t)

	require.NoError(t, err)
	assert.Equal(t, MessagePassedNotSent, result.Message)
	assert.False(t, result.EmailStatus)
	require.Len(t, f.appRepo.created, 1)
	assert.False(t, f.appRepo.created[0].EmailStatus)
	require.Len(t, f.errRepo.messages, 1)
	assert.Contains(t, f.errRepo.messages[0], "jane.doe@example.com")
	assert.Contains(t, f.errRepo.messages[0], "notify:")
}

func TestProcessProviderRejectionIsNonFatal(t *testing.T) {
	f := newProcessorFixture()
	f.notifier.delivered = false
	f.notifier.err = nil

	result, err := f.process(t)

	require.NoError(t, err)
	assert.Equal(t, MessagePassedNotSent, result.Message)
	assert.False(t, result.EmailStatus)
	require.Len(t, f.errRepo.messages, 1)
}

func TestProcessMissingEmail(t *testing.T) {
	f := newProcessorFixture()
	f.extractor.text = "Jane Doe\nSoftware Engineer\nNo contact details"

	_, err := f.process(t)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CategoryInput, appErr.Category)
	assert.Equal(t, 400, appErr.Status)
	assert.Empty(t, f.errRepo.messages, "input errors must not be recorded")
	assert.Empty(t, f.appRepo.created)
}

func TestProcessNotAResume(t *testing.T) {
	f := newProcessorFixture()
	f.validator.isResume = false

	_, err := f.process(t)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CategoryInput, appErr.Category)
	assert.Empty(t, f.errRepo.messages, "a not-a-resume verdict is not a system failure")
	assert.Empty(t, f.notifier.sentTo)
}

func TestProcessExtractionFailureNotRecorded(t *testing.T) {
	f := newProcessorFixture()
	f.extractor.err = apperrors.NewInput("extract", 422, "failed to extract text from resume", fmt.Errorf("malformed PDF"))

	_, err := f.process(t)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 422, appErr.Status)
	assert.Empty(t, f.errRepo.messages)
}

func TestProcessExtractionFailureLoggedAtInfoOnly(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	f := newProcessorFixture()
	f.extractor.err = apperrors.NewInput("extract", 422, "failed to extract text from resume", fmt.Errorf("malformed PDF"))
	f.processor = NewApplicationProcessor(
		f.appRepo, f.errRepo, f.extractor, f.validator, f.summarizer,
		f.scorer, f.notifier, f.indexer, 70.0, zap.New(core))

	_, err := f.process(t)

	require.Error(t, err)
	assert.Empty(t, f.errRepo.messages)
	assert.Equal(t, 1, logs.FilterMessage("resume text extraction failed").Len())
}

func TestProcessSummarizerFailureIsRecorded(t *testing.T) {
	f := newProcessorFixture()
	f.summarizer.err = apperrors.NewDependency("summarize", "failed to generate job summary", fmt.Errorf("deadline exceeded"))

	_, err := f.process(t)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CategoryDependency, appErr.Category)
	require.Len(t, f.errRepo.messages, 1)
	assert.Empty(t, f.appRepo.created)
}

func TestProcessScorerFailureIsRecorded(t *testing.T) {
	f := newProcessorFixture()
	f.scorer.err = apperrors.NewDependency("score", "failed to embed resume text", fmt.Errorf("quota exceeded"))

	_, err := f.process(t)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CategoryDependency, appErr.Category)
	require.Len(t, f.errRepo.messages, 1)
}

func TestProcessReplaysExistingApplication(t *testing.T) {
	f := newProcessorFixture()
	score := 42.5
	f.appRepo.existing = &models.Application{
		ID:             uuid.New(),
		Email:          "jane.doe@example.com",
		JobDescription: "We need a Go developer",
		Score:          &score,
		EmailStatus:    false,
	}

	result, err := f.process(t)

	require.NoError(t, err)
	assert.Equal(t, MessageExisting, result.Message)
	assert.Equal(t, 42.5, result.Score)
	assert.False(t, result.EmailStatus)
	assert.Empty(t, f.notifier.sentTo, "replay must not re-notify")
	assert.Empty(t, f.appRepo.created)
	assert.Empty(t, f.indexer.jobs)
}

func TestProcessDuplicateRaceReReadsWinner(t *testing.T) {
	f := newProcessorFixture()
	score := 91.0
	f.appRepo.createErr = repositories.ErrDuplicateApplication
	f.appRepo.onConflict = &models.Application{
		ID:          uuid.New(),
		Email:       "jane.doe@example.com",
		Score:       &score,
		EmailStatus: true,
	}

	result, err := f.process(t)

	require.NoError(t, err)
	assert.Equal(t, MessageExisting, result.Message)
	assert.Equal(t, 91.0, result.Score)
	assert.True(t, result.EmailStatus)
}

func TestProcessPersistFailure(t *testing.T) {
	f := newProcessorFixture()
	f.appRepo.createErr = fmt.Errorf("connection reset")

	_, err := f.process(t)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CategoryPersistence, appErr.Category)
	assert.Equal(t, 500, appErr.Status)
	require.Len(t, f.errRepo.messages, 1)
}

func TestProcessDedupLookupFailure(t *testing.T) {
	f := newProcessorFixture()
	f.appRepo.findErr = errors.New("connection reset")

	_, err := f.process(t)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CategoryPersistence, appErr.Category)
	require.Len(t, f.errRepo.messages, 1)
}

func TestProcessErrorLogWriteFailureDoesNotMaskError(t *testing.T) {
	f := newProcessorFixture()
	f.summarizer.err = apperrors.NewDependency("summarize", "failed to generate job summary", fmt.Errorf("deadline exceeded"))
	f.errRepo.createErr = fmt.Errorf("error_logs unavailable")

	_, err := f.process(t)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "summarize", appErr.Stage)
}
