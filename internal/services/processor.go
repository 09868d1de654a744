package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"alfredoptarigan/application-processor/internal/apperrors"
	"alfredoptarigan/application-processor/internal/models"
	"alfredoptarigan/application-processor/internal/repositories"
)

// Result messages for the submission payload.
const (
	MessageExisting      = "Retrieved existing application score from database"
	MessagePassedSent    = "Candidate has passed the eligibility for interview and interview invitation sent successfully"
	MessagePassedNotSent = "Candidate has passed the eligibility for interview, but failed to send the email"
	MessageBelowCutoff   = "Candidate did not meet the minimum score requirement"
)

// ResumeUpload is the submitted resume artifact with its declared name.
type ResumeUpload struct {
	Filename string
	Data     []byte
}

// ApplicationProcessor runs one submission through the full pipeline:
// extract, validate, extract email, deduplicate, summarize, score, notify,
// persist. Stages run strictly in that order and each is a hard gate.
type ApplicationProcessor interface {
	Process(ctx context.Context, resume ResumeUpload, jobDescription string) (*models.ProcessResult, error)
}

type applicationProcessor struct {
	appRepo    repositories.ApplicationRepository
	errRepo    repositories.ErrorLogRepository
	extractor  DocumentExtractor
	validator  ResumeValidator
	summarizer Summarizer
	scorer     Scorer
	notifier   Notifier
	indexer    Indexer
	threshold  float64
	logger     *zap.Logger
}

func NewApplicationProcessor(
	appRepo repositories.ApplicationRepository,
	errRepo repositories.ErrorLogRepository,
	extractor DocumentExtractor,
	validator ResumeValidator,
	summarizer Summarizer,
	scorer Scorer,
	notifier Notifier,
	indexer Indexer,
	threshold float64,
	logger *zap.Logger,
) ApplicationProcessor {
	return &applicationProcessor{
		appRepo:    appRepo,
		errRepo:    errRepo,
		extractor:  extractor,
		validator:  validator,
		summarizer: summarizer,
		scorer:     scorer,
		notifier:   notifier,
		indexer:    indexer,
		threshold:  threshold,
		logger:     logger,
	}
}

func (p *applicationProcessor) Process(ctx context.Context, resume ResumeUpload, jobDescription string) (*models.ProcessResult, error) {
	// Stage 1: extract resume text. Input errors surface directly and are
	// never recorded in error_logs.
	resumeText, err := p.extractor.Extract(resume.Data, filepath.Ext(resume.Filename))
	if err != nil {
		p.logger.Info("resume text extraction failed",
			zap.String("filename", resume.Filename),
			zap.Error(err))
		return nil, err
	}

	// Stage 2: classify the text. A "not a resume" verdict is an expected
	// user-input outcome, logged at info level only.
	isResume, err := p.validator.IsResume(ctx, resumeText)
	if err != nil {
		p.recordFailure(err.Error())
		return nil, err
	}
	if !isResume {
		p.logger.Info("uploaded document rejected by resume validation")
		return nil, apperrors.NewInput("validate", 400,
			"the uploaded document does not appear to be a resume", nil)
	}

	// Stage 3: deterministic email extraction, first match wins.
	email := ExtractEmail(resumeText)
	if email == "" {
		return nil, apperrors.NewInput("extract_email", 400,
			"no email address found in resume", nil)
	}

	// Stage 4: duplicate check. An exact (email, resume, job description)
	// match short-circuits the pipeline and replays the committed outcome.
	if existing, err := p.appRepo.FindExact(email, resumeText, jobDescription); err != nil {
		p.recordFailure(fmt.Sprintf("dedup: %v", err))
		return nil, apperrors.NewPersistence("dedup", "failed to check for existing application", err)
	} else if existing != nil {
		return p.resultFrom(existing, MessageExisting), nil
	}

	// Stage 5: summarize the job description.
	summary, err := p.summarizer.Summarize(ctx, jobDescription)
	if err != nil {
		p.recordDependencyFailure(err)
		return nil, err
	}

	// Stage 6: semantic match score.
	scored, err := p.scorer.Score(ctx, resumeText, summary)
	if err != nil {
		p.recordDependencyFailure(err)
		return nil, err
	}

	// Stage 7: decision. The threshold is inclusive; a failed send
	// downgrades email_status but never fails the request.
	emailStatus := false
	message := MessageBelowCutoff
	if scored.Value >= p.threshold {
		delivered, sendErr := p.notifier.SendInvitation(ctx, email, scored.Value)
		if delivered {
			emailStatus = true
			message = MessagePassedSent
		} else {
			message = MessagePassedNotSent
			if sendErr == nil {
				sendErr = fmt.Errorf("provider rejected the message")
			}
			notifErr := apperrors.NewNotification("notify",
				fmt.Sprintf("failed to send interview invitation to %s", email), sendErr)
			p.recordFailure(notifErr.Error())
		}
	}

	// Stage 8: persist. The unique dedup_key index resolves the race
	// between two concurrent identical submissions: the loser re-reads the
	// winner's row.
	app := &models.Application{
		Email:          email,
		ResumeContent:  resumeText,
		JobDescription: jobDescription,
		Score:          &scored.Value,
		EmailStatus:    emailStatus,
	}
	if err := p.appRepo.Create(app); err != nil {
		if errors.Is(err, repositories.ErrDuplicateApplication) {
			existing, findErr := p.appRepo.FindExact(email, resumeText, jobDescription)
			if findErr == nil && existing != nil {
				return p.resultFrom(existing, MessageExisting), nil
			}
		}
		p.recordFailure(fmt.Sprintf("persist: %v", err))
		return nil, apperrors.NewPersistence("persist", "failed to save application", err)
	}

	p.indexer.Enqueue(IndexJob{
		ApplicationID: app.ID.String(),
		Email:         email,
		Embedding:     scored.ResumeEmbedding,
	})

	return &models.ProcessResult{
		Email:          email,
		Score:          scored.Value,
		EmailStatus:    emailStatus,
		Message:        message,
		JobDescription: jobDescription,
	}, nil
}

func (p *applicationProcessor) resultFrom(app *models.Application, message string) *models.ProcessResult {
	score := 0.0
	if app.Score != nil {
		score = *app.Score
	}
	return &models.ProcessResult{
		Email:          app.Email,
		Score:          score,
		EmailStatus:    app.EmailStatus,
		Message:        message,
		JobDescription: app.JobDescription,
	}
}

// recordDependencyFailure writes dependency errors to error_logs; input
// errors pass through untouched.
func (p *applicationProcessor) recordDependencyFailure(err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Category == apperrors.CategoryInput {
		return
	}
	p.recordFailure(err.Error())
}

// recordFailure is best-effort: a failed error_logs write must never raise.
func (p *applicationProcessor) recordFailure(message string) {
	if err := p.errRepo.Create(message); err != nil {
		p.logger.Error("failed to write error log",
			zap.String("original", message),
			zap.Error(err))
	}
}
