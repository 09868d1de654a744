package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/application-processor/internal/models"
)

// ErrDuplicateApplication reports that a row with the same dedup key was
// committed first. Callers resolve it by re-reading the existing row.
var ErrDuplicateApplication = errors.New("application already exists")

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindExact(email, resumeContent, jobDescription string) (*models.Application, error)
	FindByID(id uuid.UUID) (*models.Application, error)
	FindAll() ([]models.Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(app *models.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.DedupKey == "" {
		app.DedupKey = models.DedupKeyFor(app.Email, app.ResumeContent, app.JobDescription)
	}

	if err := r.db.Create(app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateApplication
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// FindExact looks up a previously committed submission matching the exact
// (email, resume, job description) triple. A miss is (nil, nil), not an
// error: not-found is an expected outcome of the duplicate check.
func (r *applicationRepository) FindExact(email, resumeContent, jobDescription string) (*models.Application, error) {
	key := models.DedupKeyFor(email, resumeContent, jobDescription)

	var app models.Application
	if err := r.db.Where("dedup_key = ?", key).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) FindAll() ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.Order("created_at ASC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) FindByID(id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("application not found")
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}
