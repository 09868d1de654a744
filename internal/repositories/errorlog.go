package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/application-processor/internal/models"
)

type ErrorLogRepository interface {
	Create(message string) error
	Recent(limit int) ([]models.ErrorLog, error)
}

type errorLogRepository struct {
	db *gorm.DB
}

func NewErrorLogRepository(db *gorm.DB) ErrorLogRepository {
	return &errorLogRepository{db: db}
}

func (r *errorLogRepository) Create(message string) error {
	entry := models.ErrorLog{
		ID:           uuid.New(),
		ErrorMessage: message,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to create error log: %w", err)
	}
	return nil
}

func (r *errorLogRepository) Recent(limit int) ([]models.ErrorLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var logs []models.ErrorLog
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list error logs: %w", err)
	}
	return logs, nil
}
