package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Application is one candidate submission: resume, job description, match
// score, and notification outcome. A row exists only for runs that reached
// the persist stage; failed runs leave an ErrorLog instead.
type Application struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email          string    `gorm:"type:text;not null" json:"email"`
	ResumeContent  string    `gorm:"type:text;not null" json:"resume_content"`
	JobDescription string    `gorm:"type:text;not null" json:"job_description"`
	DedupKey       string    `gorm:"type:char(64);not null;uniqueIndex" json:"-"`
	Score          *float64  `gorm:"type:decimal(5,2)" json:"score,omitempty"`
	EmailStatus    bool      `gorm:"not null;default:false" json:"email_status"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Application) TableName() string {
	return "applications"
}

// DedupKeyFor hashes the exact (email, resume, job description) triple.
// The unique index on this column is what serializes concurrent submissions
// of identical content.
func DedupKeyFor(email, resumeContent, jobDescription string) string {
	h := sha256.New()
	h.Write([]byte(email))
	h.Write([]byte{0})
	resumeSum := sha256.Sum256([]byte(resumeContent))
	h.Write(resumeSum[:])
	jdSum := sha256.Sum256([]byte(jobDescription))
	h.Write(jdSum[:])
	return hex.EncodeToString(h.Sum(nil))
}

type ErrorLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ErrorMessage string    `gorm:"type:text;not null" json:"error_message"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ErrorLog) TableName() string {
	return "error_logs"
}
