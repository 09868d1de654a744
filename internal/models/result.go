package models

// ProcessResult is the public payload returned for a processed submission.
type ProcessResult struct {
	Email          string  `json:"email"`
	Score          float64 `json:"score"`
	EmailStatus    bool    `json:"email_status"`
	Message        string  `json:"message"`
	JobDescription string  `json:"job_description"`
}

type SimilarApplication struct {
	ApplicationID string  `json:"application_id"`
	Email         string  `json:"email"`
	Similarity    float32 `json:"similarity"`
}
