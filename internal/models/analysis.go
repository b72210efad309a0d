package models

import (
	"time"

	"github.com/google/uuid"
)

// ResumeSource records how the resume text entered the system.
type ResumeSource string

const (
	SourceUpload ResumeSource = "upload"
	SourcePaste  ResumeSource = "paste"
)

// Analysis is one completed resume/job-description evaluation, persisted
// for the history and similarity endpoints. Report holds the parsed
// EvaluationResult serialized as JSON.
type Analysis struct {
	ID             uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeSource   ResumeSource `gorm:"type:text;not null" json:"resume_source"`
	ResumeFilename string       `gorm:"type:text" json:"resume_filename,omitempty"`
	JobDescription string       `gorm:"type:text;not null" json:"job_description"`
	MatchScore     *int         `gorm:"type:integer" json:"match_score,omitempty"`
	Report         string       `gorm:"type:jsonb" json:"-"`
	RawModelText   string       `gorm:"type:text" json:"-"`
	CreatedAt      time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Analysis) TableName() string {
	return "analyses"
}
