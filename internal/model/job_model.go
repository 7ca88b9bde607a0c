package model

import "time"

const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

type Job struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	JDText      string    `gorm:"column:jd_text;type:text" json:"jd_text"`
	MinBudget   float64   `json:"min_budget"`
	MaxBudget   float64   `json:"max_budget"`
	Status      string    `gorm:"type:varchar(20);default:active;index" json:"status"`
	RecruiterID *uint     `json:"recruiter_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}

// Requirements is the text scored against, preferring the dedicated JD over the description.
func (j *Job) Requirements() string {
	if j.JDText != "" {
		return j.JDText
	}
	return j.Description
}

func IsValidJobStatus(status string) bool {
	switch status {
	case JobStatusActive, JobStatusClosed, JobStatusDraft:
		return true
	}
	return false
}
