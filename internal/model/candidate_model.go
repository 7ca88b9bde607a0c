package model

import (
	"time"

	"gorm.io/datatypes"
)

type Candidate struct {
	Email          string         `gorm:"primaryKey;type:varchar(255)" json:"email"`
	Name           string         `gorm:"type:varchar(255)" json:"name"`
	ResumePath     string         `gorm:"type:varchar(512)" json:"resume_path,omitempty"`
	ResumeText     string         `gorm:"type:text" json:"resume_text"`
	CurrentCTC     float64        `gorm:"column:current_ctc" json:"current_ctc"`
	ExpectedCTC    float64        `gorm:"column:expected_ctc" json:"expected_ctc"`
	AdditionalInfo datatypes.JSON `json:"additional_info,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (c *Candidate) TableName() string {
	return "candidates"
}
