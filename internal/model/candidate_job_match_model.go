package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MatchStatusActive   = "active"
	MatchStatusSaved    = "saved"
	MatchStatusRejected = "rejected"
)

const (
	BudgetFitWithin   = "Within budget"
	BudgetFitSlightly = "Slightly above"
	BudgetFitAbove    = "Above budget"
	BudgetFitUnknown  = "Unknown"
)

type SalaryAnalysis struct {
	CurrentCTC                float64 `json:"current_ctc"`
	ExpectedCTC               float64 `json:"expected_ctc"`
	BudgetFit                 string  `json:"budget_fit"`
	SalaryGapPercentage       float64 `json:"salary_gap_percentage"`
	NegotiationRecommendation string  `json:"negotiation_recommendation"`
}

// ComparativeAnalysis summarises one ranking run and is repeated on every
// row the run wrote.
type ComparativeAnalysis struct {
	BestMatch            string `json:"best_match"`
	Reasoning            string `json:"reasoning"`
	SalaryConsiderations string `json:"salary_considerations"`
	RiskAssessment       string `json:"risk_assessment"`
}

type CandidateJobMatch struct {
	CandidateEmail       string                                  `gorm:"primaryKey;type:varchar(255)" json:"candidate_email"`
	JobID                uint                                    `gorm:"primaryKey;index" json:"job_id"`
	Candidate            *Candidate                              `gorm:"foreignKey:CandidateEmail;references:Email" json:"candidate,omitempty"`
	JDMatchScore         float64                                 `gorm:"column:jd_match_score" json:"jd_match_score"`
	ComparativeScore     float64                                 `json:"comparative_score"`
	OverallScore         float64                                 `json:"overall_score"`
	SalaryMatchScore     float64                                 `json:"salary_match_score"`
	TechnicalMatchScore  float64                                 `json:"technical_match_score"`
	ExperienceMatchScore float64                                 `json:"experience_match_score"`
	Strengths            datatypes.JSONSlice[string]             `json:"strengths"`
	Weaknesses           datatypes.JSONSlice[string]             `json:"weaknesses"`
	SalaryAnalysis       datatypes.JSONType[SalaryAnalysis]      `json:"salary_analysis"`
	Recommendation       string                                  `gorm:"type:text" json:"recommendation"`
	ComparativeAnalysis  datatypes.JSONType[ComparativeAnalysis] `json:"comparative_analysis"`
	Status               string                                  `gorm:"type:varchar(20);default:active" json:"status"`
	RankingRunID         uuid.UUID                               `gorm:"type:varchar(36)" json:"ranking_run_id"`
	CreatedAt            time.Time                               `json:"created_at"`
}

func (m *CandidateJobMatch) TableName() string {
	return "candidate_job_match"
}

func IsValidMatchStatus(status string) bool {
	switch status {
	case MatchStatusActive, MatchStatusSaved, MatchStatusRejected:
		return true
	}
	return false
}
