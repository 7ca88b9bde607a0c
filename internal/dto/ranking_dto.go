package dto

import (
	"time"

	"github.com/Dubey-IITB/resume-tracker/internal/model"
)

type RankedCandidateDTO struct {
	Rank                 int                  `json:"rank"`
	CandidateEmail       string               `json:"candidate_email"`
	Name                 string               `json:"name"`
	JDMatchScore         float64              `json:"jd_match_score"`
	ComparativeScore     float64              `json:"comparative_score"`
	OverallScore         float64              `json:"overall_score"`
	SalaryMatchScore     float64              `json:"salary_match_score"`
	TechnicalMatchScore  float64              `json:"technical_match_score"`
	ExperienceMatchScore float64              `json:"experience_match_score"`
	Strengths            []string             `json:"strengths"`
	Weaknesses           []string             `json:"weaknesses"`
	SalaryAnalysis       model.SalaryAnalysis `json:"salary_analysis"`
	Recommendation       string               `json:"recommendation"`
	Status               string               `json:"status"`
}

type RankingDTO struct {
	JobID               uint                       `json:"job_id"`
	JobTitle            string                     `json:"job_title"`
	RankingRunID        string                     `json:"ranking_run_id,omitempty"`
	RankedAt            *time.Time                 `json:"ranked_at,omitempty"`
	BestMatch           string                     `json:"best_match,omitempty"`
	ComparativeAnalysis *model.ComparativeAnalysis `json:"comparative_analysis,omitempty"`
	Candidates          []RankedCandidateDTO       `json:"candidates"`
}

// NewRankingDTO expects rows already in ranking order.
func NewRankingDTO(job *model.Job, rows []model.CandidateJobMatch, names map[string]string) *RankingDTO {
	out := &RankingDTO{
		JobID:      job.ID,
		JobTitle:   job.Title,
		Candidates: make([]RankedCandidateDTO, 0, len(rows)),
	}
	for i, row := range rows {
		name := names[row.CandidateEmail]
		if name == "" && row.Candidate != nil {
			name = row.Candidate.Name
		}
		out.Candidates = append(out.Candidates, RankedCandidateDTO{
			Rank:                 i + 1,
			CandidateEmail:       row.CandidateEmail,
			Name:                 name,
			JDMatchScore:         row.JDMatchScore,
			ComparativeScore:     row.ComparativeScore,
			OverallScore:         row.OverallScore,
			SalaryMatchScore:     row.SalaryMatchScore,
			TechnicalMatchScore:  row.TechnicalMatchScore,
			ExperienceMatchScore: row.ExperienceMatchScore,
			Strengths:            []string(row.Strengths),
			Weaknesses:           []string(row.Weaknesses),
			SalaryAnalysis:       row.SalaryAnalysis.Data(),
			Recommendation:       row.Recommendation,
			Status:               row.Status,
		})
	}
	if len(rows) > 0 {
		out.BestMatch = rows[0].CandidateEmail
		out.RankingRunID = rows[0].RankingRunID.String()
		if summary := rows[0].ComparativeAnalysis.Data(); summary.BestMatch != "" {
			out.ComparativeAnalysis = &summary
		}
		rankedAt := rows[0].CreatedAt
		if !rankedAt.IsZero() {
			out.RankedAt = &rankedAt
		}
	}
	return out
}
