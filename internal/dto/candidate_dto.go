package dto

// CandidateResultDTO reports what happened to one uploaded resume.
type CandidateResultDTO struct {
	FileName      string `json:"file_name"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	Synthetic     bool   `json:"synthetic"`
	Source        string `json:"source,omitempty"`
	TextExtracted bool   `json:"text_extracted"`
	Error         string `json:"error,omitempty"`
}

type SyntheticEmailWarning struct {
	File  string `json:"file"`
	Email string `json:"email"`
}

type ProcessAndMatchDTO struct {
	JobID           uint                    `json:"job_id"`
	Processed       []CandidateResultDTO    `json:"processed"`
	SyntheticEmails []SyntheticEmailWarning `json:"synthetic_emails,omitempty"`
	BestMatch       string                  `json:"best_match,omitempty"`
	Ranking         *RankingDTO             `json:"ranking"`
	RankingAnalysis *ResumeAnalysisDTO      `json:"ranking_analysis"`
}

// ResumeAnalysisDTO is the oracle's free-form comparison. Resumes[i] labels
// the resume the analysis calls resume_id i+1.
type ResumeAnalysisDTO struct {
	Resumes  []string       `json:"resumes"`
	Analysis map[string]any `json:"analysis"`
}

type IdentityProbeDTO struct {
	FileName    string         `json:"file_name"`
	OracleEmail string         `json:"oracle_email,omitempty"`
	Details     map[string]any `json:"details"`
	Email       string         `json:"email,omitempty"`
	Synthetic   bool           `json:"synthetic"`
	Source      string         `json:"source,omitempty"`
	Error       string         `json:"error,omitempty"`
	TextLength  int            `json:"text_length"`
	TextSample  string         `json:"text_sample"`
}
