package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Dubey-IITB/resume-tracker/internal/dto"
	"github.com/Dubey-IITB/resume-tracker/internal/logger"
	"github.com/Dubey-IITB/resume-tracker/internal/model"
	"github.com/Dubey-IITB/resume-tracker/internal/repository"
	"github.com/Dubey-IITB/resume-tracker/internal/response"
	"github.com/Dubey-IITB/resume-tracker/internal/service"
	"github.com/Dubey-IITB/resume-tracker/internal/util"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	implicitJobTitle     = "Position"
	implicitMinBudgetPct = 0.9
	probeSampleLength    = 500
)

type resumeOracle interface {
	ExtractEmail(ctx context.Context, text string) string
	ExtractDetails(ctx context.Context, text string) map[string]any
	AnalyzeResumes(ctx context.Context, jobDescription string, resumes []string) map[string]any
}

type ranker interface {
	RankJob(ctx context.Context, jobID uint) (*dto.RankingDTO, error)
}

// Upload is one resume file with the salary figures the recruiter typed in.
type Upload struct {
	FileName    string
	Data        []byte
	CurrentCTC  float64
	ExpectedCTC float64
	// Email is an optional address supplied alongside the file.
	Email string
}

type CandidateUsecase struct {
	candidates CandidateStore
	jobs       JobStore
	files      FileStore
	extractor  service.TextExtractor
	oracle     resumeOracle
	resolver   *IdentityResolver
	ranking    ranker
	log        *zap.Logger
}

func NewCandidateUsecase(candidates CandidateStore, jobs JobStore, files FileStore, extractor service.TextExtractor, oracle resumeOracle, ranking ranker, log *zap.Logger) *CandidateUsecase {
	log = logger.OrNop(log)
	return &CandidateUsecase{
		candidates: candidates,
		jobs:       jobs,
		files:      files,
		extractor:  extractor,
		oracle:     oracle,
		resolver:   NewIdentityResolver(oracle, log),
		ranking:    ranking,
		log:        log,
	}
}

// ProcessResume turns one upload into a stored candidate. Uploads that
// resolve to an existing email overwrite its text and salary figures.
func (u *CandidateUsecase) ProcessResume(ctx context.Context, up Upload) (dto.CandidateResultDTO, error) {
	result, _, err := u.processResume(ctx, up)
	return result, err
}

// processResume also hands back the normalised text it stored.
func (u *CandidateUsecase) processResume(ctx context.Context, up Upload) (dto.CandidateResultDTO, string, error) {
	result := dto.CandidateResultDTO{FileName: up.FileName}
	if up.CurrentCTC < 0 || up.ExpectedCTC < 0 {
		return result, "", fmt.Errorf("%w: salary figures must not be negative", ErrInvalidInput)
	}

	text := u.extractText(ctx, up)
	result.TextExtracted = text != ""

	identity, err := u.resolver.Resolve(ctx, text, up.FileName, up.Email)
	if err != nil {
		return result, "", err
	}
	result.Email = identity.Email
	result.Synthetic = identity.Synthetic
	result.Source = string(identity.Source)

	details := u.details(ctx, text)
	candidate := &model.Candidate{
		Email:       identity.Email,
		Name:        candidateName(details, up.FileName),
		ResumeText:  text,
		CurrentCTC:  up.CurrentCTC,
		ExpectedCTC: up.ExpectedCTC,
	}
	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			candidate.AdditionalInfo = datatypes.JSON(raw)
		}
	}
	if u.files != nil && len(up.Data) > 0 {
		path, err := u.files.Save(ctx, FileStem(up.FileName), up.Data)
		if err != nil {
			u.log.Warn("cannot store resume file", zap.String("file", up.FileName), zap.Error(err))
		} else {
			candidate.ResumePath = path
		}
	}

	if err := u.candidates.Upsert(ctx, candidate); err != nil {
		return result, "", err
	}
	result.Name = candidate.Name
	u.log.Info("candidate stored",
		zap.String("email", candidate.Email),
		zap.String("source", result.Source),
		zap.Bool("text_extracted", result.TextExtracted),
	)
	return result, text, nil
}

// ProcessBatch handles uploads in order and reports each one separately.
// A failed item never stops the rest.
func (u *CandidateUsecase) ProcessBatch(ctx context.Context, uploads []Upload) []dto.CandidateResultDTO {
	results, _ := u.processBatch(ctx, uploads)
	return results
}

// processBatch returns the stored text of every successful item, keyed by
// its position in uploads.
func (u *CandidateUsecase) processBatch(ctx context.Context, uploads []Upload) ([]dto.CandidateResultDTO, map[int]string) {
	results := make([]dto.CandidateResultDTO, 0, len(uploads))
	texts := make(map[int]string, len(uploads))
	for i, up := range uploads {
		res, text, err := u.processResume(ctx, up)
		if err != nil {
			u.log.Warn("resume rejected", zap.String("file", up.FileName), zap.Error(err))
			res.Error = err.Error()
		} else {
			texts[i] = text
		}
		results = append(results, res)
	}
	return results, texts
}

// ProcessAndMatch ingests the uploads, creates a job from a bare description
// and budget, and ranks the whole pool against it. The job is only created
// once some upload went through and is removed again if ranking fails.
func (u *CandidateUsecase) ProcessAndMatch(ctx context.Context, description string, budget float64, uploads []Upload) (*dto.ProcessAndMatchDTO, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}
	if budget <= 0 {
		return nil, fmt.Errorf("%w: budget must be positive", ErrInvalidInput)
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: at least one resume is required", ErrInvalidInput)
	}

	processed, texts := u.processBatch(ctx, uploads)
	if len(texts) == 0 {
		return nil, &BatchRejectedError{Results: processed}
	}

	job := &model.Job{
		Title:       implicitJobTitle,
		Description: description,
		JDText:      description,
		MinBudget:   matchingBudgetFloor(budget),
		MaxBudget:   budget,
		Status:      model.JobStatusActive,
	}
	if err := u.jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	out := &dto.ProcessAndMatchDTO{JobID: job.ID, Processed: processed}
	for _, res := range processed {
		if res.Error == "" && res.Synthetic {
			out.SyntheticEmails = append(out.SyntheticEmails, dto.SyntheticEmailWarning{File: res.FileName, Email: res.Email})
		}
	}

	ranking, err := u.ranking.RankJob(ctx, job.ID)
	if err != nil {
		// The request context may already be done.
		if delErr := u.jobs.DeleteJob(context.WithoutCancel(ctx), job.ID); delErr != nil {
			u.log.Warn("cannot remove job after failed ranking", zap.Uint("job_id", job.ID), zap.Error(delErr))
		}
		return nil, err
	}
	out.Ranking = ranking
	out.BestMatch = ranking.BestMatch

	labels := make([]string, 0, len(texts))
	resumes := make([]string, 0, len(texts))
	for i, res := range processed {
		if text, ok := texts[i]; ok {
			labels = append(labels, res.Email)
			resumes = append(resumes, text)
		}
	}
	out.RankingAnalysis = &dto.ResumeAnalysisDTO{
		Resumes:  labels,
		Analysis: u.oracle.AnalyzeResumes(ctx, description, resumes),
	}
	return out, nil
}

// AnalyzeResumes asks the oracle for a written comparison of the uploads
// against a description. Nothing is stored.
func (u *CandidateUsecase) AnalyzeResumes(ctx context.Context, description string, uploads []Upload) (*dto.ResumeAnalysisDTO, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: at least one resume is required", ErrInvalidInput)
	}

	labels := make([]string, len(uploads))
	resumes := make([]string, len(uploads))
	var extracted int
	for i, up := range uploads {
		labels[i] = up.FileName
		resumes[i] = u.extractText(ctx, up)
		if resumes[i] != "" {
			extracted++
		}
	}
	if extracted == 0 {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisUnavailable, ErrExtractionFailure)
	}

	analysis := u.oracle.AnalyzeResumes(ctx, description, resumes)
	if len(analysis) == 0 {
		return nil, ErrAnalysisUnavailable
	}
	return &dto.ResumeAnalysisDTO{Resumes: labels, Analysis: analysis}, nil
}

// ExtractIdentity runs extraction and identity resolution on one file
// without storing anything.
func (u *CandidateUsecase) ExtractIdentity(ctx context.Context, up Upload) dto.IdentityProbeDTO {
	text := u.extractText(ctx, up)
	probe := dto.IdentityProbeDTO{
		FileName:   up.FileName,
		TextLength: len([]rune(text)),
		TextSample: util.Truncate(text, probeSampleLength),
		Details:    u.details(ctx, text),
	}
	identity, err := u.resolver.Resolve(ctx, text, up.FileName, up.Email)
	probe.OracleEmail = identity.OracleAnswer
	if err != nil {
		probe.Error = err.Error()
		return probe
	}
	probe.Email = identity.Email
	probe.Synthetic = identity.Synthetic
	probe.Source = string(identity.Source)
	return probe
}

func (u *CandidateUsecase) ListCandidates(ctx context.Context, page, pageSize int) ([]model.Candidate, *response.Pagination, error) {
	page, pageSize = normalizePage(page, pageSize)
	rows, total, err := u.candidates.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, nil, err
	}
	return rows, response.NewPagination(page, pageSize, total, len(rows)), nil
}

func (u *CandidateUsecase) GetCandidate(ctx context.Context, email string) (*model.Candidate, error) {
	c, err := u.candidates.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCandidateNotFound, email)
		}
		return nil, err
	}
	return c, nil
}

func (u *CandidateUsecase) extractText(ctx context.Context, up Upload) string {
	if u.extractor == nil || len(up.Data) == 0 {
		return ""
	}
	raw, err := u.extractor.ExtractText(ctx, up.Data)
	if err != nil {
		u.log.Warn("text extraction failed", zap.String("file", up.FileName), zap.Error(err))
		return ""
	}
	return util.NormalizeText(raw)
}

func (u *CandidateUsecase) details(ctx context.Context, text string) map[string]any {
	if u.oracle == nil || text == "" {
		return map[string]any{}
	}
	d := u.oracle.ExtractDetails(ctx, text)
	if d == nil {
		return map[string]any{}
	}
	return d
}

// candidateName reads the name the oracle found, falling back to the file stem.
func candidateName(details map[string]any, fileName string) string {
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err == nil {
			for _, key := range []string{"name", "fullName", "full_name"} {
				if v := strings.TrimSpace(gjson.GetBytes(raw, key).String()); v != "" {
					return v
				}
			}
		}
	}
	return FileStem(fileName)
}

func matchingBudgetFloor(budget float64) float64 {
	return budget * implicitMinBudgetPct
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize < 1:
		pageSize = 10
	case pageSize > 100:
		pageSize = 100
	}
	return page, pageSize
}
