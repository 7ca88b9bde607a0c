package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Dubey-IITB/resume-tracker/internal/dto"
	"github.com/Dubey-IITB/resume-tracker/internal/lock"
	"github.com/Dubey-IITB/resume-tracker/internal/logger"
	"github.com/Dubey-IITB/resume-tracker/internal/matching"
	"github.com/Dubey-IITB/resume-tracker/internal/model"
	"github.com/Dubey-IITB/resume-tracker/internal/repository"
	"github.com/Dubey-IITB/resume-tracker/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

type scorer interface {
	ScoreAgainstJob(ctx context.Context, candidate model.Candidate, job model.Job) float64
	ScoreGroup(ctx context.Context, candidates []model.Candidate, job model.Job) map[string]float64
}

type RankingUsecase struct {
	candidates  CandidateStore
	jobs        JobStore
	matches     MatchStore
	oracle      scorer
	locker      lock.Locker
	weights     matching.Weights
	concurrency int
	log         *zap.Logger
}

func NewRankingUsecase(candidates CandidateStore, jobs JobStore, matches MatchStore, oracle scorer, locker lock.Locker, weights matching.Weights, concurrency int, log *zap.Logger) *RankingUsecase {
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &RankingUsecase{
		candidates:  candidates,
		jobs:        jobs,
		matches:     matches,
		oracle:      oracle,
		locker:      locker,
		weights:     weights,
		concurrency: concurrency,
		log:         logger.OrNop(log),
	}
}

// RankJob scores the whole candidate pool against the job and replaces the
// job's persisted ranking. Runs for the same job are serialised. Either every
// row is written or none is.
func (u *RankingUsecase) RankJob(ctx context.Context, jobID uint) (*dto.RankingDTO, error) {
	runID := uuid.New()
	log := logger.WithRun(u.log, jobID, runID.String())
	fail := func(stage Stage, err error) (*dto.RankingDTO, error) {
		log.Error("ranking failed", zap.String(logger.FieldStage, string(StageFailed)), zap.String("failed_stage", string(stage)), zap.Error(err))
		return nil, &RankingError{JobID: jobID, Stage: stage, Err: err}
	}
	enter := func(stage Stage, fields ...zap.Field) {
		log.Info("ranking stage", append([]zap.Field{zap.String(logger.FieldStage, string(stage))}, fields...)...)
	}

	release, err := u.locker.Acquire(ctx, fmt.Sprintf("job:%d", jobID))
	if err != nil {
		return fail(StageFetching, fmt.Errorf("acquire job lock: %w", err))
	}
	defer release()

	enter(StageFetching)
	job, err := u.jobs.FindJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(StageFetching, &JobNotFoundError{JobID: jobID})
		}
		return fail(StageFetching, err)
	}
	candidates, err := u.candidates.All(ctx)
	if err != nil {
		return fail(StageFetching, err)
	}
	if len(candidates) == 0 {
		return fail(StageFetching, &NoCandidatesError{JobID: jobID})
	}

	enter(StageScoring, zap.Int("candidates", len(candidates)))
	jdScores, comparative := u.score(ctx, candidates, *job)
	if err := ctx.Err(); err != nil {
		return fail(StageScoring, err)
	}

	enter(StageBlending)
	rows := make([]model.CandidateJobMatch, len(candidates))
	names := make(map[string]string, len(candidates))
	for i, c := range candidates {
		comp, ok := comparative[c.Email]
		if !ok {
			comp = service.DefaultScore
		}
		res := matching.Blend(matching.Input{
			JDScore:          jdScores[i],
			ComparativeScore: comp,
			CurrentCTC:       c.CurrentCTC,
			ExpectedCTC:      c.ExpectedCTC,
			Budget:           job.MaxBudget,
		}, u.weights)
		rows[i] = matchRow(c.Email, job.ID, runID, res)
		names[c.Email] = c.Name
	}
	sortMatches(rows)
	summary := comparativeSummary(rows[0].CandidateEmail, job.MaxBudget)
	for i := range rows {
		rows[i].ComparativeAnalysis = summary
	}

	enter(StagePersisting, zap.Int("rows", len(rows)))
	if err := u.matches.ReplaceForJob(ctx, job.ID, rows); err != nil {
		return fail(StagePersisting, err)
	}

	enter(StageDone, zap.String("best_match", rows[0].CandidateEmail))
	return dto.NewRankingDTO(job, rows, names), nil
}

// score runs the per-candidate fan-out and the group comparison side by
// side. Neither returns an error; oracle failures already became defaults.
func (u *RankingUsecase) score(ctx context.Context, candidates []model.Candidate, job model.Job) ([]float64, map[string]float64) {
	jdScores := make([]float64, len(candidates))
	var comparative map[string]float64

	var g errgroup.Group
	g.Go(func() error {
		comparative = u.oracle.ScoreGroup(ctx, candidates, job)
		return nil
	})
	g.Go(func() error {
		var fan errgroup.Group
		fan.SetLimit(u.concurrency)
		for i := range candidates {
			fan.Go(func() error {
				jdScores[i] = u.oracle.ScoreAgainstJob(ctx, candidates[i], job)
				return nil
			})
		}
		return fan.Wait()
	})
	_ = g.Wait()
	return jdScores, comparative
}

// GetRanking serves the last persisted ranking without touching the oracle.
func (u *RankingUsecase) GetRanking(ctx context.Context, jobID uint) (*dto.RankingDTO, error) {
	job, err := u.jobs.FindJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &JobNotFoundError{JobID: jobID}
		}
		return nil, err
	}
	rows, err := u.matches.FindByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	sortMatches(rows)
	return dto.NewRankingDTO(job, rows, nil), nil
}

// UpdateMatchStatus records a reviewer decision. The next RankJob resets it.
func (u *RankingUsecase) UpdateMatchStatus(ctx context.Context, jobID uint, email, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if !model.IsValidMatchStatus(status) {
		return &InvalidStatusError{Status: status}
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := u.matches.UpdateStatus(ctx, jobID, email, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &MatchNotFoundError{JobID: jobID, Email: email}
		}
		return err
	}
	return nil
}

func comparativeSummary(best string, budget float64) datatypes.JSONType[model.ComparativeAnalysis] {
	salary := "Budget not specified"
	if budget > 0 {
		salary = "Budget: " + strconv.FormatFloat(budget, 'f', -1, 64)
	}
	return datatypes.NewJSONType(model.ComparativeAnalysis{
		BestMatch:            best,
		Reasoning:            "Based on skills and budget fit",
		SalaryConsiderations: salary,
		RiskAssessment:       "Standard evaluation",
	})
}

func matchRow(email string, jobID uint, runID uuid.UUID, res matching.Result) model.CandidateJobMatch {
	return model.CandidateJobMatch{
		CandidateEmail:       email,
		JobID:                jobID,
		JDMatchScore:         res.JDScore,
		ComparativeScore:     res.ComparativeScore,
		OverallScore:         res.OverallScore,
		SalaryMatchScore:     res.SalaryScore,
		TechnicalMatchScore:  res.JDScore,
		ExperienceMatchScore: res.ComparativeScore,
		Strengths:            datatypes.JSONSlice[string](res.Strengths),
		Weaknesses:           datatypes.JSONSlice[string](res.Weaknesses),
		SalaryAnalysis:       datatypes.NewJSONType(res.Salary),
		Recommendation:       res.Recommendation,
		Status:               model.MatchStatusActive,
		RankingRunID:         runID,
	}
}

// sortMatches orders by overall score descending, then email ascending.
func sortMatches(rows []model.CandidateJobMatch) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].OverallScore != rows[j].OverallScore {
			return rows[i].OverallScore > rows[j].OverallScore
		}
		return rows[i].CandidateEmail < rows[j].CandidateEmail
	})
}
