package repository

import (
	"context"
	"testing"

	"github.com/Dubey-IITB/resume-tracker/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Candidate{}, &model.Job{}, &model.CandidateJobMatch{}, &model.User{}))
	return db
}

func matchRow(email string, jobID uint, overall float64) model.CandidateJobMatch {
	return model.CandidateJobMatch{
		CandidateEmail: email,
		JobID:          jobID,
		OverallScore:   overall,
		Strengths:      datatypes.JSONSlice[string]{"Technical skills match"},
		Weaknesses:     datatypes.JSONSlice[string]{"None identified"},
		SalaryAnalysis: datatypes.NewJSONType(model.SalaryAnalysis{BudgetFit: model.BudgetFitWithin}),
		Status:         model.MatchStatusActive,
		RankingRunID:   uuid.New(),
	}
}

func TestCandidateUpsertMergesByEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewCandidateRepository(openTestDB(t))

	require.NoError(t, repo.Upsert(ctx, &model.Candidate{
		Email:          "jane@corp.io",
		Name:           "Jane",
		ResumePath:     "/r/jane_1.pdf",
		CurrentCTC:     10,
		ExpectedCTC:    20,
		AdditionalInfo: datatypes.JSON(`{"skills":["go"]}`),
	}))
	require.NoError(t, repo.Upsert(ctx, &model.Candidate{
		Email: "jane@corp.io", Name: "Jane Doe", CurrentCTC: 30, ExpectedCTC: 40,
	}))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	got := all[0]
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, 30.0, got.CurrentCTC)
	assert.Equal(t, 40.0, got.ExpectedCTC)
	assert.Equal(t, "/r/jane_1.pdf", got.ResumePath, "empty path keeps stored one")
	assert.JSONEq(t, `{"skills":["go"]}`, string(got.AdditionalInfo), "empty info keeps stored one")
}

func TestCandidateFindByEmailNotFound(t *testing.T) {
	_, err := NewCandidateRepository(openTestDB(t)).FindByEmail(context.Background(), "nobody@x.io")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCandidateListPaginates(t *testing.T) {
	ctx := context.Background()
	repo := NewCandidateRepository(openTestDB(t))
	for _, e := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		require.NoError(t, repo.Upsert(ctx, &model.Candidate{Email: e}))
	}

	page, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 2)
}

func TestReplaceForJobReplacesAtomically(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	candidates := NewCandidateRepository(db)
	jobs := NewJobRepository(db)
	matches := NewMatchRepository(db)

	for _, e := range []string{"a@x.io", "b@x.io"} {
		require.NoError(t, candidates.Upsert(ctx, &model.Candidate{Email: e, Name: e}))
	}
	job := &model.Job{Title: "Go", MaxBudget: 100}
	require.NoError(t, jobs.CreateJob(ctx, job))

	require.NoError(t, matches.ReplaceForJob(ctx, job.ID, []model.CandidateJobMatch{
		matchRow("a@x.io", job.ID, 0.4),
		matchRow("b@x.io", job.ID, 0.9),
	}))
	require.NoError(t, matches.UpdateStatus(ctx, job.ID, "a@x.io", model.MatchStatusSaved))

	got, err := matches.FindByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b@x.io", got[0].CandidateEmail)
	require.NotNil(t, got[0].Candidate)
	assert.Equal(t, "b@x.io", got[0].Candidate.Name)
	assert.Equal(t, model.BudgetFitWithin, got[0].SalaryAnalysis.Data().BudgetFit)
	assert.Equal(t, []string{"Technical skills match"}, []string(got[0].Strengths))
	assert.Equal(t, model.MatchStatusSaved, got[1].Status)

	// duplicate primary key makes the insert fail; the delete must roll back with it
	err = matches.ReplaceForJob(ctx, job.ID, []model.CandidateJobMatch{
		matchRow("a@x.io", job.ID, 0.1),
		matchRow("a@x.io", job.ID, 0.2),
	})
	require.Error(t, err)

	got, err = matches.FindByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0.9, got[0].OverallScore)
	assert.Equal(t, model.MatchStatusSaved, got[1].Status)

	require.NoError(t, matches.ReplaceForJob(ctx, job.ID, []model.CandidateJobMatch{matchRow("a@x.io", job.ID, 0.5)}))
	got, err = matches.FindByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.MatchStatusActive, got[0].Status)
}

func TestUpdateStatusMissingRow(t *testing.T) {
	err := NewMatchRepository(openTestDB(t)).UpdateStatus(context.Background(), 99, "x@y.io", model.MatchStatusSaved)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteJobCascadesMatches(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	jobs := NewJobRepository(db)
	matches := NewMatchRepository(db)
	require.NoError(t, NewCandidateRepository(db).Upsert(ctx, &model.Candidate{Email: "a@x.io"}))

	job := &model.Job{Title: "Go"}
	require.NoError(t, jobs.CreateJob(ctx, job))
	require.NoError(t, matches.ReplaceForJob(ctx, job.ID, []model.CandidateJobMatch{matchRow("a@x.io", job.ID, 0.5)}))

	require.NoError(t, jobs.DeleteJob(ctx, job.ID))
	_, err := jobs.FindJobByID(ctx, job.ID)
	require.ErrorIs(t, err, ErrNotFound)

	left, err := matches.FindByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	require.ErrorIs(t, jobs.DeleteJob(ctx, job.ID), ErrNotFound)
}

func TestJobsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository(openTestDB(t))
	for _, title := range []string{"first", "second"} {
		require.NoError(t, repo.CreateJob(ctx, &model.Job{Title: title, Status: model.JobStatusActive}))
	}
	jobs, total, err := repo.GetJobs(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, jobs, 2)
	assert.Equal(t, "second", jobs[0].Title)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))
	require.NoError(t, repo.CreateUser(ctx, &model.User{Email: "r@corp.io", HashedPassword: "h", IsActive: true}))

	u, err := repo.FindUserByEmail(ctx, "r@corp.io")
	require.NoError(t, err)
	assert.True(t, u.IsActive)

	_, err = repo.FindUserByEmail(ctx, "missing@corp.io")
	require.ErrorIs(t, err, ErrNotFound)
}
