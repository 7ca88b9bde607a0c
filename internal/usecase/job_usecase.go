package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/Dubey-IITB/resume-tracker/internal/model"
	"github.com/Dubey-IITB/resume-tracker/internal/repository"
	"github.com/Dubey-IITB/resume-tracker/internal/response"
	"github.com/Dubey-IITB/resume-tracker/internal/util"
)

// JobInput carries create and update fields. Nil fields are left untouched
// on update.
type JobInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	JDText      *string  `json:"jd_text"`
	MinBudget   *float64 `json:"min_budget"`
	MaxBudget   *float64 `json:"max_budget"`
	Status      *string  `json:"status"`
	RecruiterID *uint    `json:"recruiter_id"`
}

type JobUsecase struct {
	jobs JobStore
}

func NewJobUsecase(jobs JobStore) *JobUsecase {
	return &JobUsecase{jobs: jobs}
}

func (u *JobUsecase) CreateJob(ctx context.Context, in JobInput) (*model.Job, error) {
	job := &model.Job{Status: model.JobStatusActive}
	in.apply(job)
	if err := validateJob(job); err != nil {
		return nil, err
	}
	if err := u.jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (u *JobUsecase) UpdateJob(ctx context.Context, id uint, in JobInput) (*model.Job, error) {
	job, err := u.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(job)
	if err := validateJob(job); err != nil {
		return nil, err
	}
	if err := u.jobs.UpdateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (u *JobUsecase) GetJob(ctx context.Context, id uint) (*model.Job, error) {
	job, err := u.jobs.FindJobByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &JobNotFoundError{JobID: id}
		}
		return nil, err
	}
	return job, nil
}

func (u *JobUsecase) ListJobs(ctx context.Context, page, pageSize int) ([]model.Job, *response.Pagination, error) {
	page, pageSize = normalizePage(page, pageSize)
	jobs, total, err := u.jobs.GetJobs(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, nil, err
	}
	return jobs, response.NewPagination(page, pageSize, total, len(jobs)), nil
}

// DeleteJob removes the job together with its ranking.
func (u *JobUsecase) DeleteJob(ctx context.Context, id uint) error {
	if err := u.jobs.DeleteJob(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &JobNotFoundError{JobID: id}
		}
		return err
	}
	return nil
}

func (in JobInput) apply(job *model.Job) {
	if in.Title != nil {
		job.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		job.Description = *in.Description
	}
	if in.JDText != nil {
		job.JDText = *in.JDText
	}
	if in.MinBudget != nil {
		job.MinBudget = *in.MinBudget
	}
	if in.MaxBudget != nil {
		job.MaxBudget = *in.MaxBudget
	}
	if in.Status != nil {
		job.Status = strings.ToLower(strings.TrimSpace(*in.Status))
	}
	if in.RecruiterID != nil {
		job.RecruiterID = in.RecruiterID
	}
}

func validateJob(job *model.Job) error {
	errs := map[string]string{}
	if job.Title == "" {
		errs["title"] = "title is required"
	}
	if job.Status == "" {
		job.Status = model.JobStatusActive
	}
	if !model.IsValidJobStatus(job.Status) {
		errs["status"] = "status must be one of active, closed, draft"
	}
	if job.MinBudget < 0 {
		errs["min_budget"] = "min_budget must not be negative"
	}
	if job.MaxBudget < 0 {
		errs["max_budget"] = "max_budget must not be negative"
	}
	// A job without a budget leaves both at zero.
	if job.MinBudget > job.MaxBudget {
		errs["min_budget"] = "min_budget must not exceed max_budget"
	}
	if len(errs) > 0 {
		return util.NewFormError("invalid job", errs)
	}
	return nil
}
