package usecase

import (
	"context"

	"github.com/Dubey-IITB/resume-tracker/internal/model"
)

type CandidateStore interface {
	Upsert(ctx context.Context, c *model.Candidate) error
	FindByEmail(ctx context.Context, email string) (*model.Candidate, error)
	All(ctx context.Context) ([]model.Candidate, error)
	List(ctx context.Context, offset, limit int) ([]model.Candidate, int64, error)
}

type JobStore interface {
	CreateJob(ctx context.Context, job *model.Job) error
	UpdateJob(ctx context.Context, job *model.Job) error
	FindJobByID(ctx context.Context, id uint) (*model.Job, error)
	GetJobs(ctx context.Context, offset, limit int) ([]model.Job, int64, error)
	DeleteJob(ctx context.Context, id uint) error
}

type MatchStore interface {
	ReplaceForJob(ctx context.Context, jobID uint, rows []model.CandidateJobMatch) error
	FindByJob(ctx context.Context, jobID uint) ([]model.CandidateJobMatch, error)
	UpdateStatus(ctx context.Context, jobID uint, email, status string) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// FileStore keeps the original upload bytes and returns where they went.
type FileStore interface {
	Save(ctx context.Context, stem string, data []byte) (string, error)
}
