package repository

import (
	"context"
	"fmt"

	"github.com/Dubey-IITB/resume-tracker/internal/model"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

func (r *JobRepository) CreateJob(ctx context.Context, job *model.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (r *JobRepository) UpdateJob(ctx context.Context, job *model.Job) error {
	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		return fmt.Errorf("update job %d: %w", job.ID, err)
	}
	return nil
}

func (r *JobRepository) FindJobByID(ctx context.Context, id uint) (*model.Job, error) {
	var j model.Job
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

// GetJobs pages through jobs newest first.
func (r *JobRepository) GetJobs(ctx context.Context, offset, limit int) ([]model.Job, int64, error) {
	var (
		jobs  []model.Job
		total int64
	)
	if err := r.db.WithContext(ctx).Model(&model.Job{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&jobs).Error; err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, total, nil
}

// DeleteJob removes the job and its matches in one transaction.
func (r *JobRepository) DeleteJob(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&model.CandidateJobMatch{}).Error; err != nil {
			return fmt.Errorf("delete matches for job %d: %w", id, err)
		}
		res := tx.Delete(&model.Job{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete job %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
