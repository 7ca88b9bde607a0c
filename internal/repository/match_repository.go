package repository

import (
	"context"
	"fmt"

	"github.com/Dubey-IITB/resume-tracker/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db}
}

// ReplaceForJob deletes every match of the job and inserts rows in a single
// transaction. On error nothing changes.
func (r *MatchRepository) ReplaceForJob(ctx context.Context, jobID uint, rows []model.CandidateJobMatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", jobID).Delete(&model.CandidateJobMatch{}).Error; err != nil {
			return fmt.Errorf("delete matches for job %d: %w", jobID, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return fmt.Errorf("insert matches for job %d: %w", jobID, err)
		}
		return nil
	})
}

// FindByJob returns the persisted ranking with candidates preloaded, best first.
func (r *MatchRepository) FindByJob(ctx context.Context, jobID uint) ([]model.CandidateJobMatch, error) {
	var matches []model.CandidateJobMatch
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Where("job_id = ?", jobID).
		Order("overall_score DESC").
		Order("candidate_email ASC").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("list matches for job %d: %w", jobID, err)
	}
	return matches, nil
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, jobID uint, email, status string) error {
	res := r.db.WithContext(ctx).
		Model(&model.CandidateJobMatch{}).
		Where("job_id = ? AND candidate_email = ?", jobID, email).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update match status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
