package repository

import (
	"context"
	"fmt"

	"github.com/Dubey-IITB/resume-tracker/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db}
}

// Upsert inserts the candidate or merges it into the existing row with the
// same email. Empty resume paths and additional info keep the stored values.
func (r *CandidateRepository) Upsert(ctx context.Context, c *model.Candidate) error {
	columns := []string{"name", "resume_text", "current_ctc", "expected_ctc", "updated_at"}
	if c.ResumePath != "" {
		columns = append(columns, "resume_path")
	}
	if len(c.AdditionalInfo) > 0 {
		columns = append(columns, "additional_info")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(c).Error
	if err != nil {
		return fmt.Errorf("upsert candidate %s: %w", c.Email, err)
	}
	return nil
}

func (r *CandidateRepository) FindByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	var c model.Candidate
	if err := r.db.WithContext(ctx).First(&c, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// All returns every candidate ordered by email.
func (r *CandidateRepository) All(ctx context.Context) ([]model.Candidate, error) {
	var candidates []model.Candidate
	if err := r.db.WithContext(ctx).Order("email ASC").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return candidates, nil
}

func (r *CandidateRepository) List(ctx context.Context, offset, limit int) ([]model.Candidate, int64, error) {
	var (
		candidates []model.Candidate
		total      int64
	)
	if err := r.db.WithContext(ctx).Model(&model.Candidate{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count candidates: %w", err)
	}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("email ASC").Offset(offset).Limit(limit).Find(&candidates).Error; err != nil {
		return nil, 0, fmt.Errorf("list candidates: %w", err)
	}
	return candidates, total, nil
}
