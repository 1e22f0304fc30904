package repository

import (
	"context"
	"fmt"

	"github.com/leadform/leadform/internal/models"
	"gorm.io/gorm"
)

type SubmissionRepo struct {
	db *gorm.DB
}

func NewSubmissionRepo(db *gorm.DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

func (r *SubmissionRepo) Create(ctx context.Context, sub *models.Submission) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepo) FindAll(ctx context.Context) ([]models.Submission, error) {
	subs := []models.Submission{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// Delete removes submission id. Missing rows are not an error.
func (r *SubmissionRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Submission{}, id).Error; err != nil {
		return fmt.Errorf("delete submission %d: %w", id, err)
	}
	return nil
}

func (r *SubmissionRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

// CountByForm returns submission counts keyed by form id, including ids of
// forms that no longer exist.
func (r *SubmissionRepo) CountByForm(ctx context.Context) (map[int64]int64, error) {
	var rows []struct {
		FormID int64
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Select("form_id, COUNT(*) AS total").
		Group("form_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count submissions by form: %w", err)
	}
	out := make(map[int64]int64, len(rows))
	for _, row := range rows {
		out[row.FormID] = row.Total
	}
	return out, nil
}
