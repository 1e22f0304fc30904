package service

import (
	"context"
	"time"

	"github.com/leadform/leadform/internal/apperr"
	"github.com/leadform/leadform/internal/repository"
)

type DashboardService struct {
	forms *repository.FormRepo
	subs  *repository.SubmissionRepo
}

func NewDashboardService(forms *repository.FormRepo, subs *repository.SubmissionRepo) *DashboardService {
	return &DashboardService{forms: forms, subs: subs}
}

type FormStats struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	IsActive        bool      `json:"isActive"`
	SubmissionCount int64     `json:"submissionCount"`
	FieldCount      int       `json:"fieldCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Dashboard summarizes forms and submissions. OrphanCount counts
// submissions whose form has been deleted.
type Dashboard struct {
	FormCount       int64       `json:"formCount"`
	ActiveFormCount int64       `json:"activeFormCount"`
	SubmissionCount int64       `json:"submissionCount"`
	OrphanCount     int64       `json:"orphanCount"`
	Forms           []FormStats `json:"forms"`
}

func (s *DashboardService) Stats(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	var err error
	if d.FormCount, err = s.forms.Count(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	if d.ActiveFormCount, err = s.forms.CountActive(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	if d.SubmissionCount, err = s.subs.Count(ctx); err != nil {
		return nil, apperr.Internal(err)
	}

	forms, err := s.forms.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	counts, err := s.subs.CountByForm(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	d.Forms = make([]FormStats, 0, len(forms))
	known := make(map[int64]bool, len(forms))
	for _, f := range forms {
		known[f.ID] = true
		d.Forms = append(d.Forms, FormStats{
			ID:              f.ID,
			Name:            f.Name,
			IsActive:        f.IsActive,
			SubmissionCount: counts[f.ID],
			FieldCount:      len(f.Fields.Data()),
			CreatedAt:       f.CreatedAt,
		})
	}
	for formID, n := range counts {
		if !known[formID] {
			d.OrphanCount += n
		}
	}
	return d, nil
}
