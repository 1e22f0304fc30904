package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leadform/leadform/internal/apperr"
	"github.com/leadform/leadform/internal/models"
	"github.com/leadform/leadform/internal/repository"
)

type FormService struct {
	forms *repository.FormRepo
}

func NewFormService(forms *repository.FormRepo) *FormService {
	return &FormService{forms: forms}
}

// FormInput is the editable part of a form.
type FormInput struct {
	Name     string             `json:"name"`
	Fields   []models.FieldSpec `json:"fields"`
	IsActive bool               `json:"is_active"`
}

func (in *FormInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperr.Validation("Form name is required")
	}
	seen := make(map[string]bool, len(in.Fields))
	for i, f := range in.Fields {
		if strings.TrimSpace(f.ID) == "" {
			return apperr.Validation(fmt.Sprintf("Field %d is missing an id", i+1))
		}
		if seen[f.ID] {
			return apperr.Validation(fmt.Sprintf("Duplicate field id %q", f.ID))
		}
		seen[f.ID] = true
		if strings.TrimSpace(f.Label) == "" {
			return apperr.Validation(fmt.Sprintf("Field %q is missing a label", f.ID))
		}
		if !models.ValidFieldType(f.Type) {
			return apperr.Validation(fmt.Sprintf("Field %q has unknown type %q", f.ID, f.Type))
		}
	}
	return nil
}

func (s *FormService) List(ctx context.Context) ([]models.Form, error) {
	forms, err := s.forms.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return forms, nil
}

// Active returns the form currently shown to visitors.
func (s *FormService) Active(ctx context.Context) (*models.Form, error) {
	form, err := s.forms.FindActive(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if form == nil {
		return nil, apperr.NotFound("No active form")
	}
	return form, nil
}

func (s *FormService) Create(ctx context.Context, in FormInput) (*models.Form, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	form := models.NewForm(in.Name, in.Fields, in.IsActive)
	if err := s.forms.Create(ctx, form); err != nil {
		return nil, apperr.Internal(err)
	}
	return form, nil
}

func (s *FormService) Update(ctx context.Context, id int64, in FormInput) (*models.Form, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	form, err := s.forms.Update(ctx, id, in.Name, in.Fields, in.IsActive)
	if err != nil {
		return nil, notFoundOr(err, "Form not found")
	}
	return form, nil
}

// Delete succeeds whether or not the form exists. Submissions keep their
// form_id.
func (s *FormService) Delete(ctx context.Context, id int64) error {
	if err := s.forms.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *FormService) Activate(ctx context.Context, id int64) (*models.Form, error) {
	form, err := s.forms.Activate(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Form not found")
	}
	return form, nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return apperr.Internal(err)
}
