package repository

import (
	"context"
	"fmt"

	"github.com/leadform/leadform/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FormRepo struct {
	db *gorm.DB
}

func NewFormRepo(db *gorm.DB) *FormRepo {
	return &FormRepo{db: db}
}

// deactivateAll clears is_active on every form except the given ids.
func deactivateAll(tx *gorm.DB, except ...int64) error {
	q := tx.Model(&models.Form{}).Where("is_active = ?", true)
	if len(except) > 0 {
		q = q.Where("id NOT IN ?", except)
	}
	return q.Update("is_active", false).Error
}

// Create inserts form. An active form deactivates every other form in
// the same transaction.
func (r *FormRepo) Create(ctx context.Context, form *models.Form) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if form.IsActive {
			if err := deactivateAll(tx); err != nil {
				return err
			}
		}
		return tx.Create(form).Error
	})
	if err != nil {
		return fmt.Errorf("create form: %w", err)
	}
	return nil
}

func (r *FormRepo) FindAll(ctx context.Context) ([]models.Form, error) {
	forms := []models.Form{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&forms).Error; err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	return forms, nil
}

func (r *FormRepo) FindByID(ctx context.Context, id int64) (*models.Form, error) {
	f, err := firstOrNil(r.db.WithContext(ctx), &models.Form{}, id)
	if err != nil {
		return nil, fmt.Errorf("find form %d: %w", id, err)
	}
	return f, nil
}

// FindActive returns the active form, or nil when none is active.
func (r *FormRepo) FindActive(ctx context.Context) (*models.Form, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id DESC")
	f, err := firstOrNil(q, &models.Form{})
	if err != nil {
		return nil, fmt.Errorf("find active form: %w", err)
	}
	return f, nil
}

// Update replaces name, fields and the active flag of form id.
func (r *FormRepo) Update(ctx context.Context, id int64, name string, fields []models.FieldSpec, active bool) (*models.Form, error) {
	if fields == nil {
		fields = []models.FieldSpec{}
	}
	var out models.Form
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := firstOrNil(tx, &models.Form{}, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		if active {
			if err := deactivateAll(tx, id); err != nil {
				return err
			}
		}
		err = tx.Model(existing).Updates(map[string]any{
			"name":      name,
			"fields":    datatypes.NewJSONType(fields),
			"is_active": active,
		}).Error
		if err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("update form %d: %w", id, err)
	}
	return &out, nil
}

// Activate makes id the only active form.
func (r *FormRepo) Activate(ctx context.Context, id int64) (*models.Form, error) {
	var out models.Form
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := firstOrNil(tx, &models.Form{}, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		if err := deactivateAll(tx); err != nil {
			return err
		}
		if err := tx.Model(existing).Update("is_active", true).Error; err != nil {
			return err
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("activate form %d: %w", id, err)
	}
	return &out, nil
}

// Delete removes form id. Missing rows are not an error and submissions
// keep their form_id.
func (r *FormRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Form{}, id).Error; err != nil {
		return fmt.Errorf("delete form %d: %w", id, err)
	}
	return nil
}

func (r *FormRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Form{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count forms: %w", err)
	}
	return n, nil
}

func (r *FormRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Form{}).Where("is_active = ?", true).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count active forms: %w", err)
	}
	return n, nil
}

// FindByName returns the first form named name, or nil.
func (r *FormRepo) FindByName(ctx context.Context, name string) (*models.Form, error) {
	f, err := firstOrNil(r.db.WithContext(ctx).Where("name = ?", name), &models.Form{})
	if err != nil {
		return nil, fmt.Errorf("find form by name: %w", err)
	}
	return f, nil
}
