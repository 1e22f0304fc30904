package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by mutations that target a missing row.
var ErrNotFound = errors.New("record not found")

// firstOrNil turns gorm's not-found error into a nil result.
func firstOrNil[T any](q *gorm.DB, dest *T, conds ...any) (*T, error) {
	if err := q.First(dest, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return dest, nil
}
