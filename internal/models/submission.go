package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is one completed form. FormID is a weak reference: the form
// may have been deleted since.
type Submission struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	FormID    int64          `gorm:"not null;index" json:"form_id"`
	Data      datatypes.JSON `gorm:"column:submission;not null" json:"submission"`
	FileLink  *string        `json:"file_link"`
	CreatedAt time.Time      `json:"created_at"`
}

func (Submission) TableName() string {
	return "submissions"
}
