package models

import (
	"sort"
	"time"

	"gorm.io/datatypes"
)

// Field types accepted by the form builder.
const (
	FieldText     = "text"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldSelect   = "select"
	FieldTextarea = "textarea"
	FieldCheckbox = "checkbox"
	FieldFile     = "file"
)

var fieldTypes = map[string]bool{
	FieldText:     true,
	FieldEmail:    true,
	FieldPhone:    true,
	FieldSelect:   true,
	FieldTextarea: true,
	FieldCheckbox: true,
	FieldFile:     true,
}

// ValidFieldType reports whether t is a known field type.
func ValidFieldType(t string) bool {
	return fieldTypes[t]
}

// FieldSpec describes one input of a form.
type FieldSpec struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Order       int      `json:"order"`
	HasInfo     bool     `json:"hasInfo,omitempty"`
}

// Form is a named, ordered set of fields. At most one form is active.
type Form struct {
	ID        int64                           `gorm:"primaryKey" json:"id"`
	Name      string                          `gorm:"not null" json:"name"`
	Fields    datatypes.JSONType[[]FieldSpec] `gorm:"not null" json:"fields"`
	IsActive  bool                            `gorm:"not null;default:false;index" json:"is_active"`
	CreatedAt time.Time                       `json:"created_at"`
}

func (Form) TableName() string {
	return "forms"
}

// NewForm builds an unsaved form.
func NewForm(name string, fields []FieldSpec, active bool) *Form {
	if fields == nil {
		fields = []FieldSpec{}
	}
	return &Form{
		Name:     name,
		Fields:   datatypes.NewJSONType(fields),
		IsActive: active,
	}
}

// FieldList returns the fields sorted by their order index.
// Fields sharing an index keep their stored position.
func (f *Form) FieldList() []FieldSpec {
	src := f.Fields.Data()
	out := make([]FieldSpec, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
