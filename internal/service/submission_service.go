package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"gorm.io/datatypes"

	"github.com/leadform/leadform/internal/apperr"
	"github.com/leadform/leadform/internal/integration"
	"github.com/leadform/leadform/internal/models"
	"github.com/leadform/leadform/internal/repository"
)

const (
	unknownFormName  = "Unknown form"
	uploadFailedMark = "upload failed"
)

type SubmissionService struct {
	subs    *repository.SubmissionRepo
	forms   *repository.FormRepo
	files   integration.FileStore
	sheets  integration.SheetAppender
	timeout time.Duration
}

// NewSubmissionService wires the recorder. files and sheets may be nil, in
// which case that step is skipped.
func NewSubmissionService(subs *repository.SubmissionRepo, forms *repository.FormRepo, files integration.FileStore, sheets integration.SheetAppender, timeout time.Duration) *SubmissionService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SubmissionService{subs: subs, forms: forms, files: files, sheets: sheets, timeout: timeout}
}

// Record stores a submission. The upload and the spreadsheet row are best
// effort: their failures are logged and never fail the request.
func (s *SubmissionService) Record(ctx context.Context, formID int64, payload []byte, upload *integration.Upload) (*models.Submission, error) {
	if formID <= 0 {
		return nil, apperr.Validation("A valid form_id is required")
	}
	if !gjson.ValidBytes(payload) || !gjson.ParseBytes(payload).IsObject() {
		return nil, apperr.Validation("Submission data must be a JSON object")
	}

	// Once we start, the client going away must not leave half a submission.
	ctx = context.WithoutCancel(ctx)

	fileStatus := ""
	var link *string
	if upload != nil {
		res := s.upload(ctx, *upload)
		res.Log()
		switch {
		case res.OK():
			l := res.Detail
			link = &l
			fileStatus = l
		case res.Err != nil:
			fileStatus = uploadFailedMark
		}
	}

	sub := &models.Submission{
		FormID:   formID,
		Data:     datatypes.JSON(payload),
		FileLink: link,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, apperr.Internal(err)
	}

	s.appendRow(ctx, sub, fileStatus).Log()
	return sub, nil
}

func (s *SubmissionService) upload(ctx context.Context, f integration.Upload) integration.Result {
	res := integration.Result{Name: "file upload"}
	if s.files == nil {
		res.Skipped = true
		return res
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	link, err := s.files.Upload(ctx, f)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", f.Name, err)
		return res
	}
	res.Detail = link
	return res
}

func (s *SubmissionService) appendRow(ctx context.Context, sub *models.Submission, fileStatus string) integration.Result {
	res := integration.Result{Name: "sheets append"}
	if s.sheets == nil {
		res.Skipped = true
		return res
	}
	form, err := s.forms.FindByID(ctx, sub.FormID)
	if err != nil {
		res.Err = fmt.Errorf("resolve form %d: %w", sub.FormID, err)
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.sheets.Append(ctx, SheetRow(sub.CreatedAt, form, sub.Data, fileStatus)); err != nil {
		res.Err = fmt.Errorf("submission %d: %w", sub.ID, err)
		return res
	}
	res.Detail = fmt.Sprintf("submission %d", sub.ID)
	return res
}

// SheetRow lays out a submission as a spreadsheet row: timestamp, form name,
// the form's fields in order, any extra payload keys in document order, and
// the file status. form may be nil when it has been deleted.
func SheetRow(createdAt time.Time, form *models.Form, payload []byte, fileStatus string) []any {
	type pair struct {
		key string
		val gjson.Result
	}
	var pairs []pair
	index := map[string]int{}
	gjson.ParseBytes(payload).ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if i, dup := index[key]; dup {
			pairs[i].val = v
			return true
		}
		index[key] = len(pairs)
		pairs = append(pairs, pair{key: key, val: v})
		return true
	})

	name := unknownFormName
	row := []any{createdAt.UTC().Format(time.RFC3339), ""}
	used := map[string]bool{}
	if form != nil {
		name = form.Name
		for _, f := range form.FieldList() {
			used[f.ID] = true
			if i, ok := index[f.ID]; ok {
				row = append(row, cellValue(pairs[i].val))
			} else {
				row = append(row, "")
			}
		}
	}
	row[1] = name
	for _, p := range pairs {
		if !used[p.key] {
			row = append(row, cellValue(p.val))
		}
	}
	return append(row, fileStatus)
}

func cellValue(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	case gjson.JSON:
		if !v.IsArray() {
			return v.Raw
		}
		var parts []string
		v.ForEach(func(_, item gjson.Result) bool {
			parts = append(parts, cellValue(item))
			return true
		})
		return strings.Join(parts, ", ")
	default:
		return v.String()
	}
}

func (s *SubmissionService) List(ctx context.Context) ([]models.Submission, error) {
	subs, err := s.subs.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return subs, nil
}

// Delete succeeds whether or not the submission exists.
func (s *SubmissionService) Delete(ctx context.Context, id int64) error {
	if err := s.subs.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
