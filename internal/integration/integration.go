// Package integration holds the optional external services a submission is
// mirrored to: a file store for attachments and a spreadsheet for rows.
// Every call is best effort; callers log the Result and move on.
package integration

import (
	"context"
	"log"
)

// Upload is a file attached to a submission.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileStore uploads a file and returns a link anyone can read.
type FileStore interface {
	Upload(ctx context.Context, f Upload) (string, error)
}

// SheetAppender appends one row to a spreadsheet.
type SheetAppender interface {
	Append(ctx context.Context, row []any) error
}

// Result describes the outcome of one best-effort external call.
type Result struct {
	Name    string
	Skipped bool
	Err     error
	Detail  string
}

func (r Result) OK() bool {
	return !r.Skipped && r.Err == nil
}

// Log writes the outcome. Failures are warnings, never errors to the caller.
func (r Result) Log() {
	switch {
	case r.Skipped:
		return
	case r.Err != nil:
		log.Printf("Warning: %s failed: %v", r.Name, r.Err)
	default:
		log.Printf("%s ok %s", r.Name, r.Detail)
	}
}
