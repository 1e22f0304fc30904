package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsAppender appends rows to the first sheet of a spreadsheet.
type SheetsAppender struct {
	svc           *sheets.Service
	spreadsheetID string
}

func NewSheetsAppender(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsAppender, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &SheetsAppender{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Append looks up the first sheet's title on every call so that renamed
// or reordered sheets keep working.
func (a *SheetsAppender) Append(ctx context.Context, row []any) error {
	ss, err := a.svc.Spreadsheets.Get(a.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return errors.New("spreadsheet has no sheets")
	}

	rng := SheetRange(ss.Sheets[0].Properties.Title, len(row))
	vr := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err = a.svc.Spreadsheets.Values.Append(a.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", rng, err)
	}
	return nil
}

// SheetRange returns an A1 range covering width columns of sheet title.
func SheetRange(title string, width int) string {
	quoted := "'" + strings.ReplaceAll(title, "'", "''") + "'"
	return quoted + "!A:" + ColumnName(width)
}

// ColumnName converts a 1-based column number to its letter name: 1 is A,
// 27 is AA. Values below 1 yield A.
func ColumnName(n int) string {
	if n < 1 {
		n = 1
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
