package integration

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestColumnName(t *testing.T) {
	cases := map[int]string{
		-3:  "A",
		0:   "A",
		1:   "A",
		4:   "D",
		26:  "Z",
		27:  "AA",
		52:  "AZ",
		53:  "BA",
		702: "ZZ",
		703: "AAA",
	}
	for n, want := range cases {
		assert.Equal(t, want, ColumnName(n), "column %d", n)
	}
}

func TestSheetRange(t *testing.T) {
	assert.Equal(t, "'Sheet1'!A:E", SheetRange("Sheet1", 5))
	assert.Equal(t, "'Bob''s leads'!A:C", SheetRange("Bob's leads", 3))
}

func TestResultOK(t *testing.T) {
	assert.True(t, Result{Name: "sheets"}.OK())
	assert.False(t, Result{Name: "sheets", Skipped: true}.OK())
	assert.False(t, Result{Name: "sheets", Err: errors.New("boom")}.OK())
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", detectContentType("cv.PDF"))
	assert.Equal(t, "image/jpeg", detectContentType("photo.jpeg"))
	assert.Equal(t, "application/octet-stream", detectContentType("blob"))
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("docs/cv.pdf")
	assert.True(t, strings.HasSuffix(key, "_cv.pdf"), key)
	assert.Len(t, key, 36+len("_cv.pdf"))
	assert.NotEqual(t, key, ObjectKey("docs/cv.pdf"))

	assert.True(t, strings.HasSuffix(ObjectKey(`C:\tmp\a.txt`), "_a.txt"))
	assert.True(t, strings.HasSuffix(ObjectKey(""), "_upload"))
}

func TestSheetsAppenderAppendsToFirstSheet(t *testing.T) {
	var (
		gotPath  string
		gotInput string
		gotBody  struct {
			Values [][]any `json:"values"`
		}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/v4/spreadsheets/sheet-123"):
			io.WriteString(w, `{"spreadsheetId":"sheet-123","sheets":[{"properties":{"title":"Leads"}},{"properties":{"title":"Other"}}]}`)
		case r.Method == http.MethodPost && strings.Contains(r.URL.Path, "/values/"):
			gotPath = r.URL.Path
			gotInput = r.URL.Query().Get("valueInputOption")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			io.WriteString(w, `{"spreadsheetId":"sheet-123"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	a, err := NewSheetsAppender(ctx, "sheet-123",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	err = a.Append(ctx, []any{"2024-01-01T00:00:00Z", "Contact", "Ann", ""})
	require.NoError(t, err)

	assert.Contains(t, gotPath, "'Leads'!A:D")
	assert.Equal(t, "RAW", gotInput)
	require.Len(t, gotBody.Values, 1)
	assert.Equal(t, []any{"2024-01-01T00:00:00Z", "Contact", "Ann", ""}, gotBody.Values[0])
}

func TestSheetsAppenderNoSheets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"spreadsheetId":"sheet-123"}`)
	}))
	defer srv.Close()

	ctx := context.Background()
	a, err := NewSheetsAppender(ctx, "sheet-123",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	assert.Error(t, a.Append(ctx, []any{"x"}))
}

func TestNewSheetsAppenderRequiresID(t *testing.T) {
	_, err := NewSheetsAppender(context.Background(), "")
	assert.Error(t, err)
}

func TestNewDriveStoreRequiresFolder(t *testing.T) {
	_, err := NewDriveStore(context.Background(), "")
	assert.Error(t, err)
}

func newTestS3(t *testing.T, handler http.HandlerFunc) *s3.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
	})
}

func TestS3StoreUpload(t *testing.T) {
	var (
		gotPath string
		gotACL  string
		gotType string
		gotBody []byte
	)
	client := newTestS3(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotACL = r.Header.Get("X-Amz-Acl")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})

	store := NewS3StoreWithClient(client, "leads", "https://cdn.example.com/")
	link, err := store.Upload(context.Background(), Upload{Name: "cv.pdf", Data: []byte("%PDF")})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotPath, "/leads/"), gotPath)
	assert.True(t, strings.HasSuffix(gotPath, "_cv.pdf"), gotPath)
	assert.Equal(t, "public-read", gotACL)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, []byte("%PDF"), gotBody)
	assert.True(t, strings.HasPrefix(link, "https://cdn.example.com/"), link)
	assert.True(t, strings.HasSuffix(link, "_cv.pdf"), link)
}

func TestS3StoreUploadFailure(t *testing.T) {
	client := newTestS3(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)
	})

	store := NewS3StoreWithClient(client, "leads", "https://cdn.example.com")
	_, err := store.Upload(context.Background(), Upload{Name: "cv.pdf", Data: []byte("x")})
	assert.Error(t, err)
}
