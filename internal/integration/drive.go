package integration

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveStore uploads attachments into a Google Drive folder and shares
// them with anyone holding the link.
type DriveStore struct {
	svc      *drive.Service
	folderID string
}

func NewDriveStore(ctx context.Context, folderID string, opts ...option.ClientOption) (*DriveStore, error) {
	if folderID == "" {
		return nil, errors.New("drive folder id is required")
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return &DriveStore{svc: svc, folderID: folderID}, nil
}

func (s *DriveStore) Upload(ctx context.Context, f Upload) (string, error) {
	contentType := f.ContentType
	if contentType == "" {
		contentType = detectContentType(f.Name)
	}
	created, err := s.svc.Files.Create(&drive.File{Name: f.Name, Parents: []string{s.folderID}}).
		Media(bytes.NewReader(f.Data), googleapi.ContentType(contentType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	perm := &drive.Permission{Role: "reader", Type: "anyone"}
	if _, err := s.svc.Permissions.Create(created.Id, perm).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("share file %s: %w", created.Id, err)
	}

	info, err := s.svc.Files.Get(created.Id).Fields("webViewLink").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get link for %s: %w", created.Id, err)
	}
	return info.WebViewLink, nil
}
