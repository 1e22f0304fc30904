package integration

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleScopes are the scopes needed for Drive uploads and Sheets appends.
var GoogleScopes = []string{drive.DriveScope, sheets.SpreadsheetsScope}

// GoogleClientOptions builds client options from a service account key file,
// falling back to application default credentials when path is empty.
func GoogleClientOptions(ctx context.Context, path string) ([]option.ClientOption, error) {
	var (
		creds *google.Credentials
		err   error
	)
	if path == "" {
		creds, err = google.FindDefaultCredentials(ctx, GoogleScopes...)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read google credentials: %w", err)
		}
		creds, err = google.CredentialsFromJSON(ctx, data, GoogleScopes...)
	}
	if err != nil {
		return nil, fmt.Errorf("google credentials: %w", err)
	}
	return []option.ClientOption{option.WithTokenSource(creds.TokenSource)}, nil
}
