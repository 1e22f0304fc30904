package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "./database.sqlite", cfg.DatabasePath)
	assert.Equal(t, "admin@example.com", cfg.AdminEmail)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "", cfg.FileStoreBackend())
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_PASSWORD", "")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("ADMIN_PASSWORD")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9999")

	path := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=from-file\nADMIN_PASSWORD=file-pass\nGOOGLE_SHEETS_ID=sheet-1\nS3_BUCKET=leads\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("GOOGLE_SHEETS_ID")
		os.Unsetenv("S3_BUCKET")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "file-pass", cfg.AdminPass)
	assert.Equal(t, "sheet-1", cfg.SheetsID)
	assert.Equal(t, "127.0.0.1:9999", cfg.Addr())
	assert.Equal(t, "s3", cfg.FileStoreBackend())
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{JWTSecret: "x", AdminPass: "y", DatabaseDriver: "mysql", RateLimitMax: 1, RateLimitWindow: time.Second}
	assert.Error(t, cfg.Validate())

	cfg.DatabaseDriver = "postgres"
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")

	cfg.DatabaseURL = "postgres://localhost/leads"
	assert.NoError(t, cfg.Validate())

	cfg.FileStore = "ftp"
	assert.Error(t, cfg.Validate())
}

func TestFileStoreBackendPrefersExplicitChoice(t *testing.T) {
	cfg := &Config{DriveFolderID: "folder", S3Bucket: "bucket"}
	assert.Equal(t, "drive", cfg.FileStoreBackend())
	cfg.FileStore = "s3"
	assert.Equal(t, "s3", cfg.FileStoreBackend())
}

func TestParseSkipsValidation(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("DATABASE_DEBUG", "true")

	cfg, err := Parse(missingEnvFile(t))
	require.NoError(t, err)
	assert.True(t, cfg.DatabaseDebug)
	assert.Error(t, cfg.Validate())
}
