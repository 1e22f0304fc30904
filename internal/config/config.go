package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"5000"`
	HTTPAddr string `env:"HTTP_ADDR"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"./database.sqlite"`
	DatabaseURL    string `env:"DATABASE_URL"`
	DatabaseDebug  bool   `env:"DATABASE_DEBUG"`

	JWTSecret  string `env:"JWT_SECRET"`
	AdminEmail string `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPass  string `env:"ADMIN_PASSWORD"`

	GelfAddr string `env:"GELF_ADDR"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	ExternalTimeout time.Duration `env:"EXTERNAL_TIMEOUT" envDefault:"15s"`

	// FileStore selects the attachment backend: "drive", "s3" or empty.
	// Empty picks drive when a folder is configured, s3 when a bucket is.
	FileStore         string `env:"FILE_STORE"`
	GoogleCredentials string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	DriveFolderID     string `env:"GOOGLE_DRIVE_FOLDER_ID"`
	SheetsID          string `env:"GOOGLE_SHEETS_ID"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION" envDefault:"us-east-1"`
	S3PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL"`
}

// Load reads the configuration and validates it.
func Load(envFiles ...string) (*Config, error) {
	cfg, err := Parse(envFiles...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads an optional .env file and then the process environment,
// without validating. Tools that only need part of the config use it.
func Parse(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations that would fall back to insecure defaults.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.JWTSecret) == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if strings.TrimSpace(c.AdminPass) == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if c.DatabaseDriver == "postgres" && c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.FileStore {
	case "", FileStoreDrive, FileStoreS3:
	default:
		return fmt.Errorf("unsupported FILE_STORE %q", c.FileStore)
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// Attachment backends accepted by FILE_STORE.
const (
	FileStoreDrive = "drive"
	FileStoreS3    = "s3"
)

// Addr is the listen address; HTTP_ADDR wins over PORT.
func (c *Config) Addr() string {
	if c.HTTPAddr != "" {
		return c.HTTPAddr
	}
	return ":" + c.Port
}

// FileStoreBackend resolves which attachment backend is in use, or "" for none.
func (c *Config) FileStoreBackend() string {
	switch c.FileStore {
	case FileStoreDrive, FileStoreS3:
		return c.FileStore
	}
	if c.DriveFolderID != "" {
		return FileStoreDrive
	}
	if c.S3Bucket != "" {
		return FileStoreS3
	}
	return ""
}
