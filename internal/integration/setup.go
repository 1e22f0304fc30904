package integration

import (
	"context"
	"log"

	"github.com/leadform/leadform/internal/config"
)

// Setup builds the file store and sheet appender the config asks for.
// Anything unconfigured or failing to initialize comes back nil and the
// recorder skips it.
func Setup(ctx context.Context, cfg *config.Config) (FileStore, SheetAppender) {
	var (
		store  FileStore
		sheets SheetAppender
	)

	backend := cfg.FileStoreBackend()
	needGoogle := backend == config.FileStoreDrive || cfg.SheetsID != ""
	if !needGoogle && backend == "" {
		log.Println("External integrations disabled")
		return nil, nil
	}

	if needGoogle {
		opts, err := GoogleClientOptions(ctx, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("Warning: Google integrations disabled: %v", err)
		} else {
			if backend == config.FileStoreDrive {
				if s, err := NewDriveStore(ctx, cfg.DriveFolderID, opts...); err != nil {
					log.Printf("Warning: Drive uploads disabled: %v", err)
				} else {
					store = s
					log.Printf("Drive uploads enabled (folder %s)", cfg.DriveFolderID)
				}
			}
			if cfg.SheetsID != "" {
				if a, err := NewSheetsAppender(ctx, cfg.SheetsID, opts...); err != nil {
					log.Printf("Warning: Sheets logging disabled: %v", err)
				} else {
					sheets = a
					log.Printf("Sheets logging enabled (spreadsheet %s)", cfg.SheetsID)
				}
			}
		}
	}

	if backend == config.FileStoreS3 {
		if s, err := NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL); err != nil {
			log.Printf("Warning: S3 uploads disabled: %v", err)
		} else {
			store = s
			log.Printf("S3 uploads enabled (bucket %s)", cfg.S3Bucket)
		}
	}

	return store, sheets
}
