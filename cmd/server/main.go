package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leadform/leadform/internal/config"
	"github.com/leadform/leadform/internal/db"
	"github.com/leadform/leadform/internal/gelf"
	"github.com/leadform/leadform/internal/handler"
	"github.com/leadform/leadform/internal/integration"
	mw "github.com/leadform/leadform/internal/middleware"
	"github.com/leadform/leadform/internal/repository"
	"github.com/leadform/leadform/internal/router"
	"github.com/leadform/leadform/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Fatal: config: %v", err)
	}

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr, "leadform")
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			defer gelfWriter.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(db.Options{
		Driver: cfg.DatabaseDriver,
		Path:   cfg.DatabasePath,
		URL:    cfg.DatabaseURL,
		Debug:  cfg.DatabaseDebug,
	})
	if err != nil {
		log.Fatalf("Fatal: open database: %v", err)
	}
	defer db.Close(gdb)
	log.Printf("Connected to %s database", cfg.DatabaseDriver)

	// Repositories
	userRepo := repository.NewUserRepo(gdb)
	formRepo := repository.NewFormRepo(gdb)
	subRepo := repository.NewSubmissionRepo(gdb)

	// External integrations
	files, sheets := integration.Setup(ctx, cfg)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	formSvc := service.NewFormService(formRepo)
	subSvc := service.NewSubmissionService(subRepo, formRepo, files, sheets, cfg.ExternalTimeout)
	dashSvc := service.NewDashboardService(formRepo, subRepo)

	created, err := authSvc.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPass)
	if err != nil {
		log.Fatalf("Fatal: seed admin: %v", err)
	}
	if created {
		log.Printf("Seeded admin user %s", cfg.AdminEmail)
	}

	limiter := mw.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	defer limiter.Stop()

	r := router.New(authSvc, router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Forms:       handler.NewFormHandler(formSvc),
		Submissions: handler.NewSubmissionHandler(subSvc, cfg.MaxUploadBytes),
		Dashboard:   handler.NewDashboardHandler(dashSvc),
	}, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		RateLimiter: limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("leadform server starting on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Fatal: server failed: %v", err)
		}
	case <-ctx.Done():
		log.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: shutdown: %v", err)
		}
	}
}
