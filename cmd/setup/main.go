// Command setup creates the schema, the admin account and, unless disabled,
// a sample contact form. It is safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/leadform/leadform/internal/config"
	"github.com/leadform/leadform/internal/db"
	"github.com/leadform/leadform/internal/repository"
	"github.com/leadform/leadform/internal/service"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file")
	sample := flag.Bool("sample", true, "create the sample contact form")
	flag.Parse()

	cfg, err := config.Parse(*envFile)
	if err != nil {
		log.Fatalf("Fatal: config: %v", err)
	}
	if cfg.AdminPass == "" {
		log.Fatalf("Fatal: ADMIN_PASSWORD is required")
	}

	log.Printf("Setting up %s database...", cfg.DatabaseDriver)
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

	ctx := context.Background()
	authSvc := service.NewAuthService(repository.NewUserRepo(gdb), cfg.JWTSecret)
	created, err := authSvc.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPass)
	if err != nil {
		log.Fatalf("Fatal: create admin: %v", err)
	}
	if created {
		log.Printf("Admin user created: %s", cfg.AdminEmail)
	} else {
		log.Printf("Admin user already exists")
	}

	if *sample {
		formSvc := service.NewFormService(repository.NewFormRepo(gdb))
		created, err := formSvc.SeedSample(ctx)
		if err != nil {
			log.Fatalf("Fatal: create sample form: %v", err)
		}
		if created {
			log.Printf("Sample form created")
		} else {
			log.Printf("Sample form already exists")
		}
	}

	log.Printf("Database setup completed")
}
