package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/leadform/leadform/internal/auth"
	"github.com/leadform/leadform/internal/handler"
	mw "github.com/leadform/leadform/internal/middleware"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Forms       *handler.FormHandler
	Submissions *handler.SubmissionHandler
	Dashboard   *handler.DashboardHandler
}

type Options struct {
	CORSOrigins []string
	// RateLimiter guards everything under /api. Nil disables limiting.
	RateLimiter *mw.RateLimiter
}

func New(verifier auth.Verifier, h Handlers, opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"RateLimit-Limit", "RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not found"}` + "\n"))
	})

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Handler)
		}

		// Public routes
		r.Get("/health", handler.Health)
		r.Post("/auth/login", h.Auth.Login)
		r.Get("/forms", h.Forms.List)
		r.Get("/forms/active", h.Forms.Active)
		r.Post("/submissions", h.Submissions.Create)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(verifier))

			r.Get("/auth/me", h.Auth.Me)
			r.Get("/dashboard", h.Dashboard.Dashboard)

			r.Post("/forms", h.Forms.Create)
			r.Put("/forms/{id}", h.Forms.Update)
			r.Delete("/forms/{id}", h.Forms.Delete)
			r.Patch("/forms/{id}/activate", h.Forms.Activate)

			r.Get("/submissions", h.Submissions.List)
			r.Delete("/submissions/{id}", h.Submissions.Delete)
		})
	})

	return r
}
