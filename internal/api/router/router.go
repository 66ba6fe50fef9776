package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpmiddleware "github.com/wolfman30/debt-relief-intake/internal/http/middleware"
	"github.com/wolfman30/debt-relief-intake/internal/submissions"
	"github.com/wolfman30/debt-relief-intake/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	SubmissionsHandler *submissions.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// StaticDir, when set, serves the built form bundle and falls back to
	// its index.html for every unmatched GET.
	StaticDir string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	var spa http.Handler
	if cfg.StaticDir != "" {
		spa = newSPAHandler(cfg.StaticDir)
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", cfg.SubmissionsHandler.HealthCheck)
		api.Post("/submit-form", cfg.SubmissionsHandler.SubmitForm)
		if spa != nil {
			// Client-side routes under /api still resolve to the form bundle.
			api.NotFound(func(w http.ResponseWriter, req *http.Request) {
				if req.Method == http.MethodGet || req.Method == http.MethodHead {
					spa.ServeHTTP(w, req)
					return
				}
				http.NotFound(w, req)
			})
		}
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if spa != nil {
		r.Get("/*", spa.ServeHTTP)
		r.Head("/*", spa.ServeHTTP)
	}

	return r
}
