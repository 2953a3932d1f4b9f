package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/textprep/internal/config"
	"github.com/dgallion1/textprep/internal/pipeline"
	"github.com/dgallion1/textprep/internal/storage"
)

// Server is the HTTP API for the preprocessing service.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        storage.Backend
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. store may be nil when
// no storage backend is enabled.
func NewServer(orch *pipeline.Orchestrator, store storage.Backend, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        store,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(Recoverer(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.ServiceAPIKey, s.log))

		r.Post("/v1/preprocess", s.handlePreprocess)
		r.Post("/v1/preprocess/batch", s.handleBatch)
		r.Post("/v1/preprocess/batch-file", s.handleBatchFile)
		r.Get("/v1/preprocess/status/{taskID}", s.handleStatus)
	})

	s.router = r
}
