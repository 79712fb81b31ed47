package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blockview/blockview/internal/chat"
	"github.com/blockview/blockview/internal/config"
	"github.com/blockview/blockview/internal/metrics"
	"github.com/blockview/blockview/internal/pipeline"
	"github.com/blockview/blockview/internal/speech"
)

// Server is the HTTP API server for blockview.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	chat         *chat.Client
	speech       *speech.Client
	metrics      *metrics.Metrics
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. speechClient may be
// nil when no speech credentials are configured.
func NewServer(orch *pipeline.Orchestrator, chatClient *chat.Client, speechClient *speech.Client, m *metrics.Metrics, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		chat:         chatClient,
		speech:       speechClient,
		metrics:      m,
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
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(MetricsMiddleware(s.metrics))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/documents", s.handleUpload)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/documents/{docID}", s.handleGetDocument)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)
		r.Get("/api/documents/{docID}/pages/{page}/overlay", s.handleOverlay)

		r.Get("/api/documents/{docID}/selection", s.handleGetSelection)
		r.Put("/api/documents/{docID}/selection", s.handlePutSelection)
		r.Delete("/api/documents/{docID}/selection", s.handleClearSelection)

		r.Post("/api/documents/{docID}/blocks/{blockID}/chat", s.handleChat)
		r.Post("/api/documents/{docID}/blocks/{blockID}/speech", s.handleSpeech)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
