package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/baxromumarov/resume-screener/internal/core"
	"github.com/baxromumarov/resume-screener/internal/resume"
	"github.com/baxromumarov/resume-screener/internal/scraper"
)

// Screener is the screening surface the HTTP layer drives.
type Screener interface {
	Preview(ctx context.Context, jobURL string) scraper.Result
	Screen(ctx context.Context, doc resume.Document, jobURL string) core.Record
	ScreenText(ctx context.Context, doc resume.Document, title, text string) core.Record
}

// RecordStore persists and lists screenings. It is optional.
type RecordStore interface {
	SaveRecord(ctx context.Context, rec core.Record) error
	ListRecords(ctx context.Context, limit, offset int) ([]core.Record, error)
}

type Server struct {
	router   *chi.Mux
	screener Screener
	store    RecordStore
	logger   *zap.Logger
}

// NewServer wires the routes. store may be nil, in which case screenings are
// not persisted and listing them answers 503.
func NewServer(screener Screener, store RecordStore, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router:   chi.NewRouter(),
		screener: screener,
		store:    store,
		logger:   logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	s.router.Post("/scrape", s.handleScrape)
	s.router.Post("/screen", s.handleScreen)
	s.router.Get("/screenings", s.handleListScreenings)
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
