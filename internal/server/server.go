package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/khalids/topicwire/internal/config"
	"github.com/khalids/topicwire/internal/database"
	"github.com/khalids/topicwire/internal/pipeline"
)

// Ingestor triggers a topic ingestion run and reports its progress
type Ingestor interface {
	IngestTopic(ctx context.Context) (int, error)
	Stats() *pipeline.RunStats
}

// Server represents the HTTP server
type Server struct {
	router   *chi.Mux
	db       *database.DB
	ingestor Ingestor
	config   *config.Config
}

// New creates a new server instance
func New(db *database.DB, ingestor Ingestor, cfg *config.Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		db:       db,
		ingestor: ingestor,
		config:   cfg,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	// An ingest run waits out one browser settle per entry, so the
	// request budget is generous.
	s.router.Use(middleware.Timeout(10 * time.Minute))

	// Routes
	s.router.Get("/articles", s.handleArticleList)
	s.router.Get("/articles/{id}", s.handleArticleDetail)
	s.router.Post("/ingest", s.handleIngest)
	s.router.Get("/ingest/status", s.handleIngestStatus)
	s.router.Get("/rss.xml", s.handleRSS)

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Router returns the Chi router
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	log.Printf("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// handleArticleList returns the most recently ingested articles
func (s *Server) handleArticleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	articles, err := s.db.GetRecentArticles(ctx, 100)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch articles: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, articles)
}

// handleArticleDetail returns a single article
func (s *Server) handleArticleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := chi.URLParam(r, "id")

	var id int64
	if _, err := fmt.Sscanf(idStr, "%d", &id); err != nil {
		http.Error(w, "Invalid article ID", http.StatusBadRequest)
		return
	}

	article, err := s.db.GetArticleByID(ctx, id)
	if err != nil {
		http.Error(w, fmt.Sprintf("Article not found: %v", err), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

// handleIngest triggers a topic ingestion run
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.ingestor.Stats().IsActive() {
		http.Error(w, "An ingestion run is already in progress", http.StatusConflict)
		return
	}

	log.Println("Starting manual ingestion run...")

	count, err := s.ingestor.IngestTopic(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Ingestion failed: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"processed": count})
}

// handleIngestStatus reports progress of the current or last run
func (s *Server) handleIngestStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ingestor.Stats().GetCurrent())
}

// handleRSS generates and serves the RSS feed
func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	articles, err := s.db.GetRecentArticles(ctx, 50)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch articles: %v", err), http.StatusInternalServerError)
		return
	}

	feed, err := GenerateRSSFeed(articles, s.config)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate feed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(feed))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
