package web

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/elderkiyo/lyricmood/internal/dataset"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ViewConfig holds the sizes of the derived views the dashboard shows.
type ViewConfig struct {
	TopArtists    int
	ExtremeSongs  int
	HistogramBins int
	WordCloudSize int
	ExcerptChars  int
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr        string
	DataFile    string
	Cache       *dataset.Cache
	View        ViewConfig
	TemplatesFS fs.FS
	StaticFS    fs.FS
}

// Server is the HTTP server for the sentiment dashboard.
type Server struct {
	router    chi.Router
	server    *http.Server
	templates *Templates
	sessions  *SessionStore
	handlers  *Handlers
}

// NewServer creates a new dashboard server. The dataset is loaded lazily
// through the cache, so a missing CSV does not prevent startup; the
// dashboard renders a "no data" page until the file appears.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Cache == nil {
		cfg.Cache = dataset.NewCache()
	}

	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	sessions := NewSessionStore()
	handlers := NewHandlers(cfg.Cache, cfg.DataFile, cfg.View, sessions, templates)

	router := chi.NewRouter()

	s := &Server{
		router:    router,
		templates: templates,
		sessions:  sessions,
		handlers:  handlers,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.StaticFS)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the server's root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(staticFS fs.FS) {
	// Static files
	fileServer := http.FileServer(http.FS(staticFS))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Pages
	s.router.Get("/", s.handlers.Dashboard)

	// Filter state
	s.router.Post("/filters", s.handlers.ApplyFilters)
	s.router.Post("/filters/reset", s.handlers.ResetFilters)

	// JSON API consumed by the chart panels
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handlers.Summary)
		r.Get("/artists", s.handlers.Artists)
		r.Get("/histogram", s.handlers.Histogram)
		r.Get("/scatter", s.handlers.Scatter)
		r.Get("/extremes", s.handlers.Extremes)
		r.Get("/words", s.handlers.Words)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		slog.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
