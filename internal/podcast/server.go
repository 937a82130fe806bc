package podcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"eduseva-cli/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// EpisodeSource produces the podcast episode, from cache when possible.
type EpisodeSource interface {
	Load(ctx context.Context) (model.Podcast, error)
}

// AudioStreamer copies episode audio from the upstream API, carrying
// the caller's authentication.
type AudioStreamer interface {
	DownloadAudio(ctx context.Context, audioURL string, w io.Writer) (int64, error)
}

// ServerConfig holds the configuration for the local feed server.
type ServerConfig struct {
	Addr     string
	Episodes EpisodeSource
	Audio    AudioStreamer

	// ActiveDocument names the document the feed describes. Optional.
	ActiveDocument func(ctx context.Context) (*model.Document, bool)

	// GeneratedAt reports when the cached episode was written. Optional;
	// the feed falls back to the current time.
	GeneratedAt func(ctx context.Context) (time.Time, bool)

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server exposes the generated podcast as an RSS feed over localhost so
// regular podcast players can subscribe to it. The audio route proxies
// the upstream file with authentication attached.
type Server struct {
	cfg    ServerConfig
	router *chi.Mux
}

// NewServer creates the feed server.
func NewServer(cfg ServerConfig) *Server {
	s := &Server{cfg: cfg}

	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(Recovery)
	r.Use(Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/podcast", func(r chi.Router) {
		r.Get("/feed.xml", s.handleFeed)
		r.Get("/episode.mp3", s.handleEpisode)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// baseURL is what feed enclosure links are built on.
func (s *Server) baseURL() string {
	return "http://" + s.cfg.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("[PodcastServer] Listening on %s", s.baseURL())
		log.Printf("[PodcastServer] Feed URL: %s/podcast/feed.xml", s.baseURL())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	log.Printf("[PodcastServer] Shutting down...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// handleFeed handles GET /podcast/feed.xml
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	episode, err := s.cfg.Episodes.Load(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "GENERATION_FAILED", err.Error())
		return
	}

	in := FeedInput{Episode: episode, BaseURL: s.baseURL()}
	if s.cfg.ActiveDocument != nil {
		in.Document, _ = s.cfg.ActiveDocument(ctx)
	}
	if s.cfg.GeneratedAt != nil {
		if at, ok := s.cfg.GeneratedAt(ctx); ok {
			in.Generated = at
		}
	}

	rss, err := in.BuildRSS()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "FEED_ERROR", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(rss))
}

// handleEpisode handles GET /podcast/episode.mp3
func (s *Server) handleEpisode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	episode, err := s.cfg.Episodes.Load(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "GENERATION_FAILED", err.Error())
		return
	}
	if episode.AudioURL == "" {
		writeError(w, http.StatusNotFound, "NO_AUDIO", "episode has no audio")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	if _, err := s.cfg.Audio.DownloadAudio(ctx, episode.AudioURL, w); err != nil {
		// Headers are likely sent already; nothing left but to log.
		log.Printf("[PodcastServer] Audio proxy failed: %v", err)
	}
}

// writeJSON sends a success envelope.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}

// writeError sends an error envelope.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}
