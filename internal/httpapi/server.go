// Package httpapi serves resume generation and profile storage over HTTP.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lvillar/resumepdf"
	"github.com/lvillar/resumepdf/assets"
	"github.com/lvillar/resumepdf/internal/store"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 16 << 20

// Server is the HTTP front end.
type Server struct {
	gen     *resumepdf.Generator
	store   store.Store
	logger  *log.Logger
	timeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithTimeout bounds each request. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New returns a server generating with gen and keeping profiles in st.
// A nil st disables the profile routes.
func New(gen *resumepdf.Generator, st store.Store, opts ...Option) *Server {
	s := &Server{gen: gen, store: st, timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Post("/generate-form-simple", s.handleGenerate)

	r.Route("/api", func(r chi.Router) {
		r.Get("/themes", s.handleAssets(assets.KindTheme))
		r.Get("/layouts", s.handleAssets(assets.KindLayout))
		r.Get("/blocks", s.handleBlocks)
		if s.store != nil {
			r.Route("/profiles", s.profileRoutes)
		}
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.logger.Info("listening", "addr", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
