// Package server exposes page storage and grid diagnostics over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /version
//	GET    /pages
//	GET    /pages/{id}
//	PUT    /pages/{id}           JSON or TOML body (Content-Type)
//	DELETE /pages/{id}
//	GET    /pages/{id}/dump
//	GET    /pages/{id}/validate
//	GET    /pages/{id}/render    ?format=svg|png|json|text
//	POST   /pages/{id}/solve     ?explain=text|dot|svg
//	POST   /pages/{id}/replay    TOML or JSON drag script
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gridshift/pkg/reflow"
	"github.com/matzehuels/gridshift/pkg/store"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:7411"

// maxBody caps request bodies.
const maxBody = 1 << 20

// Server serves the diagnostics API.
type Server struct {
	store   store.Store
	logger  *log.Logger
	timings reflow.Timings
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Nil keeps log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimings sets the reflow timings used by replays.
func WithTimings(t reflow.Timings) Option {
	return func(s *Server) { s.timings = t }
}

// New builds a server over st.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{store: st, logger: log.Default(), timings: reflow.DefaultTimings()}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/pages", func(r chi.Router) {
		r.Get("/", s.handleListPages)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetPage)
			r.Put("/", s.handlePutPage)
			r.Delete("/", s.handleDeletePage)
			r.Get("/dump", s.handleDump)
			r.Get("/validate", s.handleValidate)
			r.Get("/render", s.handleRender)
			r.Post("/solve", s.handleSolve)
			r.Post("/replay", s.handleReplay)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
