// Package httpd implements the pedviz preview server: a small HTTP
// service that parses a pedigree source once per request, computes
// layouts, and serves rendered artifacts for quick inspection in a
// browser.
package httpd

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/populationgenomics/pedviz/pkg/buildinfo"
	"github.com/populationgenomics/pedviz/pkg/observability"
	"github.com/populationgenomics/pedviz/pkg/pipeline"
)

// Server serves pedigree previews for a single input source.
type Server struct {
	runner *pipeline.Runner
	input  string
	logger *log.Logger
	http   *http.Server
}

// New creates a preview server for the given input file, backed by the
// runner's cache.
func New(addr, input string, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		input:  input,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/families", s.handleFamilies)
	r.Get("/families/{id}", s.handleLayout)
	r.Get("/families/{id}.svg", s.handleSVG)
	r.Get("/families/{id}.png", s.handlePNG)
	r.Get("/families/{id}.dot", s.handleDOT)
	r.Get("/families/{id}/graph.svg", s.handleGraphSVG)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// ListenAndServe blocks serving requests until the context is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", s.http.Addr, "input", s.input)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// observe reports request events to the server hooks and logs slow
// requests.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		if elapsed > time.Second {
			s.logger.Warn("slow request", "method", r.Method, "path", r.URL.Path, "duration", elapsed)
		}
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}
