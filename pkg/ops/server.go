// Package ops exposes liveness and readiness endpoints for process
// supervisors and uptime checks.
package ops

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/carverauto/kioskradar/pkg/logger"
	"github.com/carverauto/kioskradar/pkg/models"
	"github.com/carverauto/kioskradar/pkg/treestore"
)

const (
	readyProbeTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server answers /healthz as soon as the process is up and /readyz once
// the tree store responds.
type Server struct {
	addr    string
	store   treestore.Store
	logger  logger.Logger
	handler http.Handler
	httpSrv *http.Server
}

// NewServer builds the ops server for the given listen address.
func NewServer(addr string, store treestore.Store, log logger.Logger) *Server {
	s := &Server{
		addr:   addr,
		store:  store,
		logger: log,
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.logRequests)
	router.Get("/healthz", s.handleHealthz)
	router.Get("/readyz", s.handleReadyz)

	s.handler = router
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return s
}

// Handler returns the route table for serving through other listeners.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("Ops server listening")

		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// logRequests traces probe traffic at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug().
			Str("remote", r.RemoteAddr).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Ops request")

		next.ServeHTTP(w, r)
	})
}

func (*Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReadyz reads the app index as a cheap end-to-end probe of the
// store backend. A missing index still counts as ready; only transport
// failures do not.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
	defer cancel()

	if _, err := s.store.Get(ctx, models.RootApps); err != nil {
		s.logger.Warn().Err(err).Msg("Readiness probe failed")
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)

		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
