// Package server is the development server the browser sketch connects to.
// It carries ssam:* events over a websocket and serves a health check.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/bashhack/ssamgit/internal/errors"
	"github.com/bashhack/ssamgit/internal/logger"
)

// DefaultShutdownTimeout bounds how long Serve waits for requests and
// running handlers after its context is done.
const DefaultShutdownTimeout = 10 * time.Second

// Server serves the websocket hub over HTTP
type Server struct {
	addr            string
	wsPath          string
	hub             *Hub
	router          *chi.Mux
	logger          logger.Logger
	shutdownTimeout time.Duration
}

// New creates a Server for hub. The websocket endpoint is mounted at wsPath.
func New(addr, wsPath string, hub *Hub, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	s := &Server{
		addr:            addr,
		wsPath:          wsPath,
		hub:             hub,
		router:          r,
		logger:          log,
		shutdownTimeout: DefaultShutdownTimeout,
	}

	r.Get("/healthz", s.handleHealth)
	r.Get(wsPath, hub.ServeHTTP)

	return s
}

// Handler returns the HTTP handler with every route mounted
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the websocket hub
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Listen binds the configured address
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", s.addr)
	}
	return ln, nil
}

// Serve accepts connections on ln until ctx is done, then shuts down:
// clients are disconnected and running handlers are given time to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Listening on %s%s", ln.Addr(), s.wsPath)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server error")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown(srv)
	})

	return g.Wait()
}

func (s *Server) shutdown(srv *http.Server) error {
	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	s.hub.Close()
	err := srv.Shutdown(shutdownCtx)

	done := make(chan struct{})
	go func() {
		s.hub.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		s.logger.Warning("Shutdown timed out with handlers still running")
	}

	if err != nil {
		return errors.Wrap(err, "shutdown failed")
	}
	return nil
}

// ListenAndServe binds the configured address and serves until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
