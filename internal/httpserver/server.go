// internal/httpserver/server.go
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/favtube/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/mw"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/respond"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/routes"
	"github.com/MrSnakeDoc/favtube/internal/logger"
)

// PoweredBy is the X-Powered-By value of every response.
const PoweredBy = "favtube"

// Options tunes the listening socket.
type Options struct {
	Addr string
	// WriteTimeout bounds a whole response, streams included. Zero disables it.
	WriteTimeout time.Duration
}

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http   *http.Server
	logger logger.Logger
}

// NewBaseRouter returns a router carrying the global middlewares.
func NewBaseRouter(loggerClient logger.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Global middlewares
	// No per-request timeout: description streams outlive any fixed deadline.
	r.Use(middleware.GetHead)
	r.Use(middleware.RequestID)     // X-Request-ID on each request
	r.Use(mw.Log(loggerClient))     // structured access logs
	r.Use(mw.Recover(loggerClient)) // panics become "App error: ..."
	r.Use(mw.PoweredBy(PoweredBy))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Text(w, http.StatusNotFound, "404 Not Found")
	})
	return r
}

// NewRouter builds the video API router.
func NewRouter(d deps.Deps) http.Handler {
	r := NewBaseRouter(d.Logger)
	routes.RegisterAll(r, d)
	return r
}

// NewFallbackRouter answers every method and path with the store
// connection error. Used when the store could not be reached at startup.
func NewFallbackRouter(connErr error, loggerClient logger.Logger) http.Handler {
	r := NewBaseRouter(loggerClient)
	h := handlers.ConnectFailed(connErr, loggerClient)
	r.Handle("/", h)
	r.Handle("/*", h)
	return r
}

// New builds the HTTP server around handler.
func New(opts Options, handler http.Handler, loggerClient logger.Logger) *Server {
	s := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return &Server{
		http:   s,
		logger: loggerClient,
	}
}

// Start runs the HTTP server (blocks until error or shutdown).
func (s *Server) Start() error {
	s.logger.Infof("HTTP server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	// http.ErrServerClosed is expected on graceful shutdown.
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server with the provided context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down...")
	return s.http.Shutdown(ctx)
}
