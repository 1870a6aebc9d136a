// Package httpserver provides the HTTP surface of the auth engine.
//
// It uses the Go standard library net/http with method-qualified
// ServeMux patterns; routing lives in router.go, cross-cutting
// concerns in middleware.go and endpoint logic under handler/.
package httpserver

import (
	"context"
	"net/http"
	"time"
)

// Server wraps http.Server with the configured timeouts.
type Server struct {
	httpServer *http.Server
}

// New creates the HTTP server.
func New(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
	}
}

// ListenAndServe starts the server and blocks.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
