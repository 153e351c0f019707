package server

import (
	"context"
	"net/http"
)

// httpServer is the slice of *http.Server the lifecycle code needs,
// narrowed so tests can substitute a fake listener.
type httpServer interface {
	ListenAndServe() error
	Shutdown(context.Context) error
	Addr() string
	Handler() http.Handler
}

// netHTTPServer adapts a real *http.Server to the httpServer interface.
type netHTTPServer struct {
	srv *http.Server
}

func wrapServer(srv *http.Server) *netHTTPServer {
	return &netHTTPServer{srv: srv}
}

func (s *netHTTPServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

func (s *netHTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *netHTTPServer) Addr() string {
	return s.srv.Addr
}

func (s *netHTTPServer) Handler() http.Handler {
	return s.srv.Handler
}
