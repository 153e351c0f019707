// Package http assembles the service's HTTP surface.
package http

import (
	"log/slog"
	nethttp "net/http"

	"rinkcast/internal/http/handlers"
	"rinkcast/internal/http/middleware"
	"rinkcast/internal/metrics"
)

// NewRouter wires the handler behind the logging middleware.
func NewRouter(handler *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	return middleware.LoggingMiddleware(logger, recorder, handler)
}
