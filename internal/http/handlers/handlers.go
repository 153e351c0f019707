package handlers

import (
	"log/slog"
	nethttp "net/http"
	"strings"

	"rinkcast/internal/namer"
	"rinkcast/internal/pipeline"
	"rinkcast/internal/poller"
	"rinkcast/internal/store"
)

// Handler wires HTTP routes to the commentary pipeline.
type Handler struct {
	store    *store.MemoryStore
	sup      *pipeline.Supervisor
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler.
func NewHandler(memStore *store.MemoryStore, sup *pipeline.Supervisor, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		store:    memStore,
		sup:      sup,
		logger:   logger,
		statusFn: statusFn,
	}
}

// ServeHTTP dispatches to the route handlers.
func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch {
	case r.URL.Path == "/health":
		h.Health(w, r)
	case r.URL.Path == "/ready":
		h.Ready(w, r)
	case r.URL.Path == "/games":
		h.Games(w, r)
	case strings.HasPrefix(r.URL.Path, "/games/"):
		h.gameRoute(w, r)
	default:
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	if h.statusFn().IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := h.statusFn().LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Games lists the ids of every game with a published snapshot.
func (h *Handler) Games(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"games": h.store.GameIDs()}, h.logger)
}

func (h *Handler) gameRoute(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/games/")
	gameID, sub, _ := strings.Cut(rest, "/")
	if gameID == "" {
		writeError(w, r, nethttp.StatusBadRequest, "missing game id", h.logger)
		return
	}

	switch sub {
	case "", "state":
		h.gameState(w, r, gameID)
	case "report":
		h.gameReport(w, r, gameID)
	case "session":
		h.gameSession(w, r, gameID)
	case "manifest":
		h.gameManifest(w, r, gameID)
	default:
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	}
}

func (h *Handler) gameState(w nethttp.ResponseWriter, r *nethttp.Request, gameID string) {
	st, ok := h.store.State(gameID)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, st, loggerFromContext(r, h.logger))
}

func (h *Handler) gameReport(w nethttp.ResponseWriter, r *nethttp.Request, gameID string) {
	report, ok := h.store.Report(gameID)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, report, loggerFromContext(r, h.logger))
}

func (h *Handler) gameSession(w nethttp.ResponseWriter, r *nethttp.Request, gameID string) {
	if h.sup == nil {
		writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
		return
	}
	stats, ok := h.sup.SessionStats(gameID)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
		return
	}
	handles, _ := h.sup.Handles(gameID)
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"stats":   stats,
		"handles": handles,
	}, loggerFromContext(r, h.logger))
}

func (h *Handler) gameManifest(w nethttp.ResponseWriter, r *nethttp.Request, gameID string) {
	if h.sup == nil {
		writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
		return
	}
	records, ok := h.sup.Records(gameID)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
		return
	}
	if records == nil {
		records = []namer.AudioFileRecord{}
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"gameId": gameID,
		"files":  records,
	}, loggerFromContext(r, h.logger))
}
