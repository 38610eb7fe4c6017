package rest

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/stride/internal/core/services"
)

// Options configures optional Handler collaborators.
type Options struct {
	// OAuth enables /login and /callback.
	OAuth *oauth2.Config
	// Ready reports whether backing stores are reachable. Nil is always ready.
	Ready func(ctx context.Context) error
	// SecureCookies marks session cookies Secure (HTTPS deployments).
	SecureCookies bool
	Logger        *zap.Logger
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc    *services.Orchestrator // Dependency on the Core Service
	opts   Options
	log    *zap.Logger
	router *http.ServeMux // Standard library router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc *services.Orchestrator, opts Options) *Handler {
	h := &Handler{
		svc:    svc,
		opts:   opts,
		log:    opts.Logger,
		router: http.NewServeMux(),
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.HandleFunc("GET /ready", h.ReadyCheck)
	// Spotify login
	h.router.HandleFunc("GET /login", h.Login)
	h.router.HandleFunc("GET /callback", h.Callback)
	// Playlists
	h.router.HandleFunc("POST /playlists/generate", h.GeneratePlaylist)
	h.router.HandleFunc("GET /playlists/{id}", h.GetPlaylist)
	h.router.HandleFunc("GET /profiles", h.ListProfiles)
	h.router.HandleFunc("POST /goals/parse", h.ParseGoal)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "stride is live"})
}

// ReadyCheck reports whether the API can serve requests that need storage.
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if h.opts.Ready != nil {
		if err := h.opts.Ready(r.Context()); err != nil {
			h.log.Warn("rest: readiness check failed", zap.Error(err))
			writeErrorWithCode(w, http.StatusServiceUnavailable, "storage unavailable", "NOT_READY")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
