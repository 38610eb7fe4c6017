package rest

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

const (
	sessionCookie   = "stride_session"
	stateCookie     = "stride_oauth_state"
	sessionHeader   = "X-Session-ID"
	sessionLifetime = 30 * 24 * time.Hour
)

// Login handles GET /login by redirecting to Spotify's consent page.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.opts.OAuth == nil {
		writeErrorWithCode(w, http.StatusNotImplemented, "spotify login not configured", errCodeNotConfigured)
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.opts.OAuth.AuthCodeURL(state), http.StatusFound)
}

type callbackResponse struct {
	SessionID string    `json:"session_id"`
	Expiry    time.Time `json:"expiry"`
}

// Callback handles GET /callback: it checks the state, exchanges the code
// and stores a new session.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	if h.opts.OAuth == nil {
		writeErrorWithCode(w, http.StatusNotImplemented, "spotify login not configured", errCodeNotConfigured)
		return
	}

	q := r.URL.Query()
	if reason := q.Get("error"); reason != "" {
		writeErrorWithCode(w, http.StatusUnauthorized, "spotify login denied: "+reason, errCodeUnauthorized)
		return
	}
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != q.Get("state") {
		writeError(w, http.StatusBadRequest, "invalid oauth state")
		return
	}
	code := q.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	tok, err := h.opts.OAuth.Exchange(r.Context(), code)
	if err != nil {
		h.log.Warn("rest: token exchange failed", zap.Error(err))
		writeErrorWithCode(w, http.StatusBadGateway, "token exchange failed", errCodeUnauthorized)
		return
	}

	sess := domain.Session{
		ID:           uuid.NewString(),
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
	if err := h.svc.SaveSession(r.Context(), sess); err != nil {
		h.writeServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(sessionLifetime.Seconds()),
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, callbackResponse{SessionID: sess.ID, Expiry: sess.Expiry})
}

// sessionID reads the session from the cookie, or the X-Session-ID header
// for non-browser clients.
func sessionID(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.Header.Get(sessionHeader)
}
