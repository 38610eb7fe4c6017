package spotify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	spotifyoauth "golang.org/x/oauth2/spotify"

	"github.com/ewilliams-labs/stride/internal/core/domain"
	"github.com/ewilliams-labs/stride/internal/core/ports"
)

// Scopes are the permissions stride requests at login.
var Scopes = []string{
	"user-library-read",
	"playlist-modify-public",
	"playlist-modify-private",
}

// NewOAuthConfig builds the authorization-code flow configuration.
func NewOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint:     spotifyoauth.Endpoint,
	}
}

func tokenFromSession(sess domain.Session) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		TokenType:    sess.TokenType,
		Expiry:       sess.Expiry,
	}
}

// authorizer hands out the token for a single operation. The session token
// is refreshed at most once and every request of the operation reuses it.
type authorizer struct {
	sess domain.Session
	src  oauth2.TokenSource

	mu   sync.Mutex
	last *oauth2.Token
}

func (c *Client) authorize(ctx context.Context, sess domain.Session) *authorizer {
	base := tokenFromSession(sess)
	var src oauth2.TokenSource
	if c.oauth != nil {
		refresher := c.oauth.TokenSource(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), base)
		src = oauth2.ReuseTokenSource(base, refresher)
	} else {
		src = oauth2.StaticTokenSource(base)
	}
	return &authorizer{sess: sess, src: src}
}

func (a *authorizer) token() (*oauth2.Token, error) {
	if a.sess.AccessToken == "" {
		return nil, fmt.Errorf("spotify adapter: session %q has no access token: %w", a.sess.ID, ports.ErrUnauthorized)
	}

	tok, err := a.src.Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, fmt.Errorf("spotify adapter: token refresh rejected: %v: %w", re, ports.ErrUnauthorized)
		}
		// Expired without a refresh token.
		return nil, fmt.Errorf("spotify adapter: token refresh failed: %v: %w", err, ports.ErrUnauthorized)
	}

	a.mu.Lock()
	a.last = tok
	a.mu.Unlock()
	return tok, nil
}

// refreshed reports the session carrying the token issued during the
// operation, or false when the stored token is still the one in use.
func (a *authorizer) refreshed() (domain.Session, bool) {
	a.mu.Lock()
	tok := a.last
	a.mu.Unlock()

	if tok == nil || (tok.AccessToken == a.sess.AccessToken && (tok.RefreshToken == "" || tok.RefreshToken == a.sess.RefreshToken)) {
		return a.sess, false
	}
	sess := a.sess
	sess.AccessToken = tok.AccessToken
	sess.TokenType = tok.TokenType
	sess.Expiry = tok.Expiry
	// Spotify omits refresh_token when it does not rotate it.
	if tok.RefreshToken != "" {
		sess.RefreshToken = tok.RefreshToken
	}
	return sess, true
}

// persist writes a refreshed token back to the session store so the next
// operation does not start from a stale or revoked refresh token.
func (c *Client) persist(ctx context.Context, a *authorizer) {
	sess, ok := a.refreshed()
	if !ok || c.sessions == nil {
		return
	}
	if err := c.sessions.SaveSession(context.WithoutCancel(ctx), sess); err != nil {
		c.log.Warn("spotify adapter: failed to persist refreshed token",
			zap.String("session_id", sess.ID), zap.Error(err))
		return
	}
	c.log.Debug("spotify adapter: refreshed token persisted", zap.String("session_id", sess.ID))
}
