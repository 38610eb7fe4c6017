package ports

import (
	"context"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

// PlaylistRepository persists built playlists and their publish state.
type PlaylistRepository interface {
	GetByID(ctx context.Context, id string) (domain.Playlist, error)
	Save(ctx context.Context, p domain.Playlist) error
	MarkPublished(ctx context.Context, id, spotifyID string) error
	MarkFailed(ctx context.Context, id string) error
}

// SessionStore keeps OAuth sessions keyed by the session cookie.
type SessionStore interface {
	SaveSession(ctx context.Context, s domain.Session) error
	GetSession(ctx context.Context, id string) (domain.Session, error)
}
