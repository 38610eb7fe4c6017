package ports

import (
	"context"
	"errors"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

// ErrUnauthorized indicates the session's Spotify token was rejected.
var ErrUnauthorized = errors.New("spotify authorization rejected")

// SpotifyProvider reads a user's library and publishes playlists on their behalf.
type SpotifyProvider interface {
	// SavedTracks returns the user's liked songs with audio features attached.
	SavedTracks(ctx context.Context, sess domain.Session) ([]domain.Track, error)
	// PublishPlaylist creates a private playlist and returns its Spotify ID.
	PublishPlaylist(ctx context.Context, sess domain.Session, name, description string, trackIDs []string) (string, error)
}

// PublishQueue schedules asynchronous publishing of a stored playlist.
type PublishQueue interface {
	Enqueue(playlistID string, sess domain.Session) bool
}
