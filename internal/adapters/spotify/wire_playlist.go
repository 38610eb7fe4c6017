package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

// PublishPlaylist creates a private playlist in the user's account and adds
// the tracks in order, 100 per request. It returns the Spotify playlist ID.
func (c *Client) PublishPlaylist(ctx context.Context, sess domain.Session, name, description string, trackIDs []string) (string, error) {
	auth := c.authorize(ctx, sess)
	defer c.persist(ctx, auth)

	var user spotifyUser
	if err := c.getJSON(ctx, auth, c.baseURL+"/me", &user); err != nil {
		return "", fmt.Errorf("spotify adapter: current user: %w", err)
	}

	var created spotifyPlaylist
	createURL := fmt.Sprintf("%s/users/%s/playlists", c.baseURL, url.PathEscape(user.ID))
	body := createPlaylistRequest{Name: name, Description: description, Public: false}
	if err := c.postJSON(ctx, auth, createURL, body, &created); err != nil {
		return "", fmt.Errorf("spotify adapter: create playlist: %w", err)
	}

	addURL := fmt.Sprintf("%s/playlists/%s/tracks", c.baseURL, url.PathEscape(created.ID))
	for start := 0; start < len(trackIDs); start += playlistBatchSize {
		batch := trackIDs[start:min(start+playlistBatchSize, len(trackIDs))]
		uris := make([]string, len(batch))
		for i, id := range batch {
			uris[i] = domain.Track{ID: id}.URI()
		}
		if err := c.postJSON(ctx, auth, addURL, addTracksRequest{URIs: uris}, nil); err != nil {
			return "", fmt.Errorf("spotify adapter: add tracks %d-%d: %w", start, start+len(batch), err)
		}
	}

	c.log.Info("spotify adapter: playlist published",
		zap.String("spotify_id", created.ID), zap.Int("tracks", len(trackIDs)))
	return created.ID, nil
}

// postJSON sends body as JSON and decodes a 200/201 response into out when
// out is non-nil.
func (c *Client) postJSON(ctx context.Context, auth *authorizer, u string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.send(auth, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK, http.StatusCreated); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := decodeJSON(resp, out); err != nil {
		return fmt.Errorf("spotify adapter: decode error: %w", err)
	}
	return nil
}
