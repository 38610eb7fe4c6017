package spotify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

// SavedTracks returns the user's liked songs with audio features attached.
// Local files and tracks without a duration are skipped. An expired session
// token is refreshed once for the whole load and written back to the
// session store.
func (c *Client) SavedTracks(ctx context.Context, sess domain.Session) ([]domain.Track, error) {
	auth := c.authorize(ctx, sess)
	defer c.persist(ctx, auth)

	raw, err := c.savedTracks(ctx, auth)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(raw))
	for i, st := range raw {
		ids[i] = st.ID
	}
	features, err := c.audioFeatures(ctx, auth, ids)
	if err != nil {
		return nil, err
	}

	tracks := make([]domain.Track, len(raw))
	for i, st := range raw {
		if f, ok := features[st.ID]; ok && !allFeaturesZero(*f) {
			tracks[i] = mapTrackToDomain(st, f)
			continue
		}
		tracks[i] = mapTrackToDomain(st, nil)
	}

	if err := c.fillMissingFeatures(ctx, tracks, features); err != nil {
		return nil, err
	}

	c.log.Info("spotify adapter: library loaded",
		zap.Int("tracks", len(tracks)), zap.Int("with_features", countUsable(features)))
	return tracks, nil
}

func (c *Client) savedTracks(ctx context.Context, auth *authorizer) ([]spotifyTrack, error) {
	next := fmt.Sprintf("%s/me/tracks?limit=%d", c.baseURL, savedTracksPageSize)
	seen := make(map[string]bool)
	var out []spotifyTrack

	for next != "" && len(out) < c.maxSaved {
		var page savedTracksPage
		if err := c.getJSON(ctx, auth, next, &page); err != nil {
			return nil, fmt.Errorf("spotify adapter: saved tracks: %w", err)
		}
		for _, item := range page.Items {
			st := item.Track
			if st == nil || st.ID == "" || st.IsLocal || st.DurationMs <= 0 || seen[st.ID] {
				continue
			}
			seen[st.ID] = true
			out = append(out, *st)
			if len(out) == c.maxSaved {
				break
			}
		}
		next = page.Next
	}
	return out, nil
}

func countUsable(features map[string]*spotifyAudioFeatures) int {
	n := 0
	for _, f := range features {
		if !allFeaturesZero(*f) {
			n++
		}
	}
	return n
}
