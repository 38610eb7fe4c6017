package spotify

import (
	"strings"
	"time"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

// mapTrackToDomain converts a raw Spotify track to a domain track.
// features is nil when Spotify returned none for the track.
func mapTrackToDomain(st spotifyTrack, features *spotifyAudioFeatures) domain.Track {
	artistNames := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		artistNames = append(artistNames, a.Name)
	}

	dt := domain.Track{
		ID:         st.ID,
		Title:      st.Name,
		Artist:     strings.Join(artistNames, ", "),
		Album:      st.Album.Name,
		Duration:   time.Duration(st.DurationMs) * time.Millisecond,
		PreviewURL: st.PreviewURL,
	}

	if features != nil {
		dt.Features = domain.AudioFeatures{
			Danceability:     features.Danceability,
			Energy:           features.Energy,
			Valence:          features.Valence,
			Tempo:            features.Tempo,
			Instrumentalness: features.Instrumentalness,
			Acousticness:     features.Acousticness,
		}
	}

	return dt
}
