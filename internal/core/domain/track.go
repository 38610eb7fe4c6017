package domain

import "time"

// AudioFeatures holds the Spotify audio analysis values used for sequencing.
type AudioFeatures struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Instrumentalness float64 `json:"instrumentalness"`
	Acousticness     float64 `json:"acousticness"`
}

// Track represents a musical track in the domain layer.
type Track struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Artist     string        `json:"artist"`
	Album      string        `json:"album,omitempty"`
	Duration   time.Duration `json:"duration"`
	PreviewURL string        `json:"preview_url,omitempty"`
	Features   AudioFeatures `json:"features"`
}

// URI returns the Spotify URI for the track.
func (t Track) URI() string {
	return "spotify:track:" + t.ID
}
