package spotify

// spotifyTrack is the track object embedded in library responses.
type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	DurationMs int64           `json:"duration_ms"`
	PreviewURL string          `json:"preview_url"`
	IsLocal    bool            `json:"is_local"`
	Artists    []spotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyAlbum struct {
	Name string `json:"name"`
}

// savedTracksPage is one page of GET /me/tracks.
type savedTracksPage struct {
	Items []struct {
		Track *spotifyTrack `json:"track"`
	} `json:"items"`
	Next  string `json:"next"`
	Total int    `json:"total"`
}

type spotifyAudioFeatures struct {
	ID               string  `json:"id"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Instrumentalness float64 `json:"instrumentalness"`
	Acousticness     float64 `json:"acousticness"`
}

// audioFeaturesResponse holds GET /audio-features; unknown IDs come back null.
type audioFeaturesResponse struct {
	AudioFeatures []*spotifyAudioFeatures `json:"audio_features"`
}

type spotifyUser struct {
	ID string `json:"id"`
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type spotifyPlaylist struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	ExternalURLs map[string]string `json:"external_urls"`
}

// addTracksRequest represents the request body for adding tracks to a playlist.
type addTracksRequest struct {
	URIs []string `json:"uris"`
}
