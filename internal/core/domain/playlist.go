package domain

import (
	"errors"
	"time"
)

var ErrDuplicateTrack = errors.New("domain: duplicate track")

// PublishStatus tracks whether a playlist has been written to Spotify.
type PublishStatus string

const (
	StatusPending   PublishStatus = "pending"
	StatusPublished PublishStatus = "published"
	StatusFailed    PublishStatus = "failed"
)

type Playlist struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Goal        GoalSpec      `json:"goal"`
	Entries     []Entry       `json:"entries"`
	Report      BuildReport   `json:"report"`
	SpotifyID   string        `json:"spotify_id,omitempty"`
	Status      PublishStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

func NewPlaylist(id, name string) (*Playlist, error) {
	if id == "" || name == "" {
		return nil, ErrInvalidArgument
	}
	return &Playlist{
		ID:      id,
		Name:    name,
		Entries: []Entry{},
		Status:  StatusPending,
	}, nil
}

// AddEntry appends a track under the given phase, assigning the next position.
// A track may appear only once; repeats return ErrDuplicateTrack.
func (p *Playlist) AddEntry(phase string, t Track) error {
	for _, ex := range p.Entries {
		if ex.Track.ID == t.ID {
			return ErrDuplicateTrack
		}
	}
	p.Entries = append(p.Entries, Entry{Position: len(p.Entries), Phase: phase, Track: t})
	return nil
}

// TrackIDs returns the ordered track identifiers.
func (p *Playlist) TrackIDs() []string {
	ids := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		ids[i] = e.Track.ID
	}
	return ids
}

// Duration is the summed length of all entries.
func (p *Playlist) Duration() time.Duration {
	var total time.Duration
	for _, e := range p.Entries {
		total += e.Track.Duration
	}
	return total
}

// Analyze averages the audio features across the playlist.
func (p *Playlist) Analyze() AudioFeatures {
	if len(p.Entries) == 0 {
		return AudioFeatures{}
	}
	var sum AudioFeatures
	for _, e := range p.Entries {
		f := e.Track.Features
		sum.Danceability += f.Danceability
		sum.Energy += f.Energy
		sum.Valence += f.Valence
		sum.Tempo += f.Tempo
		sum.Instrumentalness += f.Instrumentalness
		sum.Acousticness += f.Acousticness
	}
	n := float64(len(p.Entries))
	return AudioFeatures{
		Danceability:     sum.Danceability / n,
		Energy:           sum.Energy / n,
		Valence:          sum.Valence / n,
		Tempo:            sum.Tempo / n,
		Instrumentalness: sum.Instrumentalness / n,
		Acousticness:     sum.Acousticness / n,
	}
}
