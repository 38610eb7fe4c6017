package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

// trackRecord is one entry of a library file. Durations are milliseconds,
// as in Spotify exports.
type trackRecord struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	Album        string  `json:"album"`
	DurationMs   int64   `json:"duration_ms"`
	Tempo        float64 `json:"tempo"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Valence      float64 `json:"valence"`
}

func (r trackRecord) toDomain() domain.Track {
	return domain.Track{
		ID:       r.ID,
		Title:    r.Title,
		Artist:   r.Artist,
		Album:    r.Album,
		Duration: time.Duration(r.DurationMs) * time.Millisecond,
		Features: domain.AudioFeatures{
			Tempo:        r.Tempo,
			Energy:       r.Energy,
			Danceability: r.Danceability,
			Valence:      r.Valence,
		},
	}
}

// loadTracks reads a library file: a JSON array of track records, or "-"
// for stdin.
func loadTracks(path string, stdin io.Reader) ([]domain.Track, error) {
	if path == "" {
		return nil, errors.New("--tracks is required")
	}

	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open tracks: %w", err)
		}
		defer f.Close()
		r = f
	}

	var records []trackRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("parse tracks %s: %w", path, err)
	}

	tracks := make([]domain.Track, 0, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("tracks %s: entry %d has no id", path, i)
		}
		tracks = append(tracks, rec.toDomain())
	}
	return tracks, nil
}
