package planner

import "github.com/ewilliams-labs/stride/internal/core/domain"

// Pool is the set of candidate tracks for one build. Tracks leave the pool
// as phases claim them and never come back.
type Pool struct {
	tracks  []domain.Track
	removed map[string]bool
}

// NewPool copies tracks into a new pool, keeping the first occurrence of any
// repeated ID. The caller's slice is never modified.
func NewPool(tracks []domain.Track) *Pool {
	seen := make(map[string]bool, len(tracks))
	own := make([]domain.Track, 0, len(tracks))
	for _, t := range tracks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		own = append(own, t)
	}
	return &Pool{tracks: own, removed: make(map[string]bool)}
}

// Len returns the number of tracks still available.
func (p *Pool) Len() int {
	return len(p.tracks) - len(p.removed)
}

// Remaining returns the available tracks in their original order.
func (p *Pool) Remaining() []domain.Track {
	out := make([]domain.Track, 0, p.Len())
	for _, t := range p.tracks {
		if !p.removed[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// Remove takes a track out of the pool. It reports false if the track was
// not available.
func (p *Pool) Remove(id string) bool {
	if p.removed[id] {
		return false
	}
	for _, t := range p.tracks {
		if t.ID == id {
			p.removed[id] = true
			return true
		}
	}
	return false
}
