// Package planner builds race playlists: it derives a cadence from the goal,
// splits the race into energy phases and fills each phase, in race order,
// from a shared pool of candidate tracks.
//
// A Build is pure computation over its inputs. Earlier phases always win a
// track that several phases could use, which keeps results reproducible.
package planner

import (
	"fmt"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

// Planner holds an immutable, validated configuration.
type Planner struct {
	cfg      Config
	profiles map[string]Profile
}

// Result is a built playlist and its diagnostics.
type Result struct {
	Entries []domain.Entry
	Report  domain.BuildReport
}

// TrackIDs returns the ordered track identifiers of the result.
func (r Result) TrackIDs() []string {
	ids := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		ids[i] = e.Track.ID
	}
	return ids
}

// New validates cfg and returns a Planner that owns a private copy of it.
func New(cfg Config) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	own := cfg.clone()
	profiles := make(map[string]Profile, len(own.Profiles))
	for _, p := range own.Profiles {
		profiles[p.Name] = p
	}
	return &Planner{cfg: own, profiles: profiles}, nil
}

// Profiles returns the configured profiles in configuration order.
func (pl *Planner) Profiles() []Profile {
	out := make([]Profile, len(pl.cfg.Profiles))
	for i, p := range pl.cfg.Profiles {
		out[i] = p.clone()
	}
	return out
}

// Cadence computes the target cadence for goal.
func (pl *Planner) Cadence(goal domain.GoalSpec) (domain.Cadence, error) {
	return pl.cfg.Cadence.Cadence(goal)
}

// Build selects and orders tracks for goal. tracks is copied into a private
// pool; the caller's slice is left untouched. Phases that cannot be filled
// are reported in the result, not returned as errors.
func (pl *Planner) Build(goal domain.GoalSpec, tracks []domain.Track) (Result, error) {
	cadence, err := pl.Cadence(goal)
	if err != nil {
		return Result{}, err
	}
	phases, profile, fallback, err := pl.Schedule(goal)
	if err != nil {
		return Result{}, err
	}
	pool := NewPool(tracks)
	if pool.Len() == 0 {
		return Result{}, fmt.Errorf("%w: no tracks supplied", ErrEmptyPool)
	}

	fills := make([]phaseFill, len(phases))
	for i, phase := range phases {
		fills[i] = fillPhase(phase, cadence, pool, pl.cfg.Relaxation)
	}

	return assemble(fills, domain.BuildReport{
		Cadence:        cadence,
		Profile:        profile,
		FallbackUsed:   fallback,
		TargetDuration: goal.GoalTime,
	}), nil
}
