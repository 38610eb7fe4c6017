package planner

import (
	"math"
	"sort"
	"time"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

type phaseFill struct {
	tracks []domain.Track
	report domain.PhaseReport
	steps  []domain.RelaxStep
}

// fillPhase claims tracks from pool until the phase's duration is covered.
// It starts at strict matching and climbs the relaxation ladder only once the
// current level has nothing left to offer. The last track may overshoot the
// target; if the pool runs dry first the phase is left short.
func fillPhase(phase Phase, cadence domain.Cadence, pool *Pool, relax Relaxation) phaseFill {
	base := StrictConstraint(cadence, phase.Energy)
	fill := phaseFill{report: domain.PhaseReport{
		Phase:     phase.Name,
		EnergyMin: phase.Energy.Min,
		EnergyMax: phase.Energy.Max,
		Target:    phase.Duration,
		Level:     domain.RelaxStrict,
	}}

	var filled time.Duration
	for level := domain.RelaxStrict; level <= domain.RelaxAny && filled < phase.Duration; level++ {
		if level > domain.RelaxStrict {
			fill.steps = append(fill.steps, domain.RelaxStep{Phase: phase.Name, Level: level})
			fill.report.Level = level
		}

		matches := Filter(pool, Relax(base, level, relax))
		rankCandidates(matches, phase.Energy.Mid())
		for _, t := range matches {
			if filled >= phase.Duration {
				break
			}
			pool.Remove(t.ID)
			fill.tracks = append(fill.tracks, t)
			filled += t.Duration
		}
	}

	fill.report.Filled = filled
	fill.report.TrackCount = len(fill.tracks)
	if filled < phase.Duration {
		fill.report.Underfill = phase.Duration - filled
	}
	return fill
}

// rankCandidates orders tracks for greedy selection: energy closest to the
// phase midpoint, then shorter first, then more danceable, then by ID.
func rankCandidates(tracks []domain.Track, mid float64) {
	sort.SliceStable(tracks, func(i, j int) bool {
		a, b := tracks[i], tracks[j]
		da, db := energyDistance(a, mid), energyDistance(b, mid)
		if da != db {
			return da < db
		}
		if a.Duration != b.Duration {
			return a.Duration < b.Duration
		}
		if a.Features.Danceability != b.Features.Danceability {
			return a.Features.Danceability > b.Features.Danceability
		}
		return a.ID < b.ID
	})
}

func energyDistance(t domain.Track, mid float64) float64 {
	d := math.Abs(clamp01(t.Features.Energy) - mid)
	if math.IsNaN(d) {
		return math.Inf(1)
	}
	return d
}
