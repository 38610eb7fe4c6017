package planner

import (
	"math"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

// Range is an inclusive [Min, Max] interval on the 0..1 feature scale.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v, clamped to [0,1], lies in the range.
func (r Range) Contains(v float64) bool {
	v = clamp01(v)
	return v >= r.Min && v <= r.Max
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Widen grows the range by delta on each side, clamped to [0,1].
func (r Range) Widen(delta float64) Range {
	return Range{Min: clamp01(r.Min - delta), Max: clamp01(r.Max + delta)}
}

// Constraint is the active matching rule for one filter query.
type Constraint struct {
	Bands     []domain.Band
	Energy    Range
	UseTempo  bool
	UseEnergy bool
}

// Matches reports whether the track satisfies every enabled constraint.
func (c Constraint) Matches(t domain.Track) bool {
	if c.UseEnergy && !c.Energy.Contains(t.Features.Energy) {
		return false
	}
	if !c.UseTempo {
		return true
	}
	for _, b := range c.Bands {
		if b.Contains(t.Features.Tempo) {
			return true
		}
	}
	return false
}

// StrictConstraint builds the level-0 constraint for a phase.
func StrictConstraint(cadence domain.Cadence, energy Range) Constraint {
	return Constraint{
		Bands:     cadence.Bands(),
		Energy:    energy,
		UseTempo:  true,
		UseEnergy: true,
	}
}

// Relax derives the constraint for a relaxation level from the strict one.
// Levels are cumulative: each keeps the widening of the levels before it.
func Relax(base Constraint, level domain.RelaxLevel, cfg Relaxation) Constraint {
	out := Constraint{
		Bands:     append([]domain.Band(nil), base.Bands...),
		Energy:    base.Energy,
		UseTempo:  base.UseTempo,
		UseEnergy: base.UseEnergy,
	}
	if level >= domain.RelaxWidenTempo {
		for i, b := range out.Bands {
			out.Bands[i] = domain.Band{Min: b.Min - cfg.TempoWiden, Max: b.Max + cfg.TempoWiden}
		}
	}
	if level >= domain.RelaxWidenEnergy {
		out.Energy = out.Energy.Widen(cfg.EnergyWiden)
	}
	switch level {
	case domain.RelaxEnergyOnly:
		out.UseTempo = false
	case domain.RelaxTempoOnly:
		out.UseEnergy = false
	case domain.RelaxAny:
		out.UseTempo = false
		out.UseEnergy = false
	}
	return out
}

// Filter returns the pool's remaining tracks that satisfy c, in pool order.
// It does not remove anything from the pool.
func Filter(pool *Pool, c Constraint) []domain.Track {
	var out []domain.Track
	for _, t := range pool.Remaining() {
		if c.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
