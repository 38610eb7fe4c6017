package planner

import (
	"fmt"
	"time"
)

// CadenceTable maps running pace to a target cadence. Paces at or faster
// than FastPace get MaxSPM, paces at or slower than SlowPace get MinSPM, and
// anything between is interpolated linearly.
type CadenceTable struct {
	MinSPM             float64
	MaxSPM             float64
	FastPace           time.Duration // per km
	SlowPace           time.Duration // per km
	PrimaryHalfWidth   float64
	SecondaryHalfWidth float64
}

// Relaxation holds the step sizes of the relaxation ladder.
type Relaxation struct {
	TempoWiden  float64 // BPM added to each side of every band
	EnergyWiden float64 // added to each side of the energy range
}

// Config is the full set of tunables for a Planner. A Planner copies it on
// construction; mutating a Config afterwards has no effect on the Planner.
type Config struct {
	Cadence    CadenceTable
	Relaxation Relaxation
	Profiles   []Profile
	// FallbackProfile is used, scaled to the goal time, when the goal's
	// distance has no profile of its own. Empty rejects such goals.
	FallbackProfile string
}

// DefaultCadenceTable returns the built-in pace-to-cadence mapping.
func DefaultCadenceTable() CadenceTable {
	return CadenceTable{
		MinSPM:             170,
		MaxSPM:             180,
		FastPace:           5 * time.Minute,
		SlowPace:           8 * time.Minute,
		PrimaryHalfWidth:   5,
		SecondaryHalfWidth: 2.5,
	}
}

// DefaultRelaxation returns the built-in relaxation step sizes.
func DefaultRelaxation() Relaxation {
	return Relaxation{TempoWiden: 3, EnergyWiden: 0.1}
}

// DefaultConfig returns the marathon-only configuration with fallback enabled.
func DefaultConfig() Config {
	return Config{
		Cadence:         DefaultCadenceTable(),
		Relaxation:      DefaultRelaxation(),
		Profiles:        []Profile{MarathonProfile()},
		FallbackProfile: MarathonProfileName,
	}
}

// Validate checks every profile and the cadence and relaxation settings.
func (c Config) Validate() error {
	if err := c.Cadence.validate(c.Relaxation); err != nil {
		return err
	}
	if c.Relaxation.TempoWiden < 0 || c.Relaxation.EnergyWiden < 0 {
		return fmt.Errorf("%w: relaxation steps must not be negative", ErrInvalidConfig)
	}
	if len(c.Profiles) == 0 {
		return fmt.Errorf("%w: at least one profile is required", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Profiles))
	for _, p := range c.Profiles {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate profile %q", ErrInvalidProfile, p.Name)
		}
		seen[p.Name] = true
	}
	if c.FallbackProfile != "" && !seen[c.FallbackProfile] {
		return fmt.Errorf("%w: fallback profile %q is not defined", ErrInvalidConfig, c.FallbackProfile)
	}
	return nil
}

func (t CadenceTable) validate(r Relaxation) error {
	switch {
	case t.MinSPM <= 0 || t.MaxSPM < t.MinSPM:
		return fmt.Errorf("%w: cadence range [%v, %v] is invalid", ErrInvalidConfig, t.MinSPM, t.MaxSPM)
	case t.FastPace <= 0 || t.SlowPace <= t.FastPace:
		return fmt.Errorf("%w: fast pace must be positive and faster than slow pace", ErrInvalidConfig)
	case t.PrimaryHalfWidth <= 0 || t.SecondaryHalfWidth <= 0:
		return fmt.Errorf("%w: tempo band widths must be positive", ErrInvalidConfig)
	}
	// The half-cadence band must stay below the full-cadence band even after
	// both are widened, at the slowest cadence the table can produce.
	margin := t.PrimaryHalfWidth + t.SecondaryHalfWidth + 2*r.TempoWiden
	if t.MinSPM/2 <= margin {
		return fmt.Errorf("%w: tempo bands overlap at %v spm", ErrInvalidConfig, t.MinSPM)
	}
	return nil
}

func (c Config) clone() Config {
	out := c
	out.Profiles = make([]Profile, len(c.Profiles))
	for i, p := range c.Profiles {
		out.Profiles[i] = p.clone()
	}
	return out
}
