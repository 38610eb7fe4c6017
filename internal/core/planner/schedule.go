package planner

import (
	"time"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

// Schedule resolves the goal's profile and scales it to the goal time. The
// returned bool reports whether the fallback profile was used.
func (pl *Planner) Schedule(goal domain.GoalSpec) ([]Phase, string, bool, error) {
	if err := validateGoal(goal); err != nil {
		return nil, "", false, err
	}
	profile, ok := pl.profiles[goal.Category]
	fallback := false
	if !ok {
		if pl.cfg.FallbackProfile == "" {
			return nil, "", false, &UnknownProfileError{Profile: goal.Category, DistanceMeters: goal.DistanceMeters}
		}
		profile = pl.profiles[pl.cfg.FallbackProfile]
		fallback = true
	}
	return profile.Schedule(goal.GoalTime), profile.Name, fallback, nil
}

// Phase is a PhaseDef resolved against a total race duration.
type Phase struct {
	Index    int
	Name     string
	Start    float64
	End      float64
	Energy   Range
	Offset   time.Duration
	Duration time.Duration
}

// Schedule scales the profile to the given total. Phase bounds are computed
// as absolute offsets so the durations sum to total exactly.
func (p Profile) Schedule(total time.Duration) []Phase {
	phases := make([]Phase, len(p.Phases))
	for i, def := range p.Phases {
		start := scale(total, def.Start)
		end := scale(total, def.End)
		phases[i] = Phase{
			Index:    i,
			Name:     def.Name,
			Start:    def.Start,
			End:      def.End,
			Energy:   Range{Min: def.EnergyMin, Max: def.EnergyMax},
			Offset:   start,
			Duration: end - start,
		}
	}
	return phases
}

func scale(total time.Duration, frac float64) time.Duration {
	switch frac {
	case 0:
		return 0
	case 1:
		return total
	}
	return time.Duration(float64(total)*frac + 0.5)
}
