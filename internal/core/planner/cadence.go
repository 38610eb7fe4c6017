package planner

import (
	"math"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

// Cadence converts a goal into a target cadence and the tempo bands that
// match it: the primary band around the full cadence and the secondary band
// around half of it.
func (t CadenceTable) Cadence(goal domain.GoalSpec) (domain.Cadence, error) {
	if err := validateGoal(goal); err != nil {
		return domain.Cadence{}, err
	}

	pace := goal.GoalTime.Seconds() / goal.DistanceKm()
	fast := t.FastPace.Seconds()
	slow := t.SlowPace.Seconds()

	var spm float64
	switch {
	case pace <= fast:
		spm = t.MaxSPM
	case pace >= slow:
		spm = t.MinSPM
	default:
		frac := (pace - fast) / (slow - fast)
		spm = t.MaxSPM - frac*(t.MaxSPM-t.MinSPM)
	}
	spm = math.Round(spm)

	return domain.Cadence{
		StepsPerMinute: spm,
		Primary:        domain.Band{Min: spm - t.PrimaryHalfWidth, Max: spm + t.PrimaryHalfWidth},
		Secondary:      domain.Band{Min: spm/2 - t.SecondaryHalfWidth, Max: spm/2 + t.SecondaryHalfWidth},
	}, nil
}

func validateGoal(goal domain.GoalSpec) error {
	if !(goal.DistanceMeters > 0) {
		return &InvalidGoalError{Field: "distance", Value: goal.DistanceMeters}
	}
	if goal.GoalTime <= 0 {
		return &InvalidGoalError{Field: "goal time", Value: goal.GoalTime.Seconds()}
	}
	return nil
}
