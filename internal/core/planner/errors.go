package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGoal indicates a non-positive distance or goal time.
	ErrInvalidGoal = errors.New("planner: invalid goal")
	// ErrUnknownProfile indicates no phase table exists for the requested
	// distance and no fallback profile is configured.
	ErrUnknownProfile = errors.New("planner: unknown profile")
	// ErrEmptyPool indicates there are no candidate tracks to build from.
	ErrEmptyPool = errors.New("planner: empty candidate pool")
	// ErrInvalidProfile indicates a phase table that does not partition [0,1].
	ErrInvalidProfile = errors.New("planner: invalid profile")
	// ErrInvalidConfig indicates unusable cadence or relaxation settings.
	ErrInvalidConfig = errors.New("planner: invalid config")
)

// InvalidGoalError names the goal field that failed validation.
type InvalidGoalError struct {
	Field string
	Value float64
}

func (e InvalidGoalError) Error() string {
	return fmt.Sprintf("planner: invalid goal: %s must be positive, got %v", e.Field, e.Value)
}

func (e InvalidGoalError) Is(target error) bool {
	return target == ErrInvalidGoal
}

// UnknownProfileError names the profile that could not be resolved.
type UnknownProfileError struct {
	Profile        string
	DistanceMeters float64
}

func (e UnknownProfileError) Error() string {
	if e.Profile == "" {
		return fmt.Sprintf("planner: unknown profile: no phase table for %.0fm", e.DistanceMeters)
	}
	return fmt.Sprintf("planner: unknown profile %q", e.Profile)
}

func (e UnknownProfileError) Is(target error) bool {
	return target == ErrUnknownProfile
}
