package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// categoryTolerance is how close (relative) a metric distance must be to a
// named category to be treated as that category.
const categoryTolerance = 0.005

// GoalSpec is a runner's race goal: how far and how fast.
type GoalSpec struct {
	DistanceMeters float64       `json:"distance_meters"`
	Category       string        `json:"category,omitempty"`
	GoalTime       time.Duration `json:"goal_time"`
}

// DefaultDistances returns the built-in named race distances in meters.
func DefaultDistances() map[string]float64 {
	return map[string]float64{
		"5k":       5000,
		"10k":      10000,
		"half":     21097.5,
		"marathon": 42195,
	}
}

// DistanceKm returns the goal distance in kilometers.
func (g GoalSpec) DistanceKm() float64 {
	return g.DistanceMeters / 1000
}

// Pace returns the goal pace per kilometer. Zero when the distance is unset.
func (g GoalSpec) Pace() time.Duration {
	if g.DistanceMeters <= 0 {
		return 0
	}
	return time.Duration(float64(g.GoalTime) / g.DistanceKm())
}

// NewGoalSpec parses a distance expression and pairs it with a goal time.
func NewGoalSpec(distance string, goal time.Duration, named map[string]float64) (GoalSpec, error) {
	meters, category, err := ParseDistance(distance, named)
	if err != nil {
		return GoalSpec{}, err
	}
	return GoalSpec{DistanceMeters: meters, Category: category, GoalTime: goal}, nil
}

// ParseDistance accepts a named category ("marathon", "10k"), a value with a
// unit ("42.195km", "42195m", "26.2mi") or bare meters ("5000"). The returned
// category is the named distance the value corresponds to, or empty.
func ParseDistance(input string, named map[string]float64) (float64, string, error) {
	if named == nil {
		named = DefaultDistances()
	}
	raw := strings.ToLower(strings.TrimSpace(input))
	if raw == "" {
		return 0, "", fmt.Errorf("%w: distance is required", ErrInvalidArgument)
	}
	if meters, ok := named[raw]; ok {
		return meters, raw, nil
	}

	multiplier := 1.0
	number := raw
	switch {
	case strings.HasSuffix(raw, "km"):
		multiplier, number = 1000, strings.TrimSuffix(raw, "km")
	case strings.HasSuffix(raw, "mi"):
		multiplier, number = 1609.344, strings.TrimSuffix(raw, "mi")
	case strings.HasSuffix(raw, "m"):
		number = strings.TrimSuffix(raw, "m")
	case strings.HasSuffix(raw, "k"):
		multiplier, number = 1000, strings.TrimSuffix(raw, "k")
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, "", fmt.Errorf("%w: unrecognized distance %q", ErrInvalidArgument, input)
	}
	meters := value * multiplier
	return meters, categoryFor(meters, named), nil
}

func categoryFor(meters float64, named map[string]float64) string {
	if meters <= 0 {
		return ""
	}
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ref := named[name]
		if ref > 0 && math.Abs(meters-ref)/ref <= categoryTolerance {
			return name
		}
	}
	return ""
}

// GoalTimeFormats lists the accepted goal time spellings for error and help
// text.
const GoalTimeFormats = `"h:mm:ss", "h:mm", "mm:ss", "3h45m" or minutes`

// Goal paces outside this band are not a race goal.
const (
	minPlausiblePace = 2 * time.Minute
	maxPlausiblePace = 20 * time.Minute
)

// ParseGoalTime accepts a Go duration ("3h45m"), a clock value ("3:45:00") or
// bare minutes ("225"). A two-part clock value is read as hours:minutes or
// minutes:seconds, whichever gives a plausible pace over distanceMeters, so
// "3:45" is a marathon time and "25:30" a 5k time. Without a distance it is
// read as hours:minutes.
func ParseGoalTime(input string, distanceMeters float64) (time.Duration, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return 0, fmt.Errorf("%w: goal time is required", ErrInvalidArgument)
	}
	unrecognized := fmt.Errorf("%w: unrecognized goal time %q, use %s", ErrInvalidArgument, input, GoalTimeFormats)
	if minutes, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(minutes * float64(time.Minute)), nil
	}
	if !strings.Contains(raw, ":") {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return 0, unrecognized
		}
		return d, nil
	}

	parts := strings.Split(raw, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, unrecognized
	}
	fields := make([]time.Duration, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, unrecognized
		}
		fields[i] = time.Duration(n)
	}
	if len(fields) == 3 {
		return fields[0]*time.Hour + fields[1]*time.Minute + fields[2]*time.Second, nil
	}

	hoursMinutes := fields[0]*time.Hour + fields[1]*time.Minute
	if distanceMeters <= 0 {
		return hoursMinutes, nil
	}
	minutesSeconds := fields[0]*time.Minute + fields[1]*time.Second
	for _, d := range []time.Duration{hoursMinutes, minutesSeconds} {
		if plausiblePace(d, distanceMeters) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: goal time %q is not a plausible time for %.3gkm, use %s",
		ErrInvalidArgument, input, distanceMeters/1000, GoalTimeFormats)
}

func plausiblePace(goal time.Duration, distanceMeters float64) bool {
	pace := time.Duration(float64(goal) / (distanceMeters / 1000))
	return pace >= minPlausiblePace && pace <= maxPlausiblePace
}
