package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

func TestCadenceTable_Cadence(t *testing.T) {
	table := DefaultCadenceTable()
	tests := []struct {
		name    string
		goal    domain.GoalSpec
		wantSPM float64
	}{
		{name: "4h marathon", goal: domain.GoalSpec{DistanceMeters: 42195, GoalTime: 4 * time.Hour}, wantSPM: 178},
		{name: "elite pace clamps high", goal: domain.GoalSpec{DistanceMeters: 42195, GoalTime: 2*time.Hour + 10*time.Minute}, wantSPM: 180},
		{name: "walk pace clamps low", goal: domain.GoalSpec{DistanceMeters: 10000, GoalTime: 2 * time.Hour}, wantSPM: 170},
		{name: "midpoint", goal: domain.GoalSpec{DistanceMeters: 10000, GoalTime: 65 * time.Minute}, wantSPM: 175},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Cadence(tt.goal)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.StepsPerMinute != tt.wantSPM {
				t.Fatalf("cadence: got %v, want %v", got.StepsPerMinute, tt.wantSPM)
			}
			if got.Primary.Min != tt.wantSPM-5 || got.Primary.Max != tt.wantSPM+5 {
				t.Fatalf("primary band: got %+v", got.Primary)
			}
			if got.Secondary.Min != tt.wantSPM/2-2.5 || got.Secondary.Max != tt.wantSPM/2+2.5 {
				t.Fatalf("secondary band: got %+v", got.Secondary)
			}
		})
	}
}

func TestCadenceTable_BandsNeverOverlap(t *testing.T) {
	table := DefaultCadenceTable()
	for minutes := 12; minutes <= 600; minutes += 7 {
		goal := domain.GoalSpec{DistanceMeters: 42195, GoalTime: time.Duration(minutes) * time.Minute}
		got, err := table.Cadence(goal)
		if err != nil {
			t.Fatalf("%dm: unexpected error: %v", minutes, err)
		}
		if got.StepsPerMinute < 170 || got.StepsPerMinute > 180 {
			t.Fatalf("%dm: cadence %v outside [170,180]", minutes, got.StepsPerMinute)
		}
		if got.Primary.Min != got.StepsPerMinute-5 || got.Primary.Max != got.StepsPerMinute+5 {
			t.Fatalf("%dm: primary band %+v", minutes, got.Primary)
		}
		if got.Secondary.Max >= got.Primary.Min {
			t.Fatalf("%dm: secondary %+v not below primary %+v", minutes, got.Secondary, got.Primary)
		}
	}
}

func TestCadenceTable_FasterPaceNeverLowersCadence(t *testing.T) {
	table := DefaultCadenceTable()
	prev := 0.0
	for minutes := 600; minutes >= 120; minutes -= 5 {
		got, err := table.Cadence(domain.GoalSpec{DistanceMeters: 42195, GoalTime: time.Duration(minutes) * time.Minute})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.StepsPerMinute < prev {
			t.Fatalf("%dm: cadence dropped from %v to %v", minutes, prev, got.StepsPerMinute)
		}
		prev = got.StepsPerMinute
	}
}

func TestCadenceTable_InvalidGoal(t *testing.T) {
	tests := []struct {
		name      string
		goal      domain.GoalSpec
		wantField string
	}{
		{name: "zero distance", goal: domain.GoalSpec{GoalTime: time.Hour}, wantField: "distance"},
		{name: "negative distance", goal: domain.GoalSpec{DistanceMeters: -1, GoalTime: time.Hour}, wantField: "distance"},
		{name: "zero goal", goal: domain.GoalSpec{DistanceMeters: 5000}, wantField: "goal time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DefaultCadenceTable().Cadence(tt.goal)
			if !errors.Is(err, ErrInvalidGoal) {
				t.Fatalf("expected ErrInvalidGoal, got %v", err)
			}
			var goalErr *InvalidGoalError
			if !errors.As(err, &goalErr) {
				t.Fatalf("expected *InvalidGoalError, got %T", err)
			}
			if goalErr.Field != tt.wantField {
				t.Fatalf("field: got %q, want %q", goalErr.Field, tt.wantField)
			}
		})
	}
}
