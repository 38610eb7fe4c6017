package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestParseDistance(t *testing.T) {
	tests := []struct {
		input        string
		wantMeters   float64
		wantCategory string
		wantErr      bool
	}{
		{input: "marathon", wantMeters: 42195, wantCategory: "marathon"},
		{input: " 10K ", wantMeters: 10000, wantCategory: "10k"},
		{input: "42.195km", wantMeters: 42195, wantCategory: "marathon"},
		{input: "42195m", wantMeters: 42195, wantCategory: "marathon"},
		{input: "21.1km", wantMeters: 21100, wantCategory: "half"},
		{input: "5000", wantMeters: 5000, wantCategory: "5k"},
		{input: "15k", wantMeters: 15000, wantCategory: ""},
		{input: "26.2mi", wantMeters: 26.2 * 1609.344, wantCategory: "marathon"},
		{input: "", wantErr: true},
		{input: "far", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			meters, category, err := ParseDistance(tt.input, nil)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(meters-tt.wantMeters) > 1e-6 {
				t.Fatalf("meters: got %v, want %v", meters, tt.wantMeters)
			}
			if category != tt.wantCategory {
				t.Fatalf("category: got %q, want %q", category, tt.wantCategory)
			}
		})
	}
}

func TestParseGoalTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		distance float64
		want     time.Duration
		wantErr  bool
	}{
		{name: "minutes", input: "240", want: 4 * time.Hour},
		{name: "duration", input: "3h45m", want: 3*time.Hour + 45*time.Minute},
		{name: "hours minutes without distance", input: "3:45", want: 3*time.Hour + 45*time.Minute},
		{name: "marathon hours minutes", input: "3:45", distance: 42195, want: 3*time.Hour + 45*time.Minute},
		{name: "half hours minutes", input: "1:45", distance: 21097.5, want: time.Hour + 45*time.Minute},
		{name: "10k under an hour", input: "0:45", distance: 10000, want: 45 * time.Minute},
		{name: "5k minutes seconds", input: "25:30", distance: 5000, want: 25*time.Minute + 30*time.Second},
		{name: "10k minutes seconds", input: "49:59", distance: 10000, want: 49*time.Minute + 59*time.Second},
		{name: "clock", input: "3:45:30", distance: 5000, want: 3*time.Hour + 45*time.Minute + 30*time.Second},
		{name: "implausible for distance", input: "0:05", distance: 42195, wantErr: true},
		{name: "too many parts", input: "1:2:3:4", wantErr: true},
		{name: "words", input: "soon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGoalTime(tt.input, tt.distance)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGoalSpec_Pace(t *testing.T) {
	g := GoalSpec{DistanceMeters: 10000, GoalTime: 50 * time.Minute}
	if got := g.Pace(); got != 5*time.Minute {
		t.Fatalf("pace: got %v, want 5m", got)
	}
	if got := (GoalSpec{}).Pace(); got != 0 {
		t.Fatalf("zero distance pace: got %v", got)
	}
}
