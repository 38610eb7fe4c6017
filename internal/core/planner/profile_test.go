package planner

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestDefaultConfig_Validates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestProfiles_PartitionUnitInterval(t *testing.T) {
	for _, p := range DefaultConfig().Profiles {
		t.Run(p.Name, func(t *testing.T) {
			var width float64
			for i, ph := range p.Phases {
				width += ph.End - ph.Start
				if i+1 < len(p.Phases) && ph.End != p.Phases[i+1].Start {
					t.Fatalf("%s ends at %v, %s starts at %v", ph.Name, ph.End, p.Phases[i+1].Name, p.Phases[i+1].Start)
				}
			}
			if math.Abs(width-1) > 1e-12 {
				t.Fatalf("phase widths sum to %v", width)
			}
			if p.Phases[0].Start != 0 || p.Phases[len(p.Phases)-1].End != 1 {
				t.Fatalf("profile does not span [0,1]")
			}
		})
	}
}

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name   string
		phases []PhaseDef
	}{
		{name: "empty", phases: nil},
		{name: "gap", phases: []PhaseDef{
			{Name: "a", Start: 0, End: 0.4, EnergyMin: 0.1, EnergyMax: 0.2},
			{Name: "b", Start: 0.5, End: 1, EnergyMin: 0.1, EnergyMax: 0.2},
		}},
		{name: "overlap", phases: []PhaseDef{
			{Name: "a", Start: 0, End: 0.6, EnergyMin: 0.1, EnergyMax: 0.2},
			{Name: "b", Start: 0.5, End: 1, EnergyMin: 0.1, EnergyMax: 0.2},
		}},
		{name: "short", phases: []PhaseDef{
			{Name: "a", Start: 0, End: 0.9, EnergyMin: 0.1, EnergyMax: 0.2},
		}},
		{name: "late start", phases: []PhaseDef{
			{Name: "a", Start: 0.1, End: 1, EnergyMin: 0.1, EnergyMax: 0.2},
		}},
		{name: "inverted energy", phases: []PhaseDef{
			{Name: "a", Start: 0, End: 1, EnergyMin: 0.8, EnergyMax: 0.2},
		}},
		{name: "energy above one", phases: []PhaseDef{
			{Name: "a", Start: 0, End: 1, EnergyMin: 0.8, EnergyMax: 1.2},
		}},
		{name: "empty phase", phases: []PhaseDef{
			{Name: "a", Start: 0, End: 0, EnergyMin: 0.1, EnergyMax: 0.2},
			{Name: "b", Start: 0, End: 1, EnergyMin: 0.1, EnergyMax: 0.2},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Profile{Name: "test", Phases: tt.phases}.Validate()
			if !errors.Is(err, ErrInvalidProfile) {
				t.Fatalf("expected ErrInvalidProfile, got %v", err)
			}
		})
	}
}

func TestConfig_ValidateRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{name: "missing fallback", mutate: func(c *Config) { c.FallbackProfile = "ultra" }, want: ErrInvalidConfig},
		{name: "duplicate profile", mutate: func(c *Config) { c.Profiles = append(c.Profiles, MarathonProfile()) }, want: ErrInvalidProfile},
		{name: "no profiles", mutate: func(c *Config) { c.Profiles = nil; c.FallbackProfile = "" }, want: ErrInvalidConfig},
		{name: "inverted paces", mutate: func(c *Config) { c.Cadence.FastPace = 9 * time.Minute }, want: ErrInvalidConfig},
		{name: "overlapping bands", mutate: func(c *Config) { c.Cadence.PrimaryHalfWidth = 80 }, want: ErrInvalidConfig},
		{name: "negative widen", mutate: func(c *Config) { c.Relaxation.EnergyWiden = -0.1 }, want: ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestProfile_ScheduleDurationsSumToTotal(t *testing.T) {
	totals := []time.Duration{
		4 * time.Hour,
		3*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond,
		17 * time.Minute,
		time.Nanosecond * 7,
	}
	profile := MarathonProfile()
	for _, total := range totals {
		t.Run(total.String(), func(t *testing.T) {
			phases := profile.Schedule(total)
			var sum time.Duration
			for i, ph := range phases {
				sum += ph.Duration
				if i > 0 && phases[i-1].Offset+phases[i-1].Duration != ph.Offset {
					t.Fatalf("phase %s does not start where %s ends", ph.Name, phases[i-1].Name)
				}
			}
			if sum != total {
				t.Fatalf("durations sum to %v, want %v", sum, total)
			}
		})
	}
}

func TestProfile_ScheduleMarathon(t *testing.T) {
	phases := MarathonProfile().Schedule(4 * time.Hour)
	want := []struct {
		name     string
		duration time.Duration
		energy   Range
	}{
		{"Warmup", 12 * time.Minute, Range{0.5, 0.6}},
		{"Settle", 60 * time.Minute, Range{0.5, 0.65}},
		{"Cruise", 60 * time.Minute, Range{0.6, 0.7}},
		{"Grind", 48 * time.Minute, Range{0.7, 0.8}},
		{"Wall", 36 * time.Minute, Range{0.85, 1}},
		{"Glory", 24 * time.Minute, Range{0.9, 1}},
	}
	if len(phases) != len(want) {
		t.Fatalf("phases: got %d, want %d", len(phases), len(want))
	}
	for i, w := range want {
		ph := phases[i]
		if ph.Name != w.name || ph.Index != i {
			t.Fatalf("phase %d: got %s/%d, want %s", i, ph.Name, ph.Index, w.name)
		}
		if diff := ph.Duration - w.duration; diff < -time.Microsecond || diff > time.Microsecond {
			t.Fatalf("%s duration: got %v, want %v", w.name, ph.Duration, w.duration)
		}
		if ph.Energy != w.energy {
			t.Fatalf("%s energy: got %+v, want %+v", w.name, ph.Energy, w.energy)
		}
	}
}
