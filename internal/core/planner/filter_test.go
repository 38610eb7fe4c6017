package planner

import (
	"testing"
	"time"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

func track(id string, tempo, energy float64, d time.Duration) domain.Track {
	return domain.Track{
		ID:       id,
		Title:    "Song " + id,
		Duration: d,
		Features: domain.AudioFeatures{Tempo: tempo, Energy: energy, Danceability: 0.5, Valence: 0.5},
	}
}

func testCadence() domain.Cadence {
	return domain.Cadence{
		StepsPerMinute: 178,
		Primary:        domain.Band{Min: 173, Max: 183},
		Secondary:      domain.Band{Min: 86.5, Max: 91.5},
	}
}

func TestPool_DedupesAndRemoves(t *testing.T) {
	input := []domain.Track{
		track("a", 175, 0.5, time.Minute),
		track("b", 175, 0.5, time.Minute),
		track("a", 100, 0.1, time.Minute),
	}
	pool := NewPool(input)
	if pool.Len() != 2 {
		t.Fatalf("len: got %d, want 2", pool.Len())
	}
	if got := pool.Remaining()[0].Features.Tempo; got != 175 {
		t.Fatalf("first occurrence should win, got tempo %v", got)
	}
	if !pool.Remove("a") {
		t.Fatalf("expected to remove a")
	}
	if pool.Remove("a") {
		t.Fatalf("a removed twice")
	}
	if pool.Remove("zzz") {
		t.Fatalf("removed unknown track")
	}
	if pool.Len() != 1 || pool.Remaining()[0].ID != "b" {
		t.Fatalf("remaining: %+v", pool.Remaining())
	}

	input[1].ID = "mutated"
	if pool.Remaining()[0].ID != "b" {
		t.Fatalf("pool shares storage with caller slice")
	}
}

func TestRelax_Levels(t *testing.T) {
	base := StrictConstraint(testCadence(), Range{Min: 0.5, Max: 0.6})
	relax := DefaultRelaxation()

	tests := []struct {
		level      domain.RelaxLevel
		wantTempo  bool
		wantEnergy bool
		wantBand   domain.Band
		wantRange  Range
	}{
		{domain.RelaxStrict, true, true, domain.Band{Min: 173, Max: 183}, Range{0.5, 0.6}},
		{domain.RelaxWidenTempo, true, true, domain.Band{Min: 170, Max: 186}, Range{0.5, 0.6}},
		{domain.RelaxWidenEnergy, true, true, domain.Band{Min: 170, Max: 186}, Range{0.4, 0.7}},
		{domain.RelaxEnergyOnly, false, true, domain.Band{Min: 170, Max: 186}, Range{0.4, 0.7}},
		{domain.RelaxTempoOnly, true, false, domain.Band{Min: 170, Max: 186}, Range{0.4, 0.7}},
		{domain.RelaxAny, false, false, domain.Band{Min: 170, Max: 186}, Range{0.4, 0.7}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			got := Relax(base, tt.level, relax)
			if got.UseTempo != tt.wantTempo || got.UseEnergy != tt.wantEnergy {
				t.Fatalf("flags: tempo=%v energy=%v", got.UseTempo, got.UseEnergy)
			}
			if got.Bands[0] != tt.wantBand {
				t.Fatalf("primary band: got %+v, want %+v", got.Bands[0], tt.wantBand)
			}
			if !rangeNear(got.Energy, tt.wantRange) {
				t.Fatalf("energy: got %+v, want %+v", got.Energy, tt.wantRange)
			}
		})
	}

	if base.Bands[0] != (domain.Band{Min: 173, Max: 183}) {
		t.Fatalf("Relax mutated the base constraint: %+v", base.Bands[0])
	}
}

func TestRange_WidenClamps(t *testing.T) {
	got := Range{Min: 0.05, Max: 0.95}.Widen(0.1)
	if got.Min != 0 || got.Max != 1 {
		t.Fatalf("got %+v, want [0,1]", got)
	}
}

func TestFilter_ReturnsMatchingSubset(t *testing.T) {
	pool := NewPool([]domain.Track{
		track("full", 178, 0.55, time.Minute),
		track("half", 89, 0.52, time.Minute),
		track("double", 356, 0.55, time.Minute),
		track("lowenergy", 178, 0.2, time.Minute),
		track("offtempo", 130, 0.55, time.Minute),
		track("clamped", 175, 1.4, time.Minute),
	})

	tests := []struct {
		name string
		c    Constraint
		want []string
	}{
		{
			name: "strict",
			c:    StrictConstraint(testCadence(), Range{Min: 0.5, Max: 0.6}),
			want: []string{"full", "half"},
		},
		{
			name: "clamps energy above one",
			c:    StrictConstraint(testCadence(), Range{Min: 0.9, Max: 1}),
			want: []string{"clamped"},
		},
		{
			name: "energy only",
			c:    Relax(StrictConstraint(testCadence(), Range{Min: 0.5, Max: 0.6}), domain.RelaxEnergyOnly, DefaultRelaxation()),
			want: []string{"full", "half", "double", "offtempo"},
		},
		{
			name: "any",
			c:    Relax(StrictConstraint(testCadence(), Range{Min: 0.5, Max: 0.6}), domain.RelaxAny, DefaultRelaxation()),
			want: []string{"full", "half", "double", "lowenergy", "offtempo", "clamped"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(pool, tt.c)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tracks %v, want %v", len(got), ids(got), tt.want)
			}
			for i, tr := range got {
				if tr.ID != tt.want[i] {
					t.Fatalf("position %d: got %s, want %s", i, tr.ID, tt.want[i])
				}
				if !tt.c.Matches(tr) {
					t.Fatalf("%s returned but does not match", tr.ID)
				}
			}
		})
	}

	if pool.Len() != 6 {
		t.Fatalf("Filter removed tracks from the pool")
	}
}

func ids(tracks []domain.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.ID
	}
	return out
}

func rangeNear(a, b Range) bool {
	const eps = 1e-9
	return a.Min-b.Min < eps && b.Min-a.Min < eps && a.Max-b.Max < eps && b.Max-a.Max < eps
}
