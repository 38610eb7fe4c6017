package domain

import "time"

// RelaxLevel is a rung on the relaxation ladder, from strict matching (0) to
// accepting any remaining track (5).
type RelaxLevel int

const (
	RelaxStrict RelaxLevel = iota
	RelaxWidenTempo
	RelaxWidenEnergy
	RelaxEnergyOnly
	RelaxTempoOnly
	RelaxAny
)

var relaxLevelNames = [...]string{
	"strict",
	"widen-tempo",
	"widen-energy",
	"energy-only",
	"tempo-only",
	"any",
}

func (l RelaxLevel) String() string {
	if l < RelaxStrict || l > RelaxAny {
		return "unknown"
	}
	return relaxLevelNames[l]
}

// Band is an inclusive BPM interval.
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether bpm lies within the band.
func (b Band) Contains(bpm float64) bool {
	return bpm >= b.Min && bpm <= b.Max
}

// Cadence is the target footstrike rate and the tempo bands that match it.
type Cadence struct {
	StepsPerMinute float64 `json:"steps_per_minute"`
	Primary        Band    `json:"primary"`
	Secondary      Band    `json:"secondary"`
}

// Bands returns the accepted tempo bands, primary first.
func (c Cadence) Bands() []Band {
	return []Band{c.Primary, c.Secondary}
}

// Entry is one position in a built playlist.
type Entry struct {
	Position int    `json:"position"`
	Phase    string `json:"phase"`
	Track    Track  `json:"track"`
}

// RelaxStep records that a phase escalated to a relaxation level.
type RelaxStep struct {
	Phase string     `json:"phase"`
	Level RelaxLevel `json:"level"`
}

// PhaseReport summarizes how one phase was filled.
type PhaseReport struct {
	Phase      string        `json:"phase"`
	EnergyMin  float64       `json:"energy_min"`
	EnergyMax  float64       `json:"energy_max"`
	Target     time.Duration `json:"target"`
	Filled     time.Duration `json:"filled"`
	Underfill  time.Duration `json:"underfill"`
	Level      RelaxLevel    `json:"level"`
	TrackCount int           `json:"track_count"`
}

// Underfilled reports whether the phase ran out of tracks before its target.
func (r PhaseReport) Underfilled() bool {
	return r.Underfill > 0
}

// BuildReport aggregates the per-phase diagnostics of a playlist build.
type BuildReport struct {
	Cadence        Cadence       `json:"cadence"`
	Profile        string        `json:"profile"`
	FallbackUsed   bool          `json:"fallback_used"`
	Phases         []PhaseReport `json:"phases"`
	Steps          []RelaxStep   `json:"steps"`
	TargetDuration time.Duration `json:"target_duration"`
	TotalDuration  time.Duration `json:"total_duration"`
}

// Underfilled reports whether any phase came up short.
func (r BuildReport) Underfilled() bool {
	for _, p := range r.Phases {
		if p.Underfilled() {
			return true
		}
	}
	return false
}
