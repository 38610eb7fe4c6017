package planner

import "fmt"

// MarathonProfileName is the name of the built-in marathon phase table.
const MarathonProfileName = "marathon"

// PhaseDef is one row of a phase table: a named slice of race completion
// with a target energy range.
type PhaseDef struct {
	Name      string
	Start     float64
	End       float64
	EnergyMin float64
	EnergyMax float64
}

// Profile is an ordered phase table for a race distance.
type Profile struct {
	Name   string
	Phases []PhaseDef
}

// MarathonProfile returns the six-phase marathon arc.
func MarathonProfile() Profile {
	return Profile{
		Name: MarathonProfileName,
		Phases: []PhaseDef{
			{Name: "Warmup", Start: 0.00, End: 0.05, EnergyMin: 0.50, EnergyMax: 0.60},
			{Name: "Settle", Start: 0.05, End: 0.30, EnergyMin: 0.50, EnergyMax: 0.65},
			{Name: "Cruise", Start: 0.30, End: 0.55, EnergyMin: 0.60, EnergyMax: 0.70},
			{Name: "Grind", Start: 0.55, End: 0.75, EnergyMin: 0.70, EnergyMax: 0.80},
			{Name: "Wall", Start: 0.75, End: 0.90, EnergyMin: 0.85, EnergyMax: 1.00},
			{Name: "Glory", Start: 0.90, End: 1.00, EnergyMin: 0.90, EnergyMax: 1.00},
		},
	}
}

// Validate checks that the phases partition [0,1] exactly and that every
// energy range lies within [0,1].
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: profile name is required", ErrInvalidProfile)
	}
	if len(p.Phases) == 0 {
		return fmt.Errorf("%w: %s has no phases", ErrInvalidProfile, p.Name)
	}
	if p.Phases[0].Start != 0 {
		return fmt.Errorf("%w: %s must start at 0, starts at %v", ErrInvalidProfile, p.Name, p.Phases[0].Start)
	}
	if last := p.Phases[len(p.Phases)-1]; last.End != 1 {
		return fmt.Errorf("%w: %s must end at 1, ends at %v", ErrInvalidProfile, p.Name, last.End)
	}
	for i, ph := range p.Phases {
		if ph.Name == "" {
			return fmt.Errorf("%w: %s phase %d has no name", ErrInvalidProfile, p.Name, i)
		}
		if ph.Start >= ph.End {
			return fmt.Errorf("%w: %s/%s start %v is not before end %v", ErrInvalidProfile, p.Name, ph.Name, ph.Start, ph.End)
		}
		if ph.EnergyMin < 0 || ph.EnergyMin > ph.EnergyMax || ph.EnergyMax > 1 {
			return fmt.Errorf("%w: %s/%s energy range [%v, %v] is invalid", ErrInvalidProfile, p.Name, ph.Name, ph.EnergyMin, ph.EnergyMax)
		}
		if i > 0 && p.Phases[i-1].End != ph.Start {
			return fmt.Errorf("%w: %s/%s starts at %v but previous phase ends at %v", ErrInvalidProfile, p.Name, ph.Name, ph.Start, p.Phases[i-1].End)
		}
	}
	return nil
}

func (p Profile) clone() Profile {
	out := Profile{Name: p.Name, Phases: make([]PhaseDef, len(p.Phases))}
	copy(out.Phases, p.Phases)
	return out
}
