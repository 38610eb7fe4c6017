package planner

import "github.com/ewilliams-labs/stride/internal/core/domain"

// assemble concatenates phase fills in race order and folds their
// diagnostics into report.
func assemble(fills []phaseFill, report domain.BuildReport) Result {
	var entries []domain.Entry
	report.Phases = make([]domain.PhaseReport, 0, len(fills))
	report.Steps = []domain.RelaxStep{}
	for _, f := range fills {
		for _, t := range f.tracks {
			entries = append(entries, domain.Entry{Position: len(entries), Phase: f.report.Phase, Track: t})
			report.TotalDuration += t.Duration
		}
		report.Phases = append(report.Phases, f.report)
		report.Steps = append(report.Steps, f.steps...)
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return Result{Entries: entries, Report: report}
}
