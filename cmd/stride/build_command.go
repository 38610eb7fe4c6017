package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/stride/internal/core/domain"
	"github.com/ewilliams-labs/stride/internal/core/planner"
	"github.com/ewilliams-labs/stride/internal/core/services"
)

type buildOutput struct {
	Goal    domain.GoalSpec    `json:"goal"`
	Entries []domain.Entry     `json:"entries"`
	Report  domain.BuildReport `json:"report"`
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var tracksPath string
	var distance string
	var goal string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a race playlist from a track library file",
		Example: `  stride build --tracks library.json --distance marathon --goal 3h45m
  stride build --tracks - --distance 10k --goal 50 --json < library.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tracks, err := loadTracks(tracksPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			pl, err := planner.New(cfg.PlannerConfig())
			if err != nil {
				return err
			}
			svc := services.NewOrchestrator(services.Dependencies{
				Planner:   pl,
				Distances: cfg.Distances,
				Logger:    logger,
			})

			spec, err := svc.ResolveGoal(services.GenerateRequest{Distance: distance, GoalTime: goal})
			if err != nil {
				return err
			}
			res, err := svc.PreviewPlaylist(spec, tracks)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, buildOutput{Goal: spec, Entries: res.Entries, Report: res.Report})
			}
			renderBuild(cmd.OutOrStdout(), spec, res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tracksPath, "tracks", "t", "", "Track library JSON file (- for stdin)")
	cmd.Flags().StringVarP(&distance, "distance", "d", "", "Race distance (marathon, half, 10k, 5k, 42.195km, 26.2mi)")
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "Goal time as h:mm:ss, h:mm, mm:ss, 3h45m or minutes; h:mm vs mm:ss follows the distance")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("tracks")
	_ = cmd.MarkFlagRequired("distance")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func renderBuild(out io.Writer, goal domain.GoalSpec, res planner.Result) {
	r := res.Report
	profile := r.Profile
	if r.FallbackUsed {
		profile += " (fallback)"
	}
	fmt.Fprintf(out, "Goal:     %s in %s (%s/km)\n", distanceLabel(goal), formatClock(goal.GoalTime), formatClock(goal.Pace()))
	fmt.Fprintf(out, "Profile:  %s\n", profile)
	fmt.Fprintf(out, "Cadence:  %.1f spm, tempo %s or %s BPM\n", r.Cadence.StepsPerMinute, bandLabel(r.Cadence.Primary), bandLabel(r.Cadence.Secondary))
	fmt.Fprintf(out, "Duration: %s of %s\n\n", formatClock(r.TotalDuration), formatClock(r.TargetDuration))

	rows := make([][]string, len(res.Entries))
	for i, e := range res.Entries {
		rows[i] = []string{
			strconv.Itoa(e.Position + 1),
			e.Phase,
			e.Track.Title,
			e.Track.Artist,
			fmt.Sprintf("%.0f", e.Track.Features.Tempo),
			fmt.Sprintf("%.2f", e.Track.Features.Energy),
			formatClock(e.Track.Duration),
		}
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"#", "Phase", "Title", "Artist", "BPM", "Energy", "Length"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight}))

	phaseRows := make([][]string, len(r.Phases))
	for i, ph := range r.Phases {
		underfill := "-"
		if ph.Underfilled() {
			underfill = formatClock(ph.Underfill)
		}
		phaseRows[i] = []string{
			ph.Phase,
			fmt.Sprintf("%.2f-%.2f", ph.EnergyMin, ph.EnergyMax),
			formatClock(ph.Target),
			formatClock(ph.Filled),
			underfill,
			ph.Level.String(),
			strconv.Itoa(ph.TrackCount),
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(out,
		[]string{"Phase", "Energy", "Target", "Filled", "Short", "Match", "Tracks"}, phaseRows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft, alignRight}))

	if r.Underfilled() {
		fmt.Fprintln(out, "\nLibrary ran short: add more tracks near the target tempo to fill every phase.")
	}
}

func distanceLabel(goal domain.GoalSpec) string {
	if goal.Category != "" {
		return goal.Category
	}
	return strconv.FormatFloat(goal.DistanceKm(), 'f', -1, 64) + "km"
}

func bandLabel(b domain.Band) string {
	return fmt.Sprintf("%.1f-%.1f", b.Min, b.Max)
}

// formatClock renders a duration as h:mm:ss, or m:ss under an hour.
func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
