package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfilesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List configured phase profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, cfg.Profiles)
			}

			out := cmd.OutOrStdout()
			for i, p := range cfg.Profiles {
				if i > 0 {
					fmt.Fprintln(out)
				}
				title := p.Name
				if p.Name == cfg.Planner.FallbackProfile {
					title += " (fallback)"
				}
				fmt.Fprintln(out, title)

				rows := make([][]string, len(p.Phases))
				for j, ph := range p.Phases {
					rows[j] = []string{
						ph.Name,
						fmt.Sprintf("%.0f%%", ph.Start*100),
						fmt.Sprintf("%.0f%%", ph.End*100),
						fmt.Sprintf("%.2f-%.2f", ph.EnergyMin, ph.EnergyMax),
					}
				}
				fmt.Fprintln(out, renderTable(out, []string{"Phase", "Start", "End", "Energy"}, rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight}))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
