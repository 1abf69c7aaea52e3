package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rig/pkg/report"
	"rig/pkg/step"
	"rig/pkg/steps"
	"rig/pkg/system"
)

var (
	dryRun     bool
	strictExit bool
	onlySteps  []string
	skipSteps  []string
)

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Runs the provisioning sequence against this machine",
	Long: `The apply command executes every provisioning step in order. Each step
checks its own precondition and skips when the work is already done, so
re-running apply on a provisioned machine changes nothing. A failing
step is reported and the run continues with the next one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		username, err := currentUsername()
		if err != nil {
			return fmt.Errorf("determining current user: %w", err)
		}

		all := steps.All(cfg, system.AppFs, lookPath, username)
		selected, err := step.Filter(all, onlySteps, skipSteps)
		if err != nil {
			return err
		}

		if dryRun {
			fmt.Fprintln(cmd.OutOrStdout(), "Dry run enabled. The following operations would be performed:")
			for _, s := range selected {
				fmt.Fprintf(cmd.OutOrStdout(), "=> %s\n", s.Description())
				for _, detail := range s.ExecutionDetails() {
					fmt.Fprintf(cmd.OutOrStdout(), "   - %s\n", detail)
				}
			}
			return nil
		}

		runner := &step.Runner{Commands: cmdRunner, Logger: logger}
		results := runner.Run(cmd.Context(), selected)
		report.Render(cmd.OutOrStdout(), results)

		if strictExit && step.Failed(results) {
			return fmt.Errorf("one or more steps failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without executing anything")
	applyCmd.Flags().BoolVar(&strictExit, "strict", false, "Exit non-zero when any step fails")
	applyCmd.Flags().StringSliceVar(&onlySteps, "only", nil, "Run only the named steps")
	applyCmd.Flags().StringSliceVar(&skipSteps, "skip", nil, "Skip the named steps")
}
