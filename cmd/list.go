package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rig/pkg/steps"
	"rig/pkg/system"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the provisioning steps and whether they would run",
	Long: `The list command evaluates every step's precondition read-only and
prints whether a run would execute or skip it. Nothing is mutated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		username, err := currentUsername()
		if err != nil {
			return fmt.Errorf("determining current user: %w", err)
		}

		for _, s := range steps.All(cfg, system.AppFs, lookPath, username) {
			done, err := s.Check(cmd.Context(), cmdRunner)
			state := "would run"
			switch {
			case err != nil:
				state = fmt.Sprintf("check failed: %v", err)
			case done:
				state = "satisfied"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-12s %s\n", s.Name(), state, s.Description())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
