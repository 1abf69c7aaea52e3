package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rig/pkg/diff"
	"rig/pkg/system"
)

var diffAll bool

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Shows how existing dotfiles differ from the repository versions",
	Long: `The diff command compares every configured link target in the home
directory against its counterpart in the dotfiles tree. Files that
would be backed up by apply are shown with a content diff.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		results, err := diff.Dotfiles(system.AppFs, cfg.Home, cfg.DotfilesRoot, cfg.LinkTargets)
		if err != nil {
			return err
		}

		modified := 0
		for _, res := range results {
			if res.State == diff.StateModified {
				modified++
				fmt.Fprintf(cmd.OutOrStdout(), "=> %s differs from %s\n", res.Target, res.Source)
				fmt.Fprintln(cmd.OutOrStdout(), res.Pretty)
				continue
			}
			if diffAll {
				fmt.Fprintf(cmd.OutOrStdout(), "=> %s: %s\n", res.Target, res.State)
			}
		}
		if modified == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No conflicting dotfiles found.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().BoolVar(&diffAll, "all", false, "Also list linked, identical and absent targets")
}
