package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/zhice/internal/ui"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the active plan and its progress",
	Long: `Delete the active plan and all recorded progress. This cannot be undone.

Use --yes to skip the confirmation prompt.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolP("yes", "y", false, "skip confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	planApp, closeStore, err := openPlanApp()
	if err != nil {
		return err
	}
	defer closeStore()

	out := cmd.OutOrStdout()
	if planApp.Current() == nil {
		if isJSON() {
			return printJSON(out, map[string]any{"deleted": false})
		}
		fmt.Fprintln(out, "No active plan.")
		return nil
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !confirmOrAbort(out, "Delete the active plan and all progress? [y/N]: ") {
		return nil
	}

	if err := planApp.Reset(); err != nil {
		return err
	}
	if isJSON() {
		return printJSON(out, map[string]any{"deleted": true})
	}
	fmt.Fprintln(out, ui.Icon("✓", ui.StyleSuccess)+" Plan deleted.")
	return nil
}
