package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/zhice/internal/plan"
	"github.com/josephgoksu/zhice/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active plan",
	Long: `Print the active plan with its phases, tasks, tips and progress.

Formats:
  text   styled terminal output (default)
  json   the stored plan as JSON
  yaml   the stored plan as YAML`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringP("format", "f", "text", "output format: text, json or yaml")
}

func runShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(strings.TrimSpace(format))
	if isJSON() {
		format = plan.FormatJSON
	}
	if format != "text" && format != plan.FormatJSON && format != plan.FormatYAML {
		return fmt.Errorf("unsupported format %q (supported: text, json, yaml)", format)
	}

	planApp, closeStore, err := openPlanApp()
	if err != nil {
		return err
	}
	defer closeStore()

	out := cmd.OutOrStdout()
	p := planApp.Current()
	if format == "text" {
		fmt.Fprintln(out, ui.RenderPlan(p, ui.TerminalWidth(80)))
		return nil
	}
	if p == nil {
		if format == plan.FormatJSON {
			return printJSON(out, nil)
		}
		fmt.Fprintln(out, "null")
		return nil
	}
	data, err := plan.Export(p, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, strings.TrimRight(string(data), "\n"))
	return nil
}
