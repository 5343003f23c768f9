/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/zhice/internal/app"
	"github.com/josephgoksu/zhice/internal/plan"
	"github.com/josephgoksu/zhice/internal/planner"
	"github.com/josephgoksu/zhice/internal/ui"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a new plan for a goal",
	Long: `Ask the model for a phased plan that reaches your goal in the given time.

The new plan replaces the active one, including its progress. If generation
fails, the active plan is left untouched.

Examples:
  zhice new --goal "Run a half marathon" --duration "10 weeks"
  zhice new -g "Learn data analysis" -d "12 weeks" --context "I know Excel" --intensity intense`,
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringP("goal", "g", "", "what you want to achieve (required)")
	newCmd.Flags().StringP("duration", "d", "", "time available, e.g. \"12 weeks\" (required)")
	newCmd.Flags().String("context", "", "your current situation or background")
	newCmd.Flags().StringP("intensity", "i", string(plan.DefaultIntensity), "pacing: relaxed, moderate or intense")
	_ = newCmd.MarkFlagRequired("goal")
	_ = newCmd.MarkFlagRequired("duration")
}

func runNew(cmd *cobra.Command, args []string) error {
	goal, _ := cmd.Flags().GetString("goal")
	duration, _ := cmd.Flags().GetString("duration")
	background, _ := cmd.Flags().GetString("context")
	intensityFlag, _ := cmd.Flags().GetString("intensity")

	intensity, err := plan.ParseIntensity(intensityFlag)
	if err != nil {
		return fmt.Errorf("%w: %v", planner.ErrInvalidForm, err)
	}
	form, err := planner.ValidateForm(plan.FormData{
		Goal:      goal,
		Duration:  duration,
		Context:   background,
		Intensity: intensity,
	})
	if err != nil {
		return err
	}

	planApp, closeStore, err := openPlanApp()
	if err != nil {
		return err
	}
	defer closeStore()

	out := cmd.OutOrStdout()
	var spinner *ui.Spinner
	if !isJSON() && ui.IsInteractive() {
		spinner = ui.NewSpinnerTo(cmd.ErrOrStderr(), fmt.Sprintf("Building a %s plan...", ui.IntensityLabel(intensity)))
		spinner.Start()
	}
	p, err := planApp.Create(cmd.Context(), form)
	if spinner != nil {
		spinner.Stop()
	}

	if err != nil && !(app.IsPersistenceError(err) && p != nil) {
		return err
	}
	if err != nil {
		PrintError("Warning: the plan was created but could not be saved.", err)
	}

	if isJSON() {
		return printJSON(out, p)
	}
	fmt.Fprintln(out, ui.RenderPlan(p, ui.TerminalWidth(80)))
	return nil
}
