package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/zhice/internal/app"
	"github.com/josephgoksu/zhice/internal/plan"
	"github.com/josephgoksu/zhice/internal/ui"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <phase> <task>",
	Short: "Mark a task done, or undo it",
	Long: `Flip the completion of one task. Phases and tasks are numbered from 1,
as shown by 'zhice show'.

Example:
  zhice toggle 2 3   # third task of the second phase`,
	Args: cobra.ExactArgs(2),
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func parsePosition(name, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a number starting at 1, got %q", name, arg)
	}
	return n - 1, nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	phaseIndex, err := parsePosition("phase", args[0])
	if err != nil {
		return err
	}
	taskIndex, err := parsePosition("task", args[1])
	if err != nil {
		return err
	}

	planApp, closeStore, err := openPlanApp()
	if err != nil {
		return err
	}
	defer closeStore()

	p, err := planApp.Toggle(phaseIndex, taskIndex)
	if err != nil && !(app.IsPersistenceError(err) && p != nil) {
		return err
	}
	if err != nil {
		PrintError("Warning: progress could not be saved.", err)
	}

	out := cmd.OutOrStdout()
	t := p.Phases[phaseIndex].Tasks[taskIndex]
	if isJSON() {
		return printJSON(out, map[string]any{
			"task":     t,
			"progress": plan.ProgressPercentage(p),
			"plan":     p,
		})
	}

	fmt.Fprintf(out, "%s %d.%d %s\n", ui.TaskMarker(t.IsCompleted), phaseIndex+1, taskIndex+1, t.Title)
	fmt.Fprintf(out, "%s %d%% (%d/%d tasks)\n",
		ui.ProgressBar(plan.ProgressPercentage(p), 20), plan.ProgressPercentage(p), p.CompletedTasks, p.TotalTasks)
	if plan.IsDone(p) {
		fmt.Fprintln(out, ui.StyleSuccess.Render("Every task is done. Congratulations!"))
	}
	return nil
}
