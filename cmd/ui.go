package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/zhice/internal/config"
	"github.com/josephgoksu/zhice/internal/storage"
	"github.com/josephgoksu/zhice/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Browse the active plan interactively",
	Long: `Open an interactive view of the active plan.

Keys:
  ↑/↓ or j/k   move
  space        toggle a task, or collapse a phase
  ←/→ or h/l   collapse or expand a phase
  D            delete the plan (asks first)
  q            quit

Changes made elsewhere (another terminal or the MCP server) show up live.`,
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	if !ui.IsInteractive() {
		return errors.New("zhice ui needs an interactive terminal; use 'zhice show' instead")
	}

	planApp, closeStore, err := openPlanApp()
	if err != nil {
		return err
	}
	defer closeStore()

	model := ui.NewPlanModel(planApp)
	if appCfg, err := config.LoadAppConfig(); err == nil {
		files := storage.DataFiles(appCfg.Backend(), config.PlanStorageKey)
		watcher, err := storage.NewWatcher(appCfg.StoragePath, storage.DefaultDebounce, files...)
		if err != nil {
			LogError("watch plan store", err)
		} else {
			defer func() { _ = watcher.Close() }()
			model = model.WithExternalChanges(watcher.Changes(), planApp.Load)
		}
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run plan browser: %w", err)
	}
	return nil
}
