package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/zhice/internal/config"
	"github.com/josephgoksu/zhice/internal/llm"
	"github.com/josephgoksu/zhice/internal/logger"
	"github.com/josephgoksu/zhice/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check zhice setup and diagnose issues",
	Long: `Validate configuration, credentials and storage.

Checks:
  • configuration file and values
  • model provider and API key
  • plan storage
  • telemetry setting
  • recent crash logs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// DoctorCheck represents a single diagnostic check
type DoctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warn", "fail"
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func collectChecks() []DoctorCheck {
	var checks []DoctorCheck

	if used := viper.ConfigFileUsed(); used != "" {
		checks = append(checks, DoctorCheck{Name: "Config", Status: "ok", Message: used})
	} else {
		checks = append(checks, DoctorCheck{Name: "Config", Status: "ok", Message: "defaults and environment"})
	}

	appCfg, err := config.LoadAppConfig()
	if err != nil {
		checks = append(checks, DoctorCheck{Name: "Settings", Status: "fail", Message: err.Error(),
			Hint: "storage.backend must be file or sqlite"})
	}

	llmCfg, err := config.LoadLLMConfig()
	switch {
	case err != nil:
		checks = append(checks, DoctorCheck{Name: "Model", Status: "fail", Message: err.Error()})
	case llmCfg.APIKey == "" && llmCfg.Provider != llm.ProviderOllama:
		checks = append(checks, DoctorCheck{Name: "Model", Status: "fail",
			Message: fmt.Sprintf("%s/%s: no API key", llmCfg.Provider, llmCfg.Model),
			Hint:    "set API_KEY or the provider's key variable, or llm.apiKey in .zhice.yaml"})
	default:
		checks = append(checks, DoctorCheck{Name: "Model", Status: "ok",
			Message: fmt.Sprintf("%s/%s", llmCfg.Provider, llmCfg.Model)})
	}

	if appCfg.StorageBackend != "" {
		store, err := openStore(appCfg.Backend(), appCfg.StoragePath)
		if err != nil {
			checks = append(checks, DoctorCheck{Name: "Storage", Status: "fail", Message: err.Error()})
		} else {
			_, found, gerr := store.Get(config.PlanStorageKey)
			_ = store.Close()
			switch {
			case gerr != nil:
				checks = append(checks, DoctorCheck{Name: "Storage", Status: "fail", Message: gerr.Error()})
			case found:
				checks = append(checks, DoctorCheck{Name: "Storage", Status: "ok",
					Message: fmt.Sprintf("%s at %s (plan saved)", appCfg.StorageBackend, appCfg.StoragePath)})
			default:
				checks = append(checks, DoctorCheck{Name: "Storage", Status: "ok",
					Message: fmt.Sprintf("%s at %s (no plan yet)", appCfg.StorageBackend, appCfg.StoragePath)})
			}
		}
	}

	if store, err := telemetryStore(); err == nil {
		if tcfg, err := store.Load(); err == nil {
			state := "disabled"
			if tcfg.IsEnabled() {
				state = "enabled"
			}
			checks = append(checks, DoctorCheck{Name: "Telemetry", Status: "ok", Message: state})
		}
	}

	crashes, err := logger.ListCrashLogs()
	if err == nil && len(crashes) > 0 {
		latest := crashes[len(crashes)-1]
		msg := fmt.Sprintf("%d crash report(s), latest %s", len(crashes), latest)
		if rep, err := logger.ReadCrashLog(latest); err == nil {
			msg = fmt.Sprintf("%d crash report(s), latest in %q on %s: %s",
				len(crashes), rep.Command, rep.Timestamp.Format("2006-01-02"), rep.PanicValue)
		}
		checks = append(checks, DoctorCheck{Name: "Crashes", Status: "warn", Message: msg,
			Hint: "attach " + latest + " when reporting a bug"})
	}
	return checks
}

func runDoctor(out io.Writer) error {
	checks := collectChecks()
	failed := 0
	for _, c := range checks {
		if c.Status == "fail" {
			failed++
		}
	}

	if isJSON() {
		if err := printJSON(out, checks); err != nil {
			return err
		}
	} else {
		printChecks(out, checks)
	}
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func printChecks(out io.Writer, checks []DoctorCheck) {
	fmt.Fprintln(out, ui.StyleTitle.Render("zhice doctor"))
	fmt.Fprintln(out)
	for _, c := range checks {
		icon := ui.Icon("✓", ui.StyleSuccess)
		switch c.Status {
		case "warn":
			icon = ui.Icon("!", ui.StyleWarning)
		case "fail":
			icon = ui.Icon("✗", ui.StyleError)
		}
		fmt.Fprintf(out, "%s %-9s %s\n", icon, c.Name, c.Message)
		if c.Hint != "" {
			fmt.Fprintf(out, "            %s\n", ui.StyleSubtle.Render(c.Hint))
		}
	}
}
