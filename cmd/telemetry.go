package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/zhice/internal/config"
	"github.com/josephgoksu/zhice/internal/telemetry"
)

// telemetryAPIKey is the PostHog project key, set at build time with
// -ldflags "-X github.com/josephgoksu/zhice/cmd.telemetryAPIKey=...".
var telemetryAPIKey = ""

var telemetryCmd = &cobra.Command{
	Use:   "telemetry [enable|disable|status]",
	Short: "Manage anonymous usage telemetry",
	Long: `Telemetry is off until you enable it.

When enabled, zhice sends anonymous events such as "plan created with 4
phases" or "task toggled". It never sends your goal, task text or API keys.
DO_NOT_TRACK=1 turns it off regardless of this setting.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"enable", "disable", "status"},
	RunE:      runTelemetry,
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
}

func telemetryStore() (*telemetry.Store, error) {
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return nil, err
	}
	return telemetry.NewStore(afero.NewOsFs(), dir), nil
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	store, err := telemetryStore()
	if err != nil {
		return err
	}
	cfg, err := store.Load()
	if err != nil {
		return err
	}

	action := "status"
	if len(args) == 1 {
		action = args[0]
	}
	out := cmd.OutOrStdout()
	switch action {
	case "enable", "disable":
		cfg.Enabled = action == "enable"
		if err := store.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "Telemetry %sd.\n", action)
	case "status":
		state := "disabled"
		if cfg.IsEnabled() {
			state = "enabled"
		}
		if isJSON() {
			return printJSON(out, map[string]any{"enabled": cfg.IsEnabled(), "path": store.Path()})
		}
		fmt.Fprintf(out, "Telemetry is %s (%s)\n", state, store.Path())
	default:
		return fmt.Errorf("unknown action %q (use enable, disable or status)", action)
	}
	return nil
}

// newTelemetryClient returns the client for this run. Any problem yields a
// no-op client; telemetry never fails a command.
func newTelemetryClient() telemetry.Client {
	apiKey := viper.GetString(config.KeyTelemetryAPIKey)
	if apiKey == "" {
		apiKey = telemetryAPIKey
	}
	if apiKey == "" {
		return telemetry.NoopClient{}
	}

	store, err := telemetryStore()
	if err != nil {
		return telemetry.NoopClient{}
	}
	cfg, err := store.Load()
	if err != nil || !cfg.IsEnabled() {
		return telemetry.NoopClient{}
	}

	client, err := telemetry.NewPostHogClient(telemetry.ClientConfig{
		APIKey:   apiKey,
		Version:  version,
		Config:   cfg,
		Endpoint: viper.GetString(config.KeyTelemetryEndpoint),
	})
	if err != nil {
		if isVerbose() {
			fmt.Fprintf(os.Stderr, "[DEBUG] telemetry disabled: %v\n", err)
		}
		return telemetry.NoopClient{}
	}
	return client
}
