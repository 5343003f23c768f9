package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/josephgoksu/zhice/internal/app"
	"github.com/josephgoksu/zhice/internal/config"
	"github.com/josephgoksu/zhice/internal/llm"
	"github.com/josephgoksu/zhice/internal/logger"
	"github.com/josephgoksu/zhice/internal/plan"
	"github.com/josephgoksu/zhice/internal/planner"
	"github.com/josephgoksu/zhice/internal/storage"
)

// Seams replaced in tests.
var (
	newCompleter           = llm.NewCompleter
	openStore              = storage.Open
	stdin        io.Reader = os.Stdin
)

func isJSON() bool {
	return viper.GetBool(config.KeyJSON)
}

func isVerbose() bool {
	return viper.GetBool(config.KeyVerbose)
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func confirmOrAbort(w io.Writer, prompt string) bool {
	if isJSON() {
		return true
	}
	fmt.Fprint(w, prompt)
	reader := bufio.NewReader(stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		fmt.Fprintln(w, "Cancelled.")
		return false
	}
	return true
}

// lazyGenerator builds the completer on first use so commands that never
// generate (show, toggle, reset) work without an API key.
type lazyGenerator struct {
	cfg llm.Config
	gen planner.GeneratorConfig
}

func (l *lazyGenerator) Generate(ctx context.Context, form plan.FormData) (*plan.GeneratedPlanResponse, error) {
	completer, err := newCompleter(ctx, l.cfg)
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}
	return planner.NewGenerator(completer, l.gen).Generate(ctx, form)
}

// openPlanApp wires configuration, storage and the generator into a loaded
// PlanApp. The returned close function flushes telemetry and releases the
// store.
func openPlanApp() (*app.PlanApp, func(), error) {
	appCfg, err := config.LoadAppConfig()
	if err != nil {
		return nil, nil, err
	}
	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		return nil, nil, err
	}

	store, err := openStore(appCfg.Backend(), appCfg.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open plan store at %s: %w", appCfg.StoragePath, err)
	}
	events := newTelemetryClient()
	closeFn := func() {
		if err := events.Close(); err != nil {
			LogError("flush telemetry", err)
		}
		if err := store.Close(); err != nil {
			LogError("close plan store", err)
		}
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "[DEBUG] Using %s store at %s\n", appCfg.StorageBackend, appCfg.StoragePath)
	}

	gen := &lazyGenerator{
		cfg: llmCfg,
		gen: planner.GeneratorConfig{Model: llmCfg.Model, Language: appCfg.Language},
	}
	planApp := app.NewPlanApp(gen, store,
		app.WithStorageKey(config.PlanStorageKey),
		app.WithEvents(events),
	)
	if err := planApp.Load(); err != nil {
		closeFn()
		return nil, nil, err
	}
	if p := planApp.Current(); p != nil {
		logger.SetPlan(p.ID, p.Goal)
	}
	return planApp, closeFn, nil
}
