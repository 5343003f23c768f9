package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/josephgoksu/zhice/internal/app"
	"github.com/josephgoksu/zhice/internal/config"
	"github.com/josephgoksu/zhice/internal/llm"
	"github.com/josephgoksu/zhice/internal/plan"
	"github.com/josephgoksu/zhice/internal/planner"
)

// PrintError prints an error message without exiting, allowing for recovery.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool(config.KeyVerbose) && technicalErr != nil {
		// In verbose mode, print the detailed, underlying technical error.
		fmt.Fprintf(os.Stderr, "Error: %v\n", technicalErr)
	} else {
		fmt.Fprintln(os.Stderr, userMsg)
	}
}

// userMessage maps known errors to a message a person can act on.
func userMessage(err error) string {
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return "No API key found. Set API_KEY (or GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY) or llm.apiKey in .zhice.yaml."
	case errors.Is(err, plan.ErrIndexOutOfRange):
		return "That task does not exist. Run 'zhice show' to see the numbering."
	case errors.Is(err, app.ErrNoActivePlan):
		return "No active plan. Create one with 'zhice new'."
	case errors.Is(err, app.ErrSuperseded):
		return "The plan was changed by another zhice session. Run 'zhice show' and try again."
	case errors.Is(err, planner.ErrInvalidForm):
		return "Goal and duration are required; intensity must be relaxed, moderate or intense."
	case planner.KindOf(err) == planner.KindServiceFailure:
		return "The plan service could not be reached. Check your network and API key, then try again."
	case planner.KindOf(err) == planner.KindEmptyResponse:
		return "The plan service returned an empty answer. Try again."
	case planner.KindOf(err) == planner.KindMalformedResponse:
		return "The plan service returned a plan that could not be read. Try again."
	default:
		return err.Error()
	}
}

// LogError logs an error to stderr only in verbose mode.
func LogError(msg string, err error) {
	if !viper.GetBool(config.KeyVerbose) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DEBUG] %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "[DEBUG] %s\n", msg)
	}
}
