package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/josephgoksu/zhice/internal/plan"
)

// IsInteractive checks if stdout is a terminal.
// Spinners and the TUI are skipped when output is piped.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the stdout width, or fallback when it is unknown.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// IntensityLabel returns the display label for an intensity, e.g. "Moderate".
func IntensityLabel(in plan.Intensity) string {
	return cases.Title(language.English).String(string(in))
}

// IntensityDescription is the one-line explanation shown next to each choice.
func IntensityDescription(in plan.Intensity) string {
	switch in {
	case plan.IntensityRelaxed:
		return "Gradual, low-pressure pacing"
	case plan.IntensityModerate:
		return "Balanced with daily life"
	case plan.IntensityIntense:
		return "Maximum effort, accelerated"
	default:
		return ""
	}
}

// wrap breaks s into lines no wider than width, on word boundaries.
func wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}
