package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/foresight-engine/internal/application/guardian"
	domain "github.com/bryanwahyu/foresight-engine/internal/domain/guardian"
)

// DisplayReview writes a guardian result in the requested format (human, json, yaml).
func DisplayReview(w io.Writer, res guardian.Result, format string) error {
	switch format {
	case "json":
		return displayJSON(w, res)
	case "yaml":
		return displayYAML(w, res)
	case "human", "":
		displayHuman(w, res)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (supported: human, json, yaml)", format)
	}
}

func displayJSON(w io.Writer, res guardian.Result) error {
	output, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func displayYAML(w io.Writer, res guardian.Result) error {
	output, err := yaml.Marshal(res)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(output))
	return err
}

func displayHuman(w io.Writer, res guardian.Result) {
	yellow := color.New(color.FgYellow, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	if len(res.Secrets) > 0 {
		yellow.Fprintln(w, "⚠️  CREDENTIALS FOUND:")
		for i, s := range res.Secrets {
			fmt.Fprintf(w, "   %d. %s (%s)\n", i+1, s.Title, s.File)
			fmt.Fprintf(w, "      Evidence: %s\n", color.YellowString(s.Excerpt))
		}
		fmt.Fprintln(w)
	}

	white.Fprintln(w, "--- Guardian Analysis Result ---")
	fmt.Fprintln(w, res.Verdict.Raw)
	white.Fprintln(w, "--------------------------------")
	fmt.Fprintln(w)

	verdictColor(res.Verdict.Decision).Fprintln(w, verdictLine(res.Verdict.Decision))
	if res.ArchiveURL != "" {
		fmt.Fprintf(w, "📦 Archived: %s\n", res.ArchiveURL)
	}
}

func verdictLine(d domain.Decision) string {
	switch d {
	case domain.DecisionPass:
		return "✅ Configuration approved. Proceeding with build."
	case domain.DecisionBlock:
		return "🚫 Build HALTED by Cloud Build Guardian."
	default:
		return "⚠️ Guardian returned an indeterminate response. Halting build for safety."
	}
}

func verdictColor(d domain.Decision) *color.Color {
	switch d {
	case domain.DecisionPass:
		return color.New(color.FgGreen, color.Bold)
	case domain.DecisionBlock:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgYellow, color.Bold)
	}
}
