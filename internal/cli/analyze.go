package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synheart/synheart-hrv/internal/hrv"
)

var (
	analyzeIn       string
	analyzeWindow   float64
	analyzeBaseline float64
	analyzeFlow     bool
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a recorded R-R interval session",
	Long: `Computes HRV metrics from a file of R-R intervals.

The input is either sample NDJSON as written by 'synheart-hrv record',
or plain text with one interval in milliseconds per line.

Examples:
  synheart-hrv analyze --in session.ndjson
  synheart-hrv analyze --in intervals.txt --window 300
  synheart-hrv analyze --in session.ndjson --flow --baseline 42`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeIn, "in", "", "Input file (required)")
	analyzeCmd.Flags().Float64Var(&analyzeWindow, "window", 0, "Window length in seconds (derived from intervals if omitted)")
	analyzeCmd.Flags().Float64Var(&analyzeBaseline, "baseline", 0, "Personal RMSSD baseline in ms")
	analyzeCmd.Flags().BoolVar(&analyzeFlow, "flow", false, "Include flow-state assessment")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output metrics as JSON")
	analyzeCmd.MarkFlagRequired("in")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	intervals, err := readIntervals(analyzeIn)
	if err != nil {
		return err
	}

	windowSeconds := analyzeWindow
	if windowSeconds == 0 {
		for _, rr := range intervals {
			windowSeconds += rr / 1000.0
		}
	}

	engine := hrv.NewEngine()
	metrics := engine.Calculate(intervals, windowSeconds)

	out := cmd.OutOrStdout()

	if analyzeJSON {
		payload := map[string]any{"metrics": metrics}
		if analyzeFlow {
			payload["flow"] = hrv.AssessFlow(metrics, analyzeBaseline)
		}
		if analyzeBaseline > 0 && metrics.IsValid {
			deviation, label := hrv.CompareToBaseline(metrics.RMSSD, analyzeBaseline)
			payload["baseline_deviation_pct"] = deviation
			payload["baseline_status"] = label
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	fmt.Fprintf(out, "HRV Analysis: %s\n\n", analyzeIn)
	printMetrics(out, metrics)

	if analyzeBaseline > 0 && metrics.IsValid {
		deviation, label := hrv.CompareToBaseline(metrics.RMSSD, analyzeBaseline)
		fmt.Fprintf(out, "\nBaseline:     %.1f ms (%+.1f%%, %s)\n", analyzeBaseline, deviation, label)
	}

	if analyzeFlow {
		printFlow(out, hrv.AssessFlow(metrics, analyzeBaseline))
	}

	return nil
}
