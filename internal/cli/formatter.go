package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/synheart/synheart-hrv/internal/hrv"
)

func renderBar(score float64, width int) string {
	filled := int(score * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func printMetrics(out io.Writer, m hrv.Metrics) {
	fmt.Fprintf(out, "Samples:      %d accepted, %d rejected (%.1f%% artifacts)\n",
		m.SampleCount, m.ArtifactCount, m.ArtifactPercentage*100)
	fmt.Fprintf(out, "Window:       %.0fs\n", m.WindowSeconds)
	fmt.Fprintf(out, "Valid:        %v\n", m.IsValid)

	if !m.IsValid {
		return
	}

	fmt.Fprintf(out, "Confidence:   %s\n\n", m.Confidence)

	fmt.Fprintf(out, "RMSSD:        %.1f ms (%s)\n", m.RMSSD, m.Interpretation)
	fmt.Fprintf(out, "SDNN:         %.1f ms\n", m.SDNN)
	fmt.Fprintf(out, "SDSD:         %.1f ms\n", m.SDSD)
	fmt.Fprintf(out, "pNN50:        %.1f%% (%d beats)\n", m.PNN50, m.NN50)
	fmt.Fprintf(out, "Mean R-R:     %.1f ms\n", m.MeanRR)
	fmt.Fprintf(out, "Mean HR:      %.1f bpm\n", m.MeanHR)

	if m.Spectral != nil {
		s := m.Spectral
		fmt.Fprintf(out, "\nSpectral:\n")
		fmt.Fprintf(out, "  VLF:        %.1f ms²\n", s.VLFPower)
		fmt.Fprintf(out, "  LF:         %.1f ms²\n", s.LFPower)
		fmt.Fprintf(out, "  HF:         %.1f ms²\n", s.HFPower)
		fmt.Fprintf(out, "  Total:      %.1f ms²\n", s.TotalPower)
		if s.HasRatio {
			fmt.Fprintf(out, "  LF/HF:      %.2f\n", s.LFHFRatio)
		}
		if s.HasNormalized {
			fmt.Fprintf(out, "  LF norm:    %.1f nu\n", s.LFNorm)
			fmt.Fprintf(out, "  HF norm:    %.1f nu\n", s.HFNorm)
		}
	}
}

func printFlow(out io.Writer, f hrv.FlowAssessment) {
	fmt.Fprintf(out, "\nFlow readiness: %3d/100  %s\n", f.Score, renderBar(float64(f.Score)/100, 30))
	fmt.Fprintf(out, "  %s\n", f.Interpretation)
	fmt.Fprintf(out, "  %s\n", f.Recommendation)
}
