package hrv

import "math"

// Physiological acceptance rules for raw R-R intervals. The bounds
// correspond to 200 bpm and 30 bpm; the delta and relative-change rules
// reject ectopic beats and sensor dropouts against the previous accepted
// sample.
const (
	MinIntervalMS     = 300.0
	MaxIntervalMS     = 2000.0
	MaxDeltaMS        = 300.0
	MaxRelativeChange = 0.20
)

// FilterArtifacts drops physiologically implausible intervals from a raw
// R-R sequence and returns the cleaned sequence plus the rejected count.
//
// The comparison reference only advances on acceptance, so a single
// outlier does not cascade-reject its neighbors. Input order matters:
// the caller must preserve chronological order. Rejected samples are
// dropped, never interpolated.
func FilterArtifacts(raw []float64) ([]float64, int) {
	cleaned := make([]float64, 0, len(raw))
	artifacts := 0

	for _, rr := range raw {
		if rr < MinIntervalMS || rr > MaxIntervalMS {
			artifacts++
			continue
		}

		if len(cleaned) > 0 {
			prev := cleaned[len(cleaned)-1]
			delta := math.Abs(rr - prev)
			if delta > MaxDeltaMS || delta/prev > MaxRelativeChange {
				artifacts++
				continue
			}
		}

		cleaned = append(cleaned, rr)
	}

	return cleaned, artifacts
}
