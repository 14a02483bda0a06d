package hrv

// Confidence thresholds. The checks are not mutually exclusive; Classify
// evaluates them in priority order.
const (
	ConfidenceMaxArtifactRatio  = 0.05
	ConfidenceMinSamples        = 30
	ConfidenceShortWindowSec    = 30.0
	ConfidenceHighWindowSec     = 60.0
	ConfidenceHighArtifactRatio = 0.02
)

// ClassifyConfidence assigns a qualitative confidence level to a metrics
// record from its artifact ratio, cleaned sample count, and window duration.
func ClassifyConfidence(artifactPct float64, sampleCount int, windowSeconds float64) ConfidenceLevel {
	if artifactPct > ConfidenceMaxArtifactRatio || sampleCount < ConfidenceMinSamples {
		return ConfidenceLow
	}
	if windowSeconds < ConfidenceShortWindowSec {
		return ConfidenceMedium
	}
	if windowSeconds >= ConfidenceHighWindowSec && artifactPct < ConfidenceHighArtifactRatio {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}

// InterpretRMSSD buckets an RMSSD value (ms) into the five qualitative bands
// used across the product.
func InterpretRMSSD(rmssd float64) RMSSDBand {
	switch {
	case rmssd < 20:
		return RMSSDVeryLow
	case rmssd < 30:
		return RMSSDLow
	case rmssd < 50:
		return RMSSDNormal
	case rmssd < 100:
		return RMSSDGood
	default:
		return RMSSDExcellent
	}
}
