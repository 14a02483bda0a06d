package hrv

import "time"

// Engine validity thresholds.
const (
	// MinIntervalsForMetrics is the cleaned-sample floor below which a
	// window produces an invalid record instead of numbers.
	MinIntervalsForMetrics = 10

	// MaxArtifactRatio is the artifact share above which a record is
	// flagged invalid even though its numbers are still computed.
	MaxArtifactRatio = 0.05
)

// Engine computes HRV metrics records from raw R-R interval windows.
// It holds no state between calls; the only injectable piece is the clock
// used to stamp records, so tests can pin it.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock creates an engine with an explicit clock.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Calculate runs the full pipeline on one window of raw intervals:
// artifact filtering, time-domain statistics, conditional spectral
// analysis, and confidence classification.
//
// Insufficient data is a degraded result, never an error: fewer than
// MinIntervalsForMetrics cleaned samples yield a zeroed record with
// IsValid=false and ArtifactPercentage=1.0. The engine borrows the input
// slice read-only for the duration of the call and does not retain it.
func (e *Engine) Calculate(raw []float64, windowSeconds float64) Metrics {
	cleaned, artifacts := FilterArtifacts(raw)

	if len(cleaned) < MinIntervalsForMetrics {
		return e.invalidMetrics(artifacts, windowSeconds)
	}

	artifactPct := float64(artifacts) / float64(max(1, len(raw)))

	m := Metrics{
		TimeDomain:         ComputeTimeDomain(cleaned),
		SampleCount:        len(cleaned),
		ArtifactCount:      artifacts,
		ArtifactPercentage: artifactPct,
		WindowSeconds:      windowSeconds,
		IsValid:            artifactPct <= MaxArtifactRatio,
		Timestamp:          e.now(),
	}

	if windowSeconds >= SpectralMinWindowSeconds && len(cleaned) >= SpectralMinSamples {
		spectral := ComputeSpectral(cleaned)
		m.Spectral = &spectral
	}

	m.Confidence = ClassifyConfidence(artifactPct, len(cleaned), windowSeconds)
	m.Interpretation = InterpretRMSSD(m.RMSSD)

	return m
}

// invalidMetrics is the degraded record returned when a window has too few
// usable samples. All numeric fields are zero; the artifact count survives
// so callers can tell "empty window" from "everything rejected".
func (e *Engine) invalidMetrics(artifacts int, windowSeconds float64) Metrics {
	return Metrics{
		ArtifactCount:      artifacts,
		ArtifactPercentage: 1.0,
		WindowSeconds:      windowSeconds,
		IsValid:            false,
		Timestamp:          e.now(),
		Confidence:         ConfidenceLow,
		Interpretation:     RMSSDVeryLow,
	}
}

// EstimateRMSSDFromSDNN approximates RMSSD from an SDNN value using the
// fixed ratio RMSSD ≈ SDNN × 1.4. This exists solely for vendor platforms
// that expose SDNN but not beat-to-beat intervals; it is not a substitute
// for RMSSD computed from a true R-R series.
func EstimateRMSSDFromSDNN(sdnn float64) float64 {
	return sdnn * 1.4
}
