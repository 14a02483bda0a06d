package hrv

import "time"

// ConfidenceLevel is a qualitative reliability label for a metrics record.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// RMSSDBand is a qualitative bucket for an RMSSD value.
type RMSSDBand string

const (
	RMSSDVeryLow   RMSSDBand = "very_low"
	RMSSDLow       RMSSDBand = "low"
	RMSSDNormal    RMSSDBand = "normal"
	RMSSDGood      RMSSDBand = "good"
	RMSSDExcellent RMSSDBand = "excellent"
)

// TimeDomain holds the time-domain HRV statistics for a cleaned
// R-R interval sequence.
type TimeDomain struct {
	RMSSD  float64 `json:"rmssd_ms"`
	SDNN   float64 `json:"sdnn_ms"`
	SDSD   float64 `json:"sdsd_ms"`
	PNN50  float64 `json:"pnn50_pct"`
	NN50   int     `json:"nn50"`
	MeanRR float64 `json:"mean_rr_ms"`
	MeanHR float64 `json:"mean_hr_bpm"`
}

// SpectralMetrics holds the frequency-domain band powers. A Metrics record
// carries either a fully populated SpectralMetrics or none at all; the ratio
// and normalized units are additionally guarded by their denominators.
type SpectralMetrics struct {
	VLFPower   float64 `json:"vlf_power_ms2"`
	LFPower    float64 `json:"lf_power_ms2"`
	HFPower    float64 `json:"hf_power_ms2"`
	TotalPower float64 `json:"total_power_ms2"`

	LFHFRatio float64 `json:"lf_hf_ratio"`
	HasRatio  bool    `json:"has_ratio"`

	LFNorm        float64 `json:"lf_nu"`
	HFNorm        float64 `json:"hf_nu"`
	HasNormalized bool    `json:"has_normalized"`
}

// Metrics is the engine's sole output record: one immutable snapshot of
// HRV state computed from a single window of R-R intervals. Created only
// by Engine.Calculate; callers must check IsValid before trusting the
// numeric fields.
type Metrics struct {
	TimeDomain

	// Spectral is nil when the window was too short or too sparse for
	// frequency-domain analysis ("not attempted"). All-zero band powers
	// with a non-nil Spectral mean the DFT ran on insufficient data.
	Spectral *SpectralMetrics `json:"spectral,omitempty"`

	SampleCount        int     `json:"sample_count"`
	ArtifactCount      int     `json:"artifact_count"`
	ArtifactPercentage float64 `json:"artifact_percentage"`
	WindowSeconds      float64 `json:"window_seconds"`
	IsValid            bool    `json:"is_valid"`

	Timestamp      time.Time       `json:"ts"`
	Confidence     ConfidenceLevel `json:"confidence"`
	Interpretation RMSSDBand       `json:"rmssd_interpretation"`
}

// DataPoint is a lightweight projection of one Metrics record for
// time-series display, produced by the rolling-window processor.
type DataPoint struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"ts"`
	RMSSD     float64   `json:"rmssd_ms"`
	MeanHR    float64   `json:"mean_hr_bpm"`
	IsValid   bool      `json:"is_valid"`
}

// FlowAssessment is a stateless evaluation of how favorable a metrics
// record (plus an optional personal baseline) is for sustained focus.
type FlowAssessment struct {
	Score          int    `json:"score"`
	Interpretation string `json:"interpretation"`
	Recommendation string `json:"recommendation"`
}
