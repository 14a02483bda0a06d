package models

import "time"

// UploadSchema is the schema identifier for R-R interval uploads.
const UploadSchema = "synheart.hrv.upload.v1"

// Upload is a batch of R-R intervals submitted for analysis, typically one
// recording window exported from a companion app.
type Upload struct {
	Schema        string       `json:"schema"`
	UploadID      string       `json:"upload_id"`
	CreatedAtUTC  string       `json:"created_at_utc"`
	Range         UploadRange  `json:"range"`
	Device        UploadDevice `json:"device"`
	IntervalsMS   []float64    `json:"intervals_ms"`
	WindowSeconds float64      `json:"window_seconds"`

	// SDNNOnlyMS carries a vendor-reported SDNN for platforms that never
	// expose beat-to-beat intervals. Optional; used for the fixed-ratio
	// RMSSD estimate, never mixed into interval analysis.
	SDNNOnlyMS *float64 `json:"sdnn_only_ms,omitempty"`
}

// UploadRange is the time range the intervals cover.
type UploadRange struct {
	FromUTC string `json:"from_utc"`
	ToUTC   string `json:"to_utc"`
}

// UploadDevice describes the submitting device.
type UploadDevice struct {
	Platform   string `json:"platform"`
	AppVersion string `json:"app_version"`
}

// ValidationError describes a schema violation in an upload.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the upload against schema v1.
func (u *Upload) Validate() error {
	if u.Schema != UploadSchema {
		return &ValidationError{Field: "schema", Message: "must be '" + UploadSchema + "'"}
	}
	if u.UploadID == "" {
		return &ValidationError{Field: "upload_id", Message: "is required"}
	}
	if u.CreatedAtUTC == "" {
		return &ValidationError{Field: "created_at_utc", Message: "is required"}
	}
	if _, err := time.Parse(time.RFC3339, u.CreatedAtUTC); err != nil {
		return &ValidationError{Field: "created_at_utc", Message: "must be valid RFC3339 timestamp"}
	}
	if u.Range.FromUTC == "" || u.Range.ToUTC == "" {
		return &ValidationError{Field: "range", Message: "from_utc and to_utc are required"}
	}
	if u.Device.Platform == "" {
		return &ValidationError{Field: "device.platform", Message: "is required"}
	}
	if len(u.IntervalsMS) == 0 && u.SDNNOnlyMS == nil {
		return &ValidationError{Field: "intervals_ms", Message: "is required unless sdnn_only_ms is provided"}
	}
	if u.WindowSeconds < 0 {
		return &ValidationError{Field: "window_seconds", Message: "must not be negative"}
	}
	return nil
}

// AnalysisReceipt summarizes one processed upload.
type AnalysisReceipt struct {
	UploadID      string `json:"upload_id"`
	ReceivedAt    string `json:"received_at"`
	Range         string `json:"range"`
	IntervalCount int    `json:"interval_count"`
	Platform      string `json:"platform"`
	Duplicate     bool   `json:"duplicate,omitempty"`
}

// NewAnalysisReceipt creates a receipt for an upload.
func NewAnalysisReceipt(upload *Upload, duplicate bool) AnalysisReceipt {
	return AnalysisReceipt{
		UploadID:      upload.UploadID,
		ReceivedAt:    time.Now().UTC().Format(time.RFC3339),
		Range:         upload.Range.FromUTC + " to " + upload.Range.ToUTC,
		IntervalCount: len(upload.IntervalsMS),
		Platform:      upload.Device.Platform,
		Duplicate:     duplicate,
	}
}
