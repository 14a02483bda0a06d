package vendors

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/synheart/synheart-hrv/internal/hrv"
	"github.com/synheart/synheart-hrv/internal/models"
)

// WhoopExport is the shape of a Whoop data export file. Older exports
// carry beat-to-beat intervals; newer firmware only reports a per-window
// SDNN.
type WhoopExport struct {
	UserID  string        `json:"user_id"`
	Records []WhoopRecord `json:"records"`
}

// WhoopRecord is one recording window from a Whoop export.
type WhoopRecord struct {
	RecordedAt       string    `json:"recorded_at"`
	DurationSeconds  float64   `json:"duration_seconds"`
	RRIntervalsMilli []float64 `json:"rr_intervals_milli,omitempty"`
	SDNNMilli        *float64  `json:"sdnn_milli,omitempty"`
}

// ParseWhoopExport parses a Whoop export file.
func ParseWhoopExport(data []byte) (*WhoopExport, error) {
	var export WhoopExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse whoop export: %w", err)
	}
	if len(export.Records) == 0 {
		return nil, fmt.Errorf("whoop export contains no records")
	}
	return &export, nil
}

// ToUploads converts each export record into an upload. Records with
// neither intervals nor an SDNN are skipped.
func (e *WhoopExport) ToUploads(appVersion string) ([]models.Upload, error) {
	uploads := make([]models.Upload, 0, len(e.Records))

	for i, rec := range e.Records {
		if len(rec.RRIntervalsMilli) == 0 && rec.SDNNMilli == nil {
			continue
		}

		recordedAt, err := time.Parse(time.RFC3339, rec.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("record %d: invalid recorded_at: %w", i, err)
		}

		windowSeconds := rec.DurationSeconds
		if windowSeconds == 0 {
			for _, rr := range rec.RRIntervalsMilli {
				windowSeconds += rr / 1000.0
			}
		}

		from := recordedAt.Add(-time.Duration(windowSeconds * float64(time.Second)))

		uploads = append(uploads, models.Upload{
			Schema:       models.UploadSchema,
			UploadID:     uuid.New().String(),
			CreatedAtUTC: recordedAt.UTC().Format(time.RFC3339),
			Range: models.UploadRange{
				FromUTC: from.UTC().Format(time.RFC3339),
				ToUTC:   recordedAt.UTC().Format(time.RFC3339),
			},
			Device: models.UploadDevice{
				Platform:   "whoop",
				AppVersion: appVersion,
			},
			IntervalsMS:   rec.RRIntervalsMilli,
			WindowSeconds: windowSeconds,
			SDNNOnlyMS:    rec.SDNNMilli,
		})
	}

	if len(uploads) == 0 {
		return nil, fmt.Errorf("whoop export contains no usable records")
	}
	return uploads, nil
}

// EstimatedRMSSD reports the record's RMSSD in milliseconds. Interval
// records are analyzed directly; SDNN-only records get the fixed-ratio
// estimate.
func (r *WhoopRecord) EstimatedRMSSD(engine *hrv.Engine) (float64, bool) {
	if len(r.RRIntervalsMilli) > 0 {
		windowSeconds := r.DurationSeconds
		if windowSeconds == 0 {
			for _, rr := range r.RRIntervalsMilli {
				windowSeconds += rr / 1000.0
			}
		}
		m := engine.Calculate(r.RRIntervalsMilli, windowSeconds)
		if !m.IsValid {
			return 0, false
		}
		return m.RMSSD, true
	}

	if r.SDNNMilli != nil {
		return hrv.EstimateRMSSDFromSDNN(*r.SDNNMilli), true
	}

	return 0, false
}
