package hrv

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Rolling-window defaults.
const (
	DefaultWindowSeconds       = 60.0
	DefaultOverlapSeconds      = 30.0
	DefaultMinSamplesPerWindow = 10
)

var (
	// ErrSeriesMismatch indicates the interval and timestamp slices have
	// different lengths.
	ErrSeriesMismatch = errors.New("hrv: interval and timestamp series must have equal length")

	// ErrInvalidWindow indicates a non-positive window step
	// (overlap >= window).
	ErrInvalidWindow = errors.New("hrv: window overlap must be smaller than window size")
)

// RollingConfig configures the rolling-window processor.
type RollingConfig struct {
	WindowSeconds  float64
	OverlapSeconds float64
	MinSamples     int
}

// DefaultRollingConfig returns the standard 60s window with 30s overlap.
func DefaultRollingConfig() RollingConfig {
	return RollingConfig{
		WindowSeconds:  DefaultWindowSeconds,
		OverlapSeconds: DefaultOverlapSeconds,
		MinSamples:     DefaultMinSamplesPerWindow,
	}
}

// CalculateRolling slides a fixed-size, fixed-overlap window across an
// interval+timestamp history and computes one DataPoint per window that
// holds at least cfg.MinSamples intervals. Sparser windows are skipped
// silently. Mismatched series lengths and non-positive steps are
// programmer errors and fail fast; an empty history returns an empty
// series and no error.
//
// Both input slices are borrowed read-only and must be in chronological
// order; timestamps mark the end of each beat-to-beat interval.
func (e *Engine) CalculateRolling(intervals []float64, timestamps []time.Time, cfg RollingConfig) ([]DataPoint, error) {
	if len(intervals) != len(timestamps) {
		return nil, ErrSeriesMismatch
	}

	step := cfg.WindowSeconds - cfg.OverlapSeconds
	if step <= 0 {
		return nil, ErrInvalidWindow
	}

	if len(intervals) == 0 {
		return []DataPoint{}, nil
	}

	window := secondsToDuration(cfg.WindowSeconds)
	stepDur := secondsToDuration(step)
	last := timestamps[len(timestamps)-1]

	points := make([]DataPoint, 0)
	startIdx := 0

	for start := timestamps[0]; !start.Add(window).After(last); start = start.Add(stepDur) {
		end := start.Add(window)

		// The history is ordered, so each window begins at or after the
		// previous one; advance the low index instead of rescanning.
		for startIdx < len(timestamps) && timestamps[startIdx].Before(start) {
			startIdx++
		}

		windowIntervals := make([]float64, 0)
		for i := startIdx; i < len(timestamps) && timestamps[i].Before(end); i++ {
			windowIntervals = append(windowIntervals, intervals[i])
		}

		if len(windowIntervals) < cfg.MinSamples {
			continue
		}

		m := e.Calculate(windowIntervals, cfg.WindowSeconds)
		points = append(points, DataPoint{
			ID:        uuid.New().String(),
			Timestamp: start,
			RMSSD:     m.RMSSD,
			MeanHR:    m.MeanHR,
			IsValid:   m.IsValid,
		})
	}

	return points, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
