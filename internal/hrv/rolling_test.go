package hrv

import (
	"errors"
	"testing"
	"time"
)

// uniformHistory builds a synthetic R-R history at a fixed beat interval,
// one timestamp per beat, spanning the given total duration.
func uniformHistory(total, beat time.Duration) ([]float64, []time.Time) {
	base := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	n := int(total/beat) + 1

	intervals := make([]float64, n)
	timestamps := make([]time.Time, n)
	for i := 0; i < n; i++ {
		intervals[i] = float64(beat.Milliseconds())
		timestamps[i] = base.Add(time.Duration(i) * beat)
	}
	return intervals, timestamps
}

func TestCalculateRollingCoverage(t *testing.T) {
	engine := NewEngine()
	intervals, timestamps := uniformHistory(10*time.Minute, 800*time.Millisecond)

	points, err := engine.CalculateRolling(intervals, timestamps, DefaultRollingConfig())
	if err != nil {
		t.Fatalf("Failed to compute rolling HRV: %v", err)
	}

	// 600s of history, 60s windows advancing 30s: floor((600-60)/30)+1.
	if len(points) != 19 {
		t.Fatalf("Expected 19 data points, got %d", len(points))
	}

	for i, p := range points {
		if !p.IsValid {
			t.Errorf("Expected point %d to be valid", i)
		}
		if !approxEqual(p.MeanHR, 75.0, 1e-12) {
			t.Errorf("Expected point %d mean HR 75, got %v", i, p.MeanHR)
		}
		if p.RMSSD != 0 {
			t.Errorf("Expected point %d RMSSD 0 for uniform beats, got %v", i, p.RMSSD)
		}
		if p.ID == "" {
			t.Errorf("Expected point %d to carry an ID", i)
		}
	}

	// Windows advance by exactly the step.
	if got := points[1].Timestamp.Sub(points[0].Timestamp); got != 30*time.Second {
		t.Errorf("Expected 30s between window starts, got %v", got)
	}
}

func TestCalculateRollingMismatchedSeries(t *testing.T) {
	engine := NewEngine()

	_, err := engine.CalculateRolling([]float64{800, 810}, []time.Time{time.Now()}, DefaultRollingConfig())
	if !errors.Is(err, ErrSeriesMismatch) {
		t.Errorf("Expected ErrSeriesMismatch, got %v", err)
	}
}

func TestCalculateRollingInvalidOverlap(t *testing.T) {
	engine := NewEngine()
	intervals, timestamps := uniformHistory(2*time.Minute, 800*time.Millisecond)

	cfg := RollingConfig{WindowSeconds: 60, OverlapSeconds: 60, MinSamples: 10}
	_, err := engine.CalculateRolling(intervals, timestamps, cfg)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("Expected ErrInvalidWindow for zero step, got %v", err)
	}

	cfg.OverlapSeconds = 90
	_, err = engine.CalculateRolling(intervals, timestamps, cfg)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("Expected ErrInvalidWindow for negative step, got %v", err)
	}
}

func TestCalculateRollingEmptyHistory(t *testing.T) {
	engine := NewEngine()

	points, err := engine.CalculateRolling(nil, nil, DefaultRollingConfig())
	if err != nil {
		t.Fatalf("Expected no error for empty history, got %v", err)
	}
	if len(points) != 0 {
		t.Errorf("Expected empty series, got %d points", len(points))
	}
}

func TestCalculateRollingSkipsSparseWindows(t *testing.T) {
	engine := NewEngine()
	base := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	// Dense first minute, then a 2-minute gap, then a sparse tail with too
	// few beats per window to qualify.
	intervals := make([]float64, 0)
	timestamps := make([]time.Time, 0)
	for i := 0; i < 75; i++ {
		intervals = append(intervals, 800)
		timestamps = append(timestamps, base.Add(time.Duration(i)*800*time.Millisecond))
	}
	for i := 0; i < 5; i++ {
		intervals = append(intervals, 800)
		timestamps = append(timestamps, base.Add(3*time.Minute).Add(time.Duration(i)*10*time.Second))
	}

	points, err := engine.CalculateRolling(intervals, timestamps, DefaultRollingConfig())
	if err != nil {
		t.Fatalf("Failed to compute rolling HRV: %v", err)
	}

	for _, p := range points {
		if p.Timestamp.After(base.Add(90 * time.Second)) {
			t.Errorf("Expected sparse windows to be skipped, got point at %v", p.Timestamp)
		}
	}
	if len(points) == 0 {
		t.Error("Expected at least one point from the dense first minute")
	}
}
