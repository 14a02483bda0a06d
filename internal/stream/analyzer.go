package stream

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/synheart/synheart-hrv/internal/hrv"
	"github.com/synheart/synheart-hrv/internal/models"
)

// Analyzer turns a live R-R sample stream into a series of HRV data
// points. It keeps a bounded in-memory history and, at every window step,
// runs the metrics engine over the trailing window — the streaming twin
// of the batch rolling-window processor.
type Analyzer struct {
	engine *hrv.Engine
	cfg    hrv.RollingConfig

	intervals  []float64
	timestamps []time.Time
}

// NewAnalyzer creates a streaming analyzer. The config is validated the
// same way the batch processor validates it.
func NewAnalyzer(engine *hrv.Engine, cfg hrv.RollingConfig) (*Analyzer, error) {
	if cfg.WindowSeconds-cfg.OverlapSeconds <= 0 {
		return nil, hrv.ErrInvalidWindow
	}
	return &Analyzer{
		engine: engine,
		cfg:    cfg,
	}, nil
}

// Run consumes samples and emits one data point per window step whenever
// the trailing window holds enough beats. Samples with unparseable
// timestamps are counted and skipped. Run returns when ctx is cancelled
// or the sample channel closes; the output channel is closed on return.
func (a *Analyzer) Run(ctx context.Context, samples <-chan models.Sample, output chan<- hrv.DataPoint) error {
	defer close(output)

	step := time.Duration((a.cfg.WindowSeconds - a.cfg.OverlapSeconds) * float64(time.Second))
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case sample, ok := <-samples:
			if !ok {
				return nil
			}
			ts, err := sample.Time()
			if err != nil {
				log.Printf("Analyzer: skipping sample %s with bad timestamp: %v", sample.EventID, err)
				continue
			}
			a.observe(sample.IntervalMS, ts)

		case <-ticker.C:
			if point, ok := a.Snapshot(time.Now().UTC()); ok {
				select {
				case output <- point:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

// observe appends one beat and trims history older than the window.
func (a *Analyzer) observe(intervalMS float64, ts time.Time) {
	a.intervals = append(a.intervals, intervalMS)
	a.timestamps = append(a.timestamps, ts)

	horizon := ts.Add(-time.Duration(a.cfg.WindowSeconds * float64(time.Second)))
	cut := 0
	for cut < len(a.timestamps) && a.timestamps[cut].Before(horizon) {
		cut++
	}
	if cut > 0 {
		a.intervals = a.intervals[cut:]
		a.timestamps = a.timestamps[cut:]
	}
}

// Snapshot computes a data point over the trailing window ending at now.
// It reports false when the window holds too few beats to qualify.
func (a *Analyzer) Snapshot(now time.Time) (hrv.DataPoint, bool) {
	start := now.Add(-time.Duration(a.cfg.WindowSeconds * float64(time.Second)))

	window := make([]float64, 0, len(a.intervals))
	for i, ts := range a.timestamps {
		if !ts.Before(start) && ts.Before(now) {
			window = append(window, a.intervals[i])
		}
	}

	if len(window) < a.cfg.MinSamples {
		return hrv.DataPoint{}, false
	}

	m := a.engine.Calculate(window, a.cfg.WindowSeconds)

	return hrv.DataPoint{
		ID:        uuid.New().String(),
		Timestamp: start,
		RMSSD:     m.RMSSD,
		MeanHR:    m.MeanHR,
		IsValid:   m.IsValid,
	}, true
}

// BeatCount returns the number of beats currently held in history.
func (a *Analyzer) BeatCount() int {
	return len(a.intervals)
}
