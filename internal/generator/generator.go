package generator

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/synheart/synheart-hrv/internal/models"
	"github.com/synheart/synheart-hrv/internal/scenario"
)

// Generator produces synthetic R-R interval samples driven by a scenario.
// Beats advance a virtual clock by each generated interval, so a fixed
// seed yields a byte-identical session regardless of wall time pacing.
type Generator struct {
	seq      *scenario.Sequencer
	rng      *rand.Rand
	runID    string
	seed     int64
	source   models.Source
	sequence int64
	elapsed  time.Duration
	cursor   time.Time
}

// Config holds generator configuration.
type Config struct {
	Seed       int64
	SourceType string
	SourceID   string
	SourceSide *string
	Start      time.Time // beat-clock origin; zero means now
}

// NewGenerator creates a scenario-driven R-R generator.
func NewGenerator(seq *scenario.Sequencer, config Config) *Generator {
	rng := rand.New(rand.NewSource(config.Seed))

	side := config.SourceSide
	if side == nil && config.SourceType == "wearable" {
		left := "left"
		side = &left
	}

	start := config.Start
	if start.IsZero() {
		start = time.Now().UTC()
	}

	return &Generator{
		seq:   seq,
		rng:   rng,
		runID: uuid.New().String(),
		seed:  config.Seed,
		source: models.Source{
			Type: config.SourceType,
			ID:   config.SourceID,
			Side: side,
		},
		cursor: start,
	}
}

// NextBeat generates one beat and advances the virtual clock by the
// generated interval.
func (g *Generator) NextBeat() models.Sample {
	cfg := g.seq.Scenario().EffectiveConfig(g.elapsed)

	t := g.elapsed.Seconds()
	rr := cfg.MeanMS +
		cfg.VariabilityMS*math.Sin(2*math.Pi*cfg.RespirationHz*t) +
		g.rng.NormFloat64()*cfg.JitterMS

	quality := 0.9 + g.rng.Float64()*0.1

	if cfg.ArtifactRate > 0 && g.rng.Float64() < cfg.ArtifactRate {
		// Corrupt beat: a missed detection doubling the interval or a
		// false trigger cutting it short.
		if g.rng.Float64() < 0.5 {
			rr *= 2.5
		} else {
			rr *= 0.35
		}
		quality = 0.3 + g.rng.Float64()*0.3
	}

	g.sequence++
	g.elapsed += time.Duration(rr * float64(time.Millisecond))
	g.cursor = g.cursor.Add(time.Duration(rr * float64(time.Millisecond)))

	return models.Sample{
		SchemaVersion: models.SchemaVersion,
		EventID:       uuid.New().String(),
		Timestamp:     g.cursor.UTC().Format(time.RFC3339Nano),
		Source:        g.source,
		Session: models.Session{
			RunID:    g.runID,
			Scenario: g.seq.Scenario().Name,
			Seed:     g.seed,
		},
		IntervalMS: rr,
		Quality:    quality,
		Sequence:   g.sequence,
	}
}

// IsComplete reports whether the virtual clock has exhausted the
// scenario's duration.
func (g *Generator) IsComplete() bool {
	duration, unlimited := scenario.ParseDuration(g.seq.Scenario().Duration)
	if unlimited {
		return false
	}
	return g.elapsed >= duration
}

// Run emits beats in real time until the scenario completes or the
// context is cancelled. Each beat is delayed by its own interval, so the
// stream paces like a live sensor.
func (g *Generator) Run(ctx context.Context, output chan<- models.Sample) error {
	for !g.IsComplete() {
		sample := g.NextBeat()

		delay := time.Duration(sample.IntervalMS * float64(time.Millisecond))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		select {
		case output <- sample:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Session generates a full session as fast as possible, up to the
// scenario duration or maxBeats, whichever comes first.
func (g *Generator) Session(maxBeats int) []models.Sample {
	samples := make([]models.Sample, 0, maxBeats)
	for len(samples) < maxBeats && !g.IsComplete() {
		samples = append(samples, g.NextBeat())
	}
	return samples
}

// RunID returns the generator's session run ID.
func (g *Generator) RunID() string {
	return g.runID
}
