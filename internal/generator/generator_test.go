package generator

import (
	"testing"
	"time"

	"github.com/synheart/synheart-hrv/internal/scenario"
)

func testSequencer(duration string, artifactRate float64) *scenario.Sequencer {
	return scenario.NewSequencer(&scenario.Scenario{
		Name:     "test",
		Duration: duration,
		RR: &scenario.RRConfig{
			MeanMS:        800,
			VariabilityMS: 40,
			RespirationHz: 0.25,
			JitterMS:      5,
			ArtifactRate:  artifactRate,
		},
	})
}

func TestGeneratorDeterministicBySeed(t *testing.T) {
	cfg := Config{
		Seed:       42,
		SourceType: "wearable",
		SourceID:   "mock-strap-01",
		Start:      time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
	}

	a := NewGenerator(testSequencer("5m", 0.02), cfg).Session(100)
	b := NewGenerator(testSequencer("5m", 0.02), cfg).Session(100)

	if len(a) != 100 || len(b) != 100 {
		t.Fatalf("Expected 100 beats per session, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].IntervalMS != b[i].IntervalMS {
			t.Fatalf("Beat %d differs between identically seeded runs: %v vs %v", i, a[i].IntervalMS, b[i].IntervalMS)
		}
		if a[i].Timestamp != b[i].Timestamp {
			t.Fatalf("Timestamp %d differs between identically seeded runs", i)
		}
	}
}

func TestGeneratorBeatsLookPhysiological(t *testing.T) {
	gen := NewGenerator(testSequencer("10m", 0), Config{
		Seed:       7,
		SourceType: "wearable",
		SourceID:   "mock-strap-01",
	})

	samples := gen.Session(200)
	if len(samples) != 200 {
		t.Fatalf("Expected 200 beats, got %d", len(samples))
	}

	for i, s := range samples {
		if s.IntervalMS < 700 || s.IntervalMS > 900 {
			t.Errorf("Beat %d outside the expected envelope: %v ms", i, s.IntervalMS)
		}
		if s.Quality < 0.9 || s.Quality > 1.0 {
			t.Errorf("Beat %d quality outside [0.9,1.0]: %v", i, s.Quality)
		}
		if s.SchemaVersion != "hrv.rr.v1" {
			t.Errorf("Beat %d has wrong schema version: %s", i, s.SchemaVersion)
		}
	}

	// Sequence numbers are strictly increasing from 1.
	for i, s := range samples {
		if s.Sequence != int64(i+1) {
			t.Errorf("Expected sequence %d, got %d", i+1, s.Sequence)
			break
		}
	}
}

func TestGeneratorTimestampsAdvanceByInterval(t *testing.T) {
	start := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	gen := NewGenerator(testSequencer("10m", 0), Config{
		Seed:       1,
		SourceType: "chest_strap",
		SourceID:   "polar-01",
		Start:      start,
	})

	samples := gen.Session(50)

	prev := start
	for i, s := range samples {
		ts, err := s.Time()
		if err != nil {
			t.Fatalf("Beat %d has unparseable timestamp: %v", i, err)
		}
		gap := ts.Sub(prev)
		want := time.Duration(s.IntervalMS * float64(time.Millisecond))
		if diff := gap - want; diff < -time.Millisecond || diff > time.Millisecond {
			t.Errorf("Beat %d gap %v does not match its interval %v", i, gap, want)
		}
		prev = ts
	}
}

func TestGeneratorSessionRespectsDuration(t *testing.T) {
	// At ~800ms per beat a 1-minute scenario holds roughly 75 beats.
	gen := NewGenerator(testSequencer("1m", 0), Config{
		Seed:       3,
		SourceType: "wearable",
		SourceID:   "mock-strap-01",
	})

	samples := gen.Session(10000)
	if len(samples) < 60 || len(samples) > 95 {
		t.Errorf("Expected roughly 75 beats for a 1m scenario, got %d", len(samples))
	}
	if !gen.IsComplete() {
		t.Error("Expected generator to report completion")
	}
}

func TestGeneratorWearableDefaultsToLeftSide(t *testing.T) {
	gen := NewGenerator(testSequencer("1m", 0), Config{
		Seed:       5,
		SourceType: "wearable",
		SourceID:   "mock-strap-01",
	})

	s := gen.NextBeat()
	if s.Source.Side == nil || *s.Source.Side != "left" {
		t.Error("Expected wearable source to default to left side")
	}
}
