package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/synheart/synheart-hrv/internal/models"
)

func testSample(sequence int64, intervalMS float64, ts time.Time) models.Sample {
	sample := models.NewSample(
		uuid.New().String(),
		models.Source{Type: "wearable", ID: "test-device"},
		models.Session{RunID: "run-1", Scenario: "rest", Seed: 42},
		intervalMS,
		1.0,
		sequence,
	)
	sample.Timestamp = ts.UTC().Format(time.RFC3339Nano)
	return sample
}

func TestRecordAndCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.ndjson")

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("Failed to create recorder: %v", err)
	}

	base := time.Now()
	for i := 0; i < 5; i++ {
		if err := rec.Record(testSample(int64(i), 800, base.Add(time.Duration(i)*800*time.Millisecond))); err != nil {
			t.Fatalf("Failed to record sample %d: %v", i, err)
		}
	}

	if got := rec.Count(); got != 5 {
		t.Errorf("Expected count 5, got %d", got)
	}

	if err := rec.Close(); err != nil {
		t.Fatalf("Failed to close recorder: %v", err)
	}

	rep := NewReplayer(path, 1.0, false)
	count, err := rep.CountSamples()
	if err != nil {
		t.Fatalf("Failed to count samples: %v", err)
	}
	if count != 5 {
		t.Errorf("Expected 5 samples in file, got %d", count)
	}

	first, err := rep.FirstSample()
	if err != nil {
		t.Fatalf("Failed to read first sample: %v", err)
	}
	if first.Sequence != 0 {
		t.Errorf("Expected first sequence 0, got %d", first.Sequence)
	}
	if first.IntervalMS != 800 {
		t.Errorf("Expected interval 800, got %f", first.IntervalMS)
	}
}

func TestReplayPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.ndjson")

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("Failed to create recorder: %v", err)
	}

	base := time.Now()
	for i := 0; i < 10; i++ {
		if err := rec.Record(testSample(int64(i), 790+float64(i), base.Add(time.Duration(i)*10*time.Millisecond))); err != nil {
			t.Fatalf("Failed to record sample %d: %v", i, err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Failed to close recorder: %v", err)
	}

	rep := NewReplayer(path, 100.0, false)
	output := make(chan models.Sample, 16)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer close(output)
		done <- rep.Replay(ctx, output)
	}()

	var sequences []int64
	for sample := range output {
		sequences = append(sequences, sample.Sequence)
	}

	if err := <-done; err != nil {
		t.Fatalf("Replay failed: %v", err)
	}

	if len(sequences) != 10 {
		t.Fatalf("Expected 10 replayed samples, got %d", len(sequences))
	}
	for i, seq := range sequences {
		if seq != int64(i) {
			t.Errorf("Expected sequence %d at position %d, got %d", i, i, seq)
		}
	}
}

func TestReplayEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.ndjson")

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("Failed to create recorder: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Failed to close recorder: %v", err)
	}

	rep := NewReplayer(path, 1.0, false)
	if _, err := rep.FirstSample(); err == nil {
		t.Error("Expected error for empty recording, got nil")
	}
}

func TestReplayMissingFile(t *testing.T) {
	rep := NewReplayer(filepath.Join(t.TempDir(), "missing.ndjson"), 1.0, false)
	if _, err := rep.CountSamples(); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestRecordFromChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel.ndjson")

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("Failed to create recorder: %v", err)
	}

	samples := make(chan models.Sample, 4)
	base := time.Now()
	for i := 0; i < 3; i++ {
		samples <- testSample(int64(i), 810, base.Add(time.Duration(i)*810*time.Millisecond))
	}
	close(samples)

	entries := 0
	if err := rec.RecordFromChannel(context.Background(), samples, func() { entries++ }); err != nil {
		t.Fatalf("RecordFromChannel failed: %v", err)
	}

	if entries != 3 {
		t.Errorf("Expected 3 entries, got %d", entries)
	}

	rep := NewReplayer(path, 1.0, false)
	count, err := rep.CountSamples()
	if err != nil {
		t.Fatalf("Failed to count samples: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 samples, got %d", count)
	}
}
