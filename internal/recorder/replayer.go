package recorder

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/synheart/synheart-hrv/internal/models"
)

// Replayer replays recorded R-R samples from an NDJSON file, pacing
// emission by the recorded inter-beat timestamps.
type Replayer struct {
	filename    string
	speed       float64
	loop        bool
	sampleCount int
	firstSample *models.Sample
	loaded      bool
}

// NewReplayer creates a new replayer. speed scales the replay rate;
// 2.0 replays twice as fast as recorded.
func NewReplayer(filename string, speed float64, loop bool) *Replayer {
	return &Replayer{
		filename: filename,
		speed:    speed,
		loop:     loop,
	}
}

func (r *Replayer) loadMetadata() error {
	if r.loaded {
		return nil
	}

	file, err := os.Open(r.filename)
	if err != nil {
		return fmt.Errorf("failed to open recording file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	r.sampleCount = 0

	for scanner.Scan() {
		r.sampleCount++
		if r.sampleCount == 1 {
			var sample models.Sample
			if err := json.Unmarshal(scanner.Bytes(), &sample); err != nil {
				return fmt.Errorf("failed to parse first sample: %w", err)
			}
			r.firstSample = &sample
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	r.loaded = true
	return nil
}

// Replay reads samples and sends them to the output channel with the
// recorded timing. When loop is set, replay restarts after the file ends.
func (r *Replayer) Replay(ctx context.Context, output chan<- models.Sample) error {
	for {
		if err := r.replayOnce(ctx, output); err != nil {
			return err
		}

		if !r.loop {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}

func (r *Replayer) replayOnce(ctx context.Context, output chan<- models.Sample) error {
	file, err := os.Open(r.filename)
	if err != nil {
		return fmt.Errorf("failed to open recording file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var lastTimestamp time.Time
	lineNum := 0

	for scanner.Scan() {
		lineNum++

		var sample models.Sample
		if err := json.Unmarshal(scanner.Bytes(), &sample); err != nil {
			return fmt.Errorf("failed to parse sample at line %d: %w", lineNum, err)
		}

		timestamp, err := sample.Time()
		if err != nil {
			return fmt.Errorf("failed to parse timestamp at line %d: %w", lineNum, err)
		}

		if lineNum == 1 {
			lastTimestamp = timestamp
		} else {
			delay := timestamp.Sub(lastTimestamp)
			if r.speed != 1.0 && r.speed > 0 {
				delay = time.Duration(float64(delay) / r.speed)
			}

			if delay > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(delay):
				}
			}

			lastTimestamp = timestamp
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case output <- sample:
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	return nil
}

// CountSamples returns the number of samples in the recording.
func (r *Replayer) CountSamples() (int, error) {
	if err := r.loadMetadata(); err != nil {
		return 0, err
	}
	return r.sampleCount, nil
}

// FirstSample returns the first sample in the recording.
func (r *Replayer) FirstSample() (*models.Sample, error) {
	if err := r.loadMetadata(); err != nil {
		return nil, err
	}
	if r.firstSample == nil {
		return nil, fmt.Errorf("recording file is empty")
	}
	return r.firstSample, nil
}
