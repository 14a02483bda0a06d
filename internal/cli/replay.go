package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/synheart/synheart-hrv/internal/encoding"
	"github.com/synheart/synheart-hrv/internal/hrv"
	"github.com/synheart/synheart-hrv/internal/models"
	"github.com/synheart/synheart-hrv/internal/recorder"
	"github.com/synheart/synheart-hrv/internal/stream"
	"github.com/synheart/synheart-hrv/internal/transport"
)

var (
	replayIn    string
	replaySpeed float64
	replayLoop  bool
	replayHost  string
	replayPort  int
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded session as a live metric stream",
	Long: `Replays samples from a previously recorded NDJSON file through the
rolling HRV analyzer and broadcasts the data points over WebSocket.

Examples:
  synheart-hrv replay --in session.ndjson
  synheart-hrv replay --in session.ndjson --speed 2.0 --loop`,
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayIn, "in", "", "Input file to replay (required)")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayLoop, "loop", false, "Loop playback continuously")
	replayCmd.Flags().StringVar(&replayHost, "host", "127.0.0.1", "Host to bind to")
	replayCmd.Flags().IntVar(&replayPort, "port", 8787, "Port to listen on")
	replayCmd.MarkFlagRequired("in")
}

func runReplay(cmd *cobra.Command, args []string) error {
	rep := recorder.NewReplayer(replayIn, replaySpeed, replayLoop)

	count, err := rep.CountSamples()
	if err != nil {
		return fmt.Errorf("failed to read recording: %w", err)
	}

	first, err := rep.FirstSample()
	if err != nil {
		return fmt.Errorf("failed to read first sample: %w", err)
	}

	analyzer, err := stream.NewAnalyzer(hrv.NewEngine(), hrv.DefaultRollingConfig())
	if err != nil {
		return fmt.Errorf("invalid window config: %w", err)
	}
	encoder := encoding.NewJSONEncoder()

	samples := make(chan models.Sample, 100)
	points := make(chan hrv.DataPoint, 100)

	wsServer := transport.NewWebSocketServer(replayHost, replayPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	go func() {
		if err := wsServer.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("WebSocket server error: %v", err)
		}
	}()

	time.Sleep(100 * time.Millisecond)

	fmt.Printf("Replay Session Started\n\n")
	fmt.Printf("File:         %s\n", replayIn)
	fmt.Printf("Samples:      %d\n", count)
	fmt.Printf("Scenario:     %s\n", first.Session.Scenario)
	fmt.Printf("Speed:        %.1fx\n", replaySpeed)
	fmt.Printf("Loop:         %v\n", replayLoop)
	fmt.Printf("WebSocket:    %s\n\n", wsServer.Address())

	go func() {
		for point := range points {
			data, err := encoder.Encode(point)
			if err != nil {
				log.Printf("Encoding error: %v", err)
				continue
			}
			wsServer.Broadcast(data)
		}
	}()

	go func() {
		if err := analyzer.Run(ctx, samples, points); err != nil && err != context.Canceled {
			log.Printf("Analyzer error: %v", err)
		}
	}()

	fmt.Println("Press Ctrl+C to stop")
	fmt.Println("\nReplaying samples...")

	if err := rep.Replay(ctx, samples); err != nil && err != context.Canceled {
		close(samples)
		return fmt.Errorf("replay error: %w", err)
	}
	close(samples)

	fmt.Println("\nReplay complete")
	return nil
}
