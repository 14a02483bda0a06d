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
	"github.com/synheart/synheart-hrv/internal/generator"
	"github.com/synheart/synheart-hrv/internal/hrv"
	"github.com/synheart/synheart-hrv/internal/models"
	"github.com/synheart/synheart-hrv/internal/recorder"
	"github.com/synheart/synheart-hrv/internal/scenario"
	"github.com/synheart/synheart-hrv/internal/stream"
	"github.com/synheart/synheart-hrv/internal/transport"
)

var (
	monitorHost     string
	monitorPort     int
	monitorScenario string
	monitorDuration string
	monitorSeed     int64
	monitorOut      string
	monitorEncoding string
	monitorWindow   float64
	monitorOverlap  float64
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Generate a live R-R stream and broadcast rolling HRV metrics",
	Long: `Generates synthetic R-R intervals from a scenario, feeds them through
the rolling HRV analyzer, and broadcasts the resulting data points over
WebSocket, SSE, and UDP.

Examples:
  synheart-hrv monitor
  synheart-hrv monitor --scenario stress --duration 10m
  synheart-hrv monitor --encoding protobuf --out session.ndjson`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorHost, "host", "127.0.0.1", "Host to bind to")
	monitorCmd.Flags().IntVar(&monitorPort, "port", 8787, "WebSocket port (SSE on +1, UDP on +2)")
	monitorCmd.Flags().StringVar(&monitorScenario, "scenario", "rest", "Scenario to run")
	monitorCmd.Flags().StringVar(&monitorDuration, "duration", "", "Duration to run (e.g., 5m, 1h)")
	monitorCmd.Flags().Int64Var(&monitorSeed, "seed", time.Now().UnixNano(), "Random seed for deterministic output")
	monitorCmd.Flags().StringVar(&monitorOut, "out", "", "Record raw samples to NDJSON file")
	monitorCmd.Flags().StringVar(&monitorEncoding, "encoding", "json", "Broadcast encoding: json|protobuf")
	monitorCmd.Flags().Float64Var(&monitorWindow, "window", hrv.DefaultWindowSeconds, "Rolling window length in seconds")
	monitorCmd.Flags().Float64Var(&monitorOverlap, "overlap", hrv.DefaultOverlapSeconds, "Window overlap in seconds")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	registry := scenario.NewRegistry()
	if err := registry.LoadFromDir(getScenarioDir()); err != nil {
		return fmt.Errorf("failed to load scenarios: %w", err)
	}

	scen, err := registry.Get(monitorScenario)
	if err != nil {
		return fmt.Errorf("failed to load scenario '%s': %w", monitorScenario, err)
	}
	if monitorDuration != "" {
		scen.Duration = monitorDuration
	}

	seq := scenario.NewSequencer(scen)
	gen := generator.NewGenerator(seq, generator.Config{
		Seed:       monitorSeed,
		SourceType: "wearable",
		SourceID:   "mock-strap-01",
	})

	rollingCfg := hrv.RollingConfig{
		WindowSeconds:  monitorWindow,
		OverlapSeconds: monitorOverlap,
		MinSamples:     hrv.DefaultMinSamplesPerWindow,
	}
	analyzer, err := stream.NewAnalyzer(hrv.NewEngine(), rollingCfg)
	if err != nil {
		return fmt.Errorf("invalid window config: %w", err)
	}

	encoder := encoding.NewEncoder(encoding.Format(monitorEncoding))

	samples := make(chan models.Sample, 100)
	analyzerIn := make(chan models.Sample, 100)
	points := make(chan hrv.DataPoint, 100)
	payloads := make(chan []byte, 100)

	dispatcher := stream.NewDispatcher(payloads, 100)

	wsServer := transport.NewWebSocketServer(monitorHost, monitorPort)
	sse := transport.NewSSEServer(monitorHost, monitorPort+1)
	udp := transport.NewUDPServer(monitorHost, monitorPort+2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	go func() {
		if err := wsServer.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("WS error: %v", err)
		}
	}()
	go func() {
		if err := sse.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("SSE error: %v", err)
		}
	}()
	go func() {
		if err := udp.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("UDP error: %v", err)
		}
	}()

	time.Sleep(200 * time.Millisecond)

	fmt.Printf("Synheart HRV Monitor Started\n\n")
	fmt.Printf("Scenario:     %s\n", scen.Name)
	fmt.Printf("Run ID:       %s\n", gen.RunID())
	fmt.Printf("WebSocket:    %s\n", wsServer.Address())
	fmt.Printf("SSE:          %s\n", sse.Address())
	fmt.Printf("UDP:          %s\n", udp.Address())
	fmt.Printf("Encoding:     %s\n", encoder.ContentType())
	fmt.Printf("Window:       %.0fs / %.0fs overlap\n\n", monitorWindow, monitorOverlap)

	go wsServer.BroadcastFromChannel(ctx, dispatcher.Subscribe())
	go sse.BroadcastFromChannel(ctx, dispatcher.Subscribe())
	go udp.BroadcastFromChannel(ctx, dispatcher.Subscribe())

	var rec *recorder.Recorder
	if monitorOut != "" {
		rec, err = recorder.NewRecorder(monitorOut)
		if err != nil {
			return fmt.Errorf("failed to create recorder: %w", err)
		}
		defer rec.Close()
		fmt.Printf("Recording:    %s\n\n", monitorOut)
	}

	go dispatcher.Run(ctx)

	// Fan samples out to the analyzer and the optional recorder.
	go func() {
		defer close(analyzerIn)
		for {
			select {
			case <-ctx.Done():
				return
			case sample, ok := <-samples:
				if !ok {
					return
				}
				if rec != nil {
					if err := rec.Record(sample); err != nil {
						log.Printf("Recording error: %v", err)
					}
				}
				select {
				case analyzerIn <- sample:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		defer close(payloads)
		for {
			select {
			case <-ctx.Done():
				return
			case point, ok := <-points:
				if !ok {
					return
				}
				data, err := encoder.Encode(point)
				if err != nil {
					log.Printf("Encoding error: %v", err)
					continue
				}
				select {
				case payloads <- data:
				case <-ctx.Done():
					return
				}
				if point.IsValid {
					fmt.Printf("\rRMSSD %6.1f ms   HR %5.1f bpm   clients %d  ",
						point.RMSSD, point.MeanHR, wsServer.ClientCount()+sse.ClientCount()+udp.ClientCount())
				}
			}
		}
	}()

	// Analyzer.Run closes points when the sample stream ends.
	go func() {
		if err := analyzer.Run(ctx, analyzerIn, points); err != nil && err != context.Canceled {
			log.Printf("Analyzer error: %v", err)
		}
	}()

	if err := gen.Run(ctx, samples); err != nil && err != context.Canceled {
		close(samples)
		return fmt.Errorf("generator error: %w", err)
	}
	close(samples)

	fmt.Println("\nShutdown complete")
	return nil
}
