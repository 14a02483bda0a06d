package cli

import (
	"fmt"
	"net"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/synheart/synheart-hrv/internal/scenario"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment and print connection info",
	Long:  `Validates the local environment, checks port availability, and provides connection examples.`,
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("Synheart HRV Environment Check")
	fmt.Println()

	fmt.Printf("Go Version:        %s\n", runtime.Version())
	fmt.Printf("OS/Arch:           %s/%s\n\n", runtime.GOOS, runtime.GOARCH)

	scenariosDir := getScenarioDir()
	if _, err := os.Stat(scenariosDir); err == nil {
		fmt.Printf("OK  Scenarios directory found: %s\n", scenariosDir)

		registry := scenario.NewRegistry()
		if err := registry.LoadFromDir(scenariosDir); err == nil {
			scenarios := registry.List()
			fmt.Printf("    Found %d scenarios: %v\n\n", len(scenarios), scenarios)
		}
	} else {
		fmt.Printf("!!  Scenarios directory not found: %s\n\n", scenariosDir)
	}

	defaultPort := 8787
	if isPortAvailable(defaultPort) {
		fmt.Printf("OK  Default port %d is available\n\n", defaultPort)
	} else {
		fmt.Printf("!!  Default port %d is in use\n", defaultPort)
		fmt.Printf("    Use --port flag to specify a different port\n\n")
	}

	fmt.Println("Connection Examples:")
	fmt.Println()

	fmt.Println("JavaScript/Node.js:")
	fmt.Println("  const ws = new WebSocket('ws://localhost:8787/hrv');")
	fmt.Println("  ws.onmessage = (event) => {")
	fmt.Println("    const point = JSON.parse(event.data);")
	fmt.Println("    console.log(point.rmssd_ms, point.mean_hr_bpm);")
	fmt.Println("  };")
	fmt.Println()

	fmt.Println("Python:")
	fmt.Println("  import websocket")
	fmt.Println("  import json")
	fmt.Println("  ws = websocket.WebSocket()")
	fmt.Println("  ws.connect('ws://localhost:8787/hrv')")
	fmt.Println("  while True:")
	fmt.Println("    point = json.loads(ws.recv())")
	fmt.Println("    print(point['rmssd_ms'])")
	fmt.Println()

	fmt.Println("Go:")
	fmt.Println("  conn, _, err := websocket.DefaultDialer.Dial(\"ws://localhost:8787/hrv\", nil)")
	fmt.Println("  for {")
	fmt.Println("    _, message, err := conn.ReadMessage()")
	fmt.Println("    var point DataPoint")
	fmt.Println("    json.Unmarshal(message, &point)")
	fmt.Println("  }")
	fmt.Println()

	fmt.Println("curl (SSE):")
	fmt.Println("  curl -N http://localhost:8788/hrv/sse")
	fmt.Println()

	fmt.Println("Environment check complete")
	return nil
}

func isPortAvailable(port int) bool {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return false
	}
	listener.Close()
	return true
}
