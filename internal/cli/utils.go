package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/synheart/synheart-hrv/internal/models"
)

func getScenarioDir() string {
	// Try current directory first
	if _, err := os.Stat("scenarios"); err == nil {
		return "scenarios"
	}

	// Try relative to executable
	exe, err := os.Executable()
	if err == nil {
		dir := filepath.Join(filepath.Dir(exe), "scenarios")
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}

	// Default to scenarios in current directory
	return "scenarios"
}

// readIntervals loads R-R intervals from a file. Two layouts are
// accepted: sample NDJSON as written by the recorder, or plain text
// with one interval in milliseconds per line.
func readIntervals(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var intervals []float64
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "{") {
			var sample models.Sample
			if err := json.Unmarshal([]byte(line), &sample); err != nil {
				return nil, fmt.Errorf("invalid sample at line %d: %w", lineNum, err)
			}
			intervals = append(intervals, sample.IntervalMS)
			continue
		}

		value, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid interval at line %d: %w", lineNum, err)
		}
		intervals = append(intervals, value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if len(intervals) == 0 {
		return nil, fmt.Errorf("no intervals found in %s", path)
	}

	return intervals, nil
}
