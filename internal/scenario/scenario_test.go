package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input     string
		expected  time.Duration
		unlimited bool
	}{
		{"unlimited", 0, true},
		{"", 0, true},
		{"10m", 10 * time.Minute, false},
		{"45s", 45 * time.Second, false},
		{"1h", time.Hour, false},
	}

	for _, test := range tests {
		duration, unlimited := ParseDuration(test.input)
		if unlimited != test.unlimited {
			t.Errorf("ParseDuration(%s): expected unlimited=%v, got %v", test.input, test.unlimited, unlimited)
		}
		if !unlimited && duration != test.expected {
			t.Errorf("ParseDuration(%s): expected %v, got %v", test.input, test.expected, duration)
		}
	}
}

func testScenario() *Scenario {
	return &Scenario{
		Name:     "focus-session",
		Duration: "10m",
		RR: &RRConfig{
			MeanMS:        850,
			VariabilityMS: 45,
			RespirationHz: 0.25,
			JitterMS:      8,
			ArtifactRate:  0.01,
		},
		Phases: []Phase{
			{Name: "settle", Duration: "2m"},
			{
				Name:     "stress",
				Duration: "3m",
				Overrides: &RRConfig{
					MeanMS:        700,
					VariabilityMS: 18,
					ArtifactRate:  0.04,
				},
			},
			{Name: "recovery", Duration: "5m"},
		},
	}
}

func TestEffectiveConfig(t *testing.T) {
	scen := testScenario()

	// Settle phase: base profile untouched.
	cfg := scen.EffectiveConfig(1 * time.Minute)
	if cfg.MeanMS != 850 {
		t.Errorf("Expected base mean 850 in settle phase, got %v", cfg.MeanMS)
	}

	// Stress phase: overridden fields change, the rest inherit.
	cfg = scen.EffectiveConfig(3 * time.Minute)
	if cfg.MeanMS != 700 {
		t.Errorf("Expected overridden mean 700 in stress phase, got %v", cfg.MeanMS)
	}
	if cfg.VariabilityMS != 18 {
		t.Errorf("Expected overridden variability 18, got %v", cfg.VariabilityMS)
	}
	if cfg.RespirationHz != 0.25 {
		t.Errorf("Expected inherited respiration 0.25, got %v", cfg.RespirationHz)
	}
	if cfg.JitterMS != 8 {
		t.Errorf("Expected inherited jitter 8, got %v", cfg.JitterMS)
	}

	// Past the last phase boundary: stays in the final phase.
	cfg = scen.EffectiveConfig(30 * time.Minute)
	if cfg.MeanMS != 850 {
		t.Errorf("Expected recovery phase to restore base mean, got %v", cfg.MeanMS)
	}
}

func TestSequencer(t *testing.T) {
	seq := NewSequencer(testScenario())

	if seq.IsComplete() {
		t.Error("Expected a 10m scenario not to be complete immediately")
	}
	if phase := seq.CurrentPhase(); phase == nil || phase.Name != "settle" {
		t.Errorf("Expected settle phase at start, got %+v", phase)
	}
	if cfg := seq.EffectiveConfig(); cfg == nil || cfg.MeanMS != 850 {
		t.Errorf("Expected base profile at start, got %+v", cfg)
	}

	unlimited := NewSequencer(&Scenario{Name: "x", Duration: "unlimited", RR: &RRConfig{MeanMS: 800}})
	if unlimited.IsComplete() {
		t.Error("Expected unlimited scenario to never complete")
	}
}

func TestRegistryLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rest.yaml")
	content := `name: rest
description: Quiet sitting baseline
duration: 10m
rr:
  mean_ms: 900
  variability_ms: 55
  respiration_hz: 0.22
  jitter_ms: 6
  artifact_rate: 0.005
phases:
  - name: steady
    duration: unlimited
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write scenario file: %v", err)
	}

	registry := NewRegistry()
	if err := registry.LoadFromDir(dir); err != nil {
		t.Fatalf("Failed to load scenarios: %v", err)
	}

	scen, err := registry.Get("rest")
	if err != nil {
		t.Fatalf("Failed to get scenario: %v", err)
	}
	if scen.RR.MeanMS != 900 {
		t.Errorf("Expected mean 900, got %v", scen.RR.MeanMS)
	}
	if scen.Description != "Quiet sitting baseline" {
		t.Errorf("Unexpected description: %s", scen.Description)
	}

	if _, err := registry.Get("missing"); err == nil {
		t.Error("Expected error for unknown scenario")
	}

	descriptions := registry.ListWithDescriptions()
	if descriptions["rest"] != "Quiet sitting baseline" {
		t.Errorf("Unexpected descriptions map: %v", descriptions)
	}
}

func TestRegistryRejectsProfilelessScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("name: bad\nduration: 1m\n"), 0644); err != nil {
		t.Fatalf("Failed to write scenario file: %v", err)
	}

	registry := NewRegistry()
	if err := registry.LoadFromFile(path); err == nil {
		t.Error("Expected error for scenario without rr profile")
	}
}
