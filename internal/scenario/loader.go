package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry holds all available scenarios by name.
type Registry struct {
	scenarios map[string]*Scenario
}

// NewRegistry creates an empty scenario registry.
func NewRegistry() *Registry {
	return &Registry{
		scenarios: make(map[string]*Scenario),
	}
}

// LoadFromFile loads a scenario from a YAML file.
func (r *Registry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scen Scenario
	if err := yaml.Unmarshal(data, &scen); err != nil {
		return fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	if scen.Name == "" {
		return fmt.Errorf("scenario in %s has no name", path)
	}
	if scen.RR == nil {
		return fmt.Errorf("scenario '%s' has no rr profile", scen.Name)
	}

	r.scenarios[scen.Name] = &scen
	return nil
}

// LoadFromDir loads all YAML scenarios from a directory.
func (r *Registry) LoadFromDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".yaml") && !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := r.LoadFromFile(path); err != nil {
			return fmt.Errorf("failed to load scenario from %s: %w", path, err)
		}
	}

	return nil
}

// Get retrieves a scenario by name.
func (r *Registry) Get(name string) (*Scenario, error) {
	scen, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("scenario '%s' not found", name)
	}
	return scen, nil
}

// List returns all scenario names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	return names
}

// ListWithDescriptions returns scenario names mapped to descriptions.
func (r *Registry) ListWithDescriptions() map[string]string {
	result := make(map[string]string)
	for name, scen := range r.scenarios {
		result[name] = scen.Description
	}
	return result
}
