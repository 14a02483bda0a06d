package scenario

import "time"

// Scenario defines a synthetic R-R session: a base beat profile plus
// time-bounded phases that override parts of it (rest, stress onset,
// recovery, sensor noise bursts).
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Duration    string    `yaml:"duration"` // e.g. "10m", "unlimited"
	RR          *RRConfig `yaml:"rr"`
	Phases      []Phase   `yaml:"phases"`
}

// Phase is a time-bounded stage of a scenario with profile overrides.
type Phase struct {
	Name      string    `yaml:"name"`
	Duration  string    `yaml:"duration"`
	Overrides *RRConfig `yaml:"overrides,omitempty"`
}

// RRConfig shapes the generated beat-to-beat intervals. Zero-valued
// fields in a phase override inherit the base profile.
type RRConfig struct {
	MeanMS        float64 `yaml:"mean_ms"`        // average interval
	VariabilityMS float64 `yaml:"variability_ms"` // respiratory swing amplitude
	RespirationHz float64 `yaml:"respiration_hz"` // sinus-arrhythmia frequency
	JitterMS      float64 `yaml:"jitter_ms"`      // per-beat gaussian noise
	ArtifactRate  float64 `yaml:"artifact_rate"`  // probability of a corrupt beat
}

// ParseDuration parses duration strings like "10m", "45s", "unlimited".
// The second return is true for unlimited durations.
func ParseDuration(s string) (time.Duration, bool) {
	if s == "unlimited" || s == "" {
		return 0, true
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return d, false
}

// EffectiveConfig returns the beat profile in force at the given elapsed
// time, with the current phase's overrides merged over the base profile.
func (s *Scenario) EffectiveConfig(elapsed time.Duration) *RRConfig {
	base := s.RR
	if base == nil {
		return nil
	}

	phase := s.currentPhase(elapsed)
	if phase == nil || phase.Overrides == nil {
		return base
	}

	merged := *base
	o := phase.Overrides
	if o.MeanMS != 0 {
		merged.MeanMS = o.MeanMS
	}
	if o.VariabilityMS != 0 {
		merged.VariabilityMS = o.VariabilityMS
	}
	if o.RespirationHz != 0 {
		merged.RespirationHz = o.RespirationHz
	}
	if o.JitterMS != 0 {
		merged.JitterMS = o.JitterMS
	}
	if o.ArtifactRate != 0 {
		merged.ArtifactRate = o.ArtifactRate
	}
	return &merged
}

func (s *Scenario) currentPhase(elapsed time.Duration) *Phase {
	if len(s.Phases) == 0 {
		return nil
	}

	var cursor time.Duration
	for i := range s.Phases {
		phaseDuration, unlimited := ParseDuration(s.Phases[i].Duration)
		if unlimited {
			return &s.Phases[i]
		}
		if elapsed < cursor+phaseDuration {
			return &s.Phases[i]
		}
		cursor += phaseDuration
	}

	// Past the declared phases: stay in the last one.
	return &s.Phases[len(s.Phases)-1]
}
