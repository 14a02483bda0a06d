package scenario

import (
	"sync"
	"time"
)

// Sequencer tracks a running scenario's progression through its phases.
type Sequencer struct {
	scenario  *Scenario
	startTime time.Time
	mu        sync.RWMutex
}

// NewSequencer starts tracking the given scenario from now.
func NewSequencer(scen *Scenario) *Sequencer {
	return &Sequencer{
		scenario:  scen,
		startTime: time.Now(),
	}
}

// Elapsed returns the time since the scenario started.
func (s *Sequencer) Elapsed() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}

// CurrentPhase returns the phase in force at the current time.
func (s *Sequencer) CurrentPhase() *Phase {
	return s.scenario.currentPhase(s.Elapsed())
}

// EffectiveConfig returns the beat profile in force at the current time.
func (s *Sequencer) EffectiveConfig() *RRConfig {
	return s.scenario.EffectiveConfig(s.Elapsed())
}

// IsComplete reports whether the scenario's duration has elapsed.
func (s *Sequencer) IsComplete() bool {
	duration, unlimited := ParseDuration(s.scenario.Duration)
	if unlimited {
		return false
	}
	return s.Elapsed() >= duration
}

// Scenario returns the underlying scenario.
func (s *Sequencer) Scenario() *Scenario {
	return s.scenario
}

// Reset restarts the scenario clock.
func (s *Sequencer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startTime = time.Now()
}
