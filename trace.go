package gostblind

import (
	"sync"
	"time"
)

// EventType names a milestone of parameter generation.
type EventType string

const (
	// EventSeedPrime: the chain seed was found by LowestPrime.
	EventSeedPrime EventType = "seed_prime"
	// EventChainPrime: one chain level was lifted to a certified prime.
	EventChainPrime EventType = "chain_prime"
	// EventSeedRestart: a level exhausted its candidate window and drew
	// a fresh seed.
	EventSeedRestart EventType = "seed_restart"
	// EventGeneratorFound: the subgroup generator was fixed.
	EventGeneratorFound EventType = "generator_found"
	// EventParametersReady: the full parameter set was assembled.
	EventParametersReady EventType = "parameters_ready"
)

// Event is one trace record emitted during parameter generation. Level
// counts chain positions from the final modulus down, so level 0 is the
// modulus itself.
type Event struct {
	Type     EventType
	Time     time.Time
	Level    int
	Bits     int
	Attempts int
	Restarts int
	Elapsed  time.Duration
}

// EventSink receives trace events. The generator calls it inline, so
// implementations must return quickly.
type EventSink interface {
	Event(Event)
}

// NullSink discards all events.
type NullSink struct{}

// Event implements EventSink.
func (NullSink) Event(Event) {}

// CollectSink accumulates events for later inspection. Safe for use from
// multiple generators.
type CollectSink struct {
	mu     sync.Mutex
	events []Event
}

// Event implements EventSink.
func (s *CollectSink) Event(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// Events returns a copy of everything recorded so far.
func (s *CollectSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// GenerationStats summarizes one generation run.
type GenerationStats struct {
	ChainLevels    int
	Candidates     int
	SeedRestarts   int
	GeneratorDraws int
	Elapsed        time.Duration
}

// Stats folds the recorded events into counters.
func (s *CollectSink) Stats() GenerationStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st GenerationStats
	for _, e := range s.events {
		switch e.Type {
		case EventSeedPrime:
			st.ChainLevels++
		case EventChainPrime:
			st.ChainLevels++
			st.Candidates += e.Attempts
		case EventSeedRestart:
			st.SeedRestarts++
		case EventGeneratorFound:
			st.GeneratorDraws = e.Attempts
		case EventParametersReady:
			st.Elapsed = e.Elapsed
		}
	}
	return st
}
