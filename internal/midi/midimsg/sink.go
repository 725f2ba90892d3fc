package midimsg

import (
	"sync"

	"github.com/leandrodaf/ewibreath/sdk/contracts"
)

// Sink hands decoded events from driver callbacks to the capture channel.
// Driver threads call Deliver; Detach returns only once no Deliver is running,
// so nothing is sent after a client has stopped.
type Sink struct {
	logger contracts.Logger

	gate sync.RWMutex
	ch   chan contracts.MIDI
}

// NewSink creates a sink with no channel attached.
func NewSink(logger contracts.Logger) *Sink {
	return &Sink{logger: logger}
}

// Attach sets the capture channel, replacing any previous one.
func (s *Sink) Attach(ch chan contracts.MIDI) {
	s.gate.Lock()
	s.ch = ch
	s.gate.Unlock()
}

// Attached reports whether a capture channel is set.
func (s *Sink) Attached() bool {
	s.gate.RLock()
	defer s.gate.RUnlock()
	return s.ch != nil
}

// Detach clears the capture channel and waits for in-flight deliveries.
func (s *Sink) Detach() {
	s.gate.Lock()
	s.ch = nil
	s.gate.Unlock()
}

// Deliver sends events without blocking and returns how many were dropped
// because the channel was full.
func (s *Sink) Deliver(events []contracts.MIDI) (dropped int) {
	if len(events) == 0 {
		return 0
	}
	s.gate.RLock()
	defer s.gate.RUnlock()
	if s.ch == nil {
		return 0
	}
	for _, event := range events {
		select {
		case s.ch <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		s.logger.Warn("Event buffer full; dropping MIDI events",
			s.logger.Field().Int("dropped", dropped))
	}
	return dropped
}
