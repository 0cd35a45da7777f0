// Package fake provides in-memory ActuatorBus and SensorSource
// implementations for tests and cmd/walkctl's no-hardware mode, per
// SPEC_FULL.md §4.7's note that switchboard/enactor/transcriber depend only
// on hardware's interfaces, never on a concrete adapter.
package fake

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ActuatorBus is an in-memory hardware.ActuatorBus: SetAlias just records
// the last command array per alias, and GetTime returns the wall clock.
type ActuatorBus struct {
	mu      sync.Mutex
	aliases map[string][]string
	last    map[string][]float32
}

// NewActuatorBus builds an empty fake bus.
func NewActuatorBus() *ActuatorBus {
	return &ActuatorBus{aliases: map[string][]string{}, last: map[string][]float32{}}
}

// CreateAlias records the joint list for name.
func (b *ActuatorBus) CreateAlias(name string, jointList []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.aliases[name] = append([]string(nil), jointList...)
	return nil
}

// SetAlias records command as the latest value pushed for alias.
func (b *ActuatorBus) SetAlias(alias string, command []float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.aliases[alias]; !ok {
		return errors.Errorf("fake: unknown alias %q", alias)
	}
	b.last[alias] = append([]float32(nil), command...)
	return nil
}

// GetTime returns time.Now() plus offset.
func (b *ActuatorBus) GetTime(offset time.Duration) time.Time {
	return time.Now().Add(offset)
}

// Last returns the most recently pushed command array for alias, or nil if
// none has been pushed yet.
func (b *ActuatorBus) Last(alias string) []float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]float32(nil), b.last[alias]...)
}

// SensorSource is an in-memory hardware.SensorSource backed by a
// caller-settable map of name -> value, defaulting every unset name to
// zero rather than erroring, which is convenient for manual walkctl
// sessions against no real robot.
type SensorSource struct {
	mu     sync.Mutex
	values map[string]float32
}

// NewSensorSource builds a fake sensor source with every value at zero.
func NewSensorSource() *SensorSource {
	return &SensorSource{values: map[string]float32{}}
}

// Set overrides the value reported for name.
func (s *SensorSource) Set(name string, value float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}

// GetValues returns the current value for each requested name, zero if
// never set.
func (s *SensorSource) GetValues(names []string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float32, len(names))
	for i, n := range names {
		out[i] = s.values[n]
	}
	return out, nil
}
