// Package metrics abstracts render pass instrumentation behind a Recorder
// interface with Prometheus and no-op implementations.
package metrics

import "time"

// Recorder receives render pass measurements.
type Recorder interface {
	// ObservePassDuration records the wall time of one full render pass.
	ObservePassDuration(d time.Duration)
	// ObserveStageDuration records the wall time of one pipeline stage.
	ObserveStageDuration(stage string, d time.Duration)
	// IncPassOutcome counts a finished pass by outcome
	// (written | unchanged | empty | failed).
	IncPassOutcome(outcome string)
	// IncSections counts emitted sections by origin (matched | synthesized).
	IncSections(origin string, n int)
}

// Nop is a Recorder that discards everything.
type Nop struct{}

func (Nop) ObservePassDuration(time.Duration)          {}
func (Nop) ObserveStageDuration(string, time.Duration) {}
func (Nop) IncPassOutcome(string)                      {}
func (Nop) IncSections(string, int)                    {}
