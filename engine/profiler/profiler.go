// Package profiler times the stages of a scene load.
package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Stage is one timed step.
type Stage struct {
	Name     string
	Duration time.Duration
	// HeapDelta is the change in live heap bytes over the stage. Zero unless memory stats are enabled.
	HeapDelta int64
}

// Profiler records consecutive stage durations and, optionally, heap growth.
// It is not safe for concurrent use.
type Profiler struct {
	start    time.Time
	last     time.Time
	now      func() time.Time
	memStats *runtime.MemStats
	lastHeap uint64
	stages   []Stage
}

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithMemStats also records heap growth per stage. Reading memory stats stops
// the world briefly, so it is off by default.
func WithMemStats(enabled bool) ProfilerBuilderOption {
	return func(p *Profiler) {
		if enabled {
			p.memStats = &runtime.MemStats{}
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a Profiler whose first stage starts now.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{now: time.Now}
	for _, option := range options {
		option(p)
	}
	p.start = p.now()
	p.last = p.start
	if p.memStats != nil {
		runtime.ReadMemStats(p.memStats)
		p.lastHeap = p.memStats.Alloc
	}
	return p
}

// Mark ends the current stage under name and starts the next one.
//
// Parameters:
//   - name: the name of the stage that just finished
//
// Returns:
//   - Stage: the recorded stage
func (p *Profiler) Mark(name string) Stage {
	t := p.now()
	s := Stage{Name: name, Duration: t.Sub(p.last)}
	p.last = t

	if p.memStats != nil {
		runtime.ReadMemStats(p.memStats)
		s.HeapDelta = int64(p.memStats.Alloc) - int64(p.lastHeap)
		p.lastHeap = p.memStats.Alloc
	}
	p.stages = append(p.stages, s)
	return s
}

// Stages returns the recorded stages in order.
func (p *Profiler) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Total returns the time from creation to the last Mark.
func (p *Profiler) Total() time.Duration {
	return p.last.Sub(p.start)
}

// LogValue renders the stages as a slog group of name=duration pairs.
func (p *Profiler) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(p.stages)+1)
	for _, s := range p.stages {
		attrs = append(attrs, slog.Duration(s.Name, s.Duration))
	}
	attrs = append(attrs, slog.Duration("total", p.Total()))
	return slog.GroupValue(attrs...)
}
