// Package timer implements a stopwatch without a ticking goroutine: it keeps
// a start epoch and, while paused, the elapsed time accumulated so far.
package timer

import (
	"fmt"
	"sync"
	"time"
)

// Status is the stopwatch state.
type Status int

const (
	Stopped Status = iota
	Running
	Paused
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// Option configures a Stopwatch.
type Option func(*Stopwatch)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Stopwatch) { s.now = now }
}

// Stopwatch accumulates elapsed time across pauses.
type Stopwatch struct {
	mu      sync.Mutex
	now     func() time.Time
	status  Status
	startAt time.Time
	paused  time.Duration
}

// New returns a stopped stopwatch.
func New(opts ...Option) *Stopwatch {
	s := &Stopwatch{now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start begins timing, or resumes from a pause. No-op while running.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.status {
	case Stopped:
		s.startAt = s.now()
	case Paused:
		s.startAt = s.now().Add(-s.paused)
	default:
		return
	}
	s.status = Running
}

// Pause freezes the elapsed time. No-op unless running.
func (s *Stopwatch) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != Running {
		return
	}
	s.paused = s.now().Sub(s.startAt)
	s.status = Paused
}

// Reset returns to Stopped with zero elapsed.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = Stopped
	s.startAt = time.Time{}
	s.paused = 0
}

// Elapsed is now-start while running, the frozen value while paused, and 0 when stopped.
func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed()
}

func (s *Stopwatch) elapsed() time.Duration {
	switch s.status {
	case Running:
		return s.now().Sub(s.startAt)
	case Paused:
		return s.paused
	default:
		return 0
	}
}

// ElapsedSeconds, ElapsedMinutes and ElapsedHours truncate Elapsed to whole units.
func (s *Stopwatch) ElapsedSeconds() int64 { return int64(s.Elapsed() / time.Second) }
func (s *Stopwatch) ElapsedMinutes() int64 { return s.ElapsedSeconds() / 60 }
func (s *Stopwatch) ElapsedHours() int64   { return s.ElapsedMinutes() / 60 }

// Status returns the current state.
func (s *Stopwatch) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Format renders elapsed time as MM:SS, or HH:MM:SS from one hour on.
func (s *Stopwatch) Format() string {
	return FormatDuration(s.Elapsed())
}

// FormatDuration renders d in whole seconds as MM:SS or HH:MM:SS.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	h, m, sec := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}
