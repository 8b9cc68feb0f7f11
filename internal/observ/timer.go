// Package observ tracks how long each phase of a wrapped invocation takes:
// staging, dry-run classification, dispatch, fallback execution.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase records the duration and metadata of one wrapper phase.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the execution time of the wrapper phases.
type Timer struct {
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	var sb strings.Builder
	sb.WriteString("timings:\n")
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		fmt.Fprintf(&sb, "  %-12s %7.2f ms", p.Name, millis(p.Dur))
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-12s %7.2f ms\n", "total", millis(total))
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
