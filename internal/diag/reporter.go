package diag

import (
	"fmt"
	"io"
)

// Reporter — минимальный контракт получения диагностик от фаз обёртки.
// Реализации: BagReporter (кладёт в Bag), NopReporter, WriterReporter.
type Reporter interface {
	Report(sev Severity, prog, msg string)
}

// BagReporter accumulates diagnostics into a Bag.
type BagReporter struct {
	Bag *Bag
}

func (r BagReporter) Report(sev Severity, prog, msg string) {
	r.Bag.Add(Diagnostic{Severity: sev, Prog: prog, Message: msg})
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Severity, string, string) {}

// WriterReporter prints diagnostics immediately, one per line. Info-level
// diagnostics are suppressed unless Verbose is set.
type WriterReporter struct {
	W       io.Writer
	Verbose bool
}

func (r WriterReporter) Report(sev Severity, prog, msg string) {
	if sev == SevInfo && !r.Verbose {
		return
	}
	fmt.Fprintf(r.W, "ccwrap: %s: %s: %s\n", sev, prog, msg)
}

// MultiReporter fans out to several reporters.
type MultiReporter []Reporter

func (m MultiReporter) Report(sev Severity, prog, msg string) {
	for _, r := range m {
		r.Report(sev, prog, msg)
	}
}
