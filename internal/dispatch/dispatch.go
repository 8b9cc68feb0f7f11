// Package dispatch executes classified work items one by one: capture
// canonical sub-commands, run driver commands when the configuration wants
// them, surface diagnostics.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"ccwrap/internal/classify"
	"ccwrap/internal/command"
	"ccwrap/internal/config"
	"ccwrap/internal/diag"
	"ccwrap/internal/subproc"
)

// CaptureSink consumes one fully expanded sub-invocation. What the analysis
// does with it is not this package's business.
type CaptureSink interface {
	Capture(ctx context.Context, cmd *command.Command) error
}

// FatalDiagError aborts the whole wrapped invocation. The dry-run expansion
// almost never fails on its own account; an error here means the real
// invocation is fundamentally broken, so the user gets the full original
// command line back.
type FatalDiagError struct {
	Prog string
	Args []string
	Text string
}

func (e *FatalDiagError) Error() string {
	return fmt.Sprintf("%s %s failed: %s", e.Prog, strings.Join(e.Args, " "), e.Text)
}

// Result reports what executing one item did.
type Result struct {
	// Ran is true when the item caused a real process execution.
	Ran bool
	// ExitCode is the exit status of that execution; meaningful only when
	// Ran is set.
	ExitCode int
}

// Dispatcher executes work items. It carries no state across items beyond
// the diagnostics it reports.
type Dispatcher struct {
	Sink     CaptureSink
	Cfg      config.Config
	Reporter diag.Reporter
	Runner   subproc.Runner
}

// Execute performs the terminal action for one item. orig names the original
// driver invocation for diagnostics. A *FatalDiagError return means no later
// item in the same batch may be dispatched.
func (d *Dispatcher) Execute(ctx context.Context, item classify.Item, origProg string, origArgs []string) (Result, error) {
	switch item.Kind {
	case classify.KindError:
		return Result{}, &FatalDiagError{Prog: origProg, Args: origArgs, Text: item.Text}

	case classify.KindWarning:
		d.Reporter.Report(diag.SevWarning, origProg, item.Text)
		return Result{}, nil

	case classify.KindCanonical:
		if err := d.Sink.Capture(ctx, item.Cmd); err != nil {
			return Result{}, fmt.Errorf("capture failed: %w", err)
		}
		return Result{}, nil

	case classify.KindDriver:
		if d.Cfg.Integration.SkipDriverCommands && d.Cfg.Integration.Mode != config.ModeCompDB {
			d.Reporter.Report(diag.SevInfo, origProg, "skipping seemingly uninteresting driver command")
			return Result{}, nil
		}
		code, err := d.Runner.RunAndWait(ctx, item.Cmd.Prog(), item.Cmd.Args())
		if err != nil {
			return Result{}, err
		}
		return Result{Ran: true, ExitCode: code}, nil
	}
	panic(fmt.Sprintf("unknown work item kind %d", item.Kind))
}
