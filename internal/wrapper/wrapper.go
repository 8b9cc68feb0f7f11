// Package wrapper is the entry point of a wrapped compiler invocation. It
// selects the classification binary, pre-stages placeholder files, turns the
// invocation into work items, dispatches them in order and falls back to
// running the original command when nothing else was produced.
package wrapper

import (
	"context"
	"errors"
	"strings"

	"ccwrap/internal/classify"
	"ccwrap/internal/command"
	"ccwrap/internal/config"
	"ccwrap/internal/diag"
	"ccwrap/internal/dispatch"
	"ccwrap/internal/observ"
	"ccwrap/internal/stage"
	"ccwrap/internal/subproc"
)

// Invocation is the caller's original compiler invocation, untouched.
type Invocation struct {
	Prog string
	Args []string
}

// Deps are the external collaborators of one wrapped invocation.
type Deps struct {
	Sink     dispatch.CaptureSink
	Runner   subproc.Runner
	Stream   subproc.Streamer
	Reporter diag.Reporter
	// Timer is optional; phases are recorded when it is set.
	Timer *observ.Timer
}

// ClassifyBinary picks the toolchain binary used for the dry-run expansion:
// the C++ driver when the wrapped program looks like one, the C driver
// otherwise.
func ClassifyBinary(prog string, tc config.Toolchain) string {
	if strings.HasSuffix(prog, "++") {
		return tc.Clangxx
	}
	return tc.Clang
}

// Run reproduces the effect the original invocation would have had and
// returns the exit status the wrapper process should exit with.
func Run(ctx context.Context, inv Invocation, cfg config.Config, deps Deps) (int, error) {
	timer := deps.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}

	// Best-effort pre-pass: a failure to stage placeholders is the
	// compiler's problem to report, not ours to die on.
	idx := timer.Begin("stage")
	if err := stage.Stage(inv.Args, cfg); err != nil {
		deps.Reporter.Report(diag.SevWarning, inv.Prog, err.Error())
	}
	timer.End(idx, "")

	orig := command.New(command.QuoteShell, inv.Prog, inv.Args, true)

	var items []classify.Item
	if !orig.MayProduceCapturableOutput() {
		// Pure link or archive step: nothing to expand, the driver command
		// itself is the only work item.
		items = []classify.Item{classify.DriverItem(orig)}
	} else {
		idx = timer.Begin("classify")
		var err error
		items, err = classify.Classify(ctx, ClassifyBinary(inv.Prog, cfg.Toolchain), inv.Args, cfg, deps.Stream)
		timer.End(idx, "")
		if err != nil {
			if errors.Is(err, classify.ErrEmptySubcommand) {
				return 1, &dispatch.FatalDiagError{Prog: inv.Prog, Args: inv.Args, Text: err.Error()}
			}
			return 1, err
		}
	}

	realProg := inv.Prog
	forcedRun := false
	if cfg.Toolchain.Override != "" {
		// Outputs must be binary-compatible with a specific vendor
		// compiler: classify and capture against the default toolchain,
		// but let the override binary do the real work afterward.
		realProg = cfg.Toolchain.Override
		forcedRun = true
	}

	d := &dispatch.Dispatcher{
		Sink:     deps.Sink,
		Cfg:      cfg,
		Reporter: deps.Reporter,
		Runner:   deps.Runner,
	}

	exit := 0
	ranAny := false
	idx = timer.Begin("dispatch")
	for _, item := range items {
		if item.Kind == classify.KindDriver && forcedRun {
			// переопределённый бинарь и так выполнит оригинальную команду
			deps.Reporter.Report(diag.SevInfo, inv.Prog, "driver command deferred to toolchain override")
			continue
		}
		res, err := d.Execute(ctx, item, inv.Prog, inv.Args)
		if err != nil {
			timer.End(idx, "aborted")
			return 1, err
		}
		if res.Ran {
			ranAny = true
			exit = res.ExitCode
		}
	}
	timer.End(idx, "")

	if len(items) == 0 || forcedRun {
		idx = timer.Begin("exec")
		code, err := deps.Runner.RunAndWait(ctx, realProg, inv.Args)
		timer.End(idx, "")
		if err != nil {
			return 1, err
		}
		return code, nil
	}
	if ranAny {
		return exit, nil
	}
	return 0, nil
}
