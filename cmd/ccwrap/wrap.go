package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ccwrap/internal/capture"
	"ccwrap/internal/config"
	"ccwrap/internal/diag"
	"ccwrap/internal/observ"
	"ccwrap/internal/subproc"
	"ccwrap/internal/wrapper"
)

var wrapCmd = &cobra.Command{
	Use:   "wrap <compiler> [compiler-args...]",
	Short: "Run one wrapped compiler invocation",
	Long:  `Expand the given compiler invocation with the driver's dry-run mode, capture every real sub-compilation, then reproduce the effect the invocation would have had. The wrapper's exit status matches the compiler's whenever the original command ultimately runs`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWrap,
}

func init() {
	wrapCmd.Flags().Bool("timings", false, "print per-phase timing information")
	// всё после первого позиционного аргумента принадлежит компилятору
	wrapCmd.Flags().SetInterspersed(false)
}

func runWrap(cmd *cobra.Command, args []string) error {
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	store, err := capture.Open("ccwrap")
	if err != nil {
		return fmt.Errorf("failed to open capture store: %w", err)
	}

	var reporter diag.Reporter = diag.WriterReporter{W: os.Stderr, Verbose: verbose}
	if quiet {
		reporter = diag.NopReporter{}
	}

	timer := observ.NewTimer()
	inv := wrapper.Invocation{Prog: args[0], Args: args[1:]}
	deps := wrapper.Deps{
		Sink:     store,
		Runner:   subproc.ExecRunner{},
		Stream:   subproc.StreamCombined,
		Reporter: reporter,
		Timer:    timer,
	}

	code, runErr := wrapper.Run(cmd.Context(), inv, cfg, deps)
	if timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "ccwrap: %v\n", runErr)
	}
	if code != 0 || runErr != nil {
		if code == 0 {
			code = 1
		}
		os.Exit(code)
	}
	return nil
}
