package classify

import (
	"context"
	"fmt"

	"ccwrap/internal/command"
	"ccwrap/internal/config"
	"ccwrap/internal/subproc"
)

// DryRunCommand builds the verbose re-invocation of the driver: explain,
// don't execute. prog is the classification binary (clang or clang++), args
// the original driver arguments.
func DryRunCommand(prog string, args []string) *command.Command {
	cmd := command.New(command.QuoteShell, prog, args, true)
	return cmd.Prepend("-###").Append(
		// cross-driver module systems are not supported; turning them off
		// makes -fmodules invocations expand like plain ones
		"-fno-cxx-modules",
		// ...and this silences the unused-argument warning that produces
		"-Qunused-arguments",
		// -faddrsig is a target default that reorders the emitted arguments
		"-fno-addrsig",
		// embedded bitcode spawns extra sub-commands we would misclassify
		"-fembed-bitcode=off",
	)
}

// Classify runs the dry-run expansion of the invocation and classifies its
// combined output incrementally. The returned items preserve output line
// order. stream may be nil, in which case subproc.StreamCombined is used.
func Classify(ctx context.Context, prog string, args []string, cfg config.Config, stream subproc.Streamer) ([]Item, error) {
	if stream == nil {
		stream = subproc.StreamCombined
	}
	dryRun := DryRunCommand(prog, args)

	var items []Item
	var scanErr error
	err := stream(ctx, dryRun.RunnableString(), func(line string) {
		if scanErr != nil {
			return
		}
		item, ok, err := ScanLine(line, cfg.Classify.BenignPatterns)
		if err != nil {
			scanErr = err
			return
		}
		if ok {
			items = append(items, item)
		}
	})
	if scanErr != nil {
		return nil, scanErr
	}
	if err != nil {
		return nil, fmt.Errorf("dry-run expansion failed: %w", err)
	}
	return items, nil
}
