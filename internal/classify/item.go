// Package classify normalizes one compiler driver invocation into an ordered
// list of work items. The driver is re-invoked in "explain, don't execute"
// mode and its combined output is classified line by line: fully expanded
// sub-commands, driver errors, driver warnings, noise.
package classify

import "ccwrap/internal/command"

// Kind identifies the work item variant. The set is closed: the dispatcher
// switches exhaustively over it and panics on anything else.
type Kind uint8

const (
	// KindCanonical is a fully expanded sub-invocation ready for capture.
	KindCanonical Kind = iota
	// KindDriver is the original, unexpanded invocation, to run as-is.
	KindDriver
	// KindError is an unrecoverable error line from the re-invocation.
	KindError
	// KindWarning is a non-fatal warning line.
	KindWarning
)

func (k Kind) String() string {
	switch k {
	case KindCanonical:
		return "canonical"
	case KindDriver:
		return "driver"
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	}
	return "unknown"
}

// Item is one unit of work extracted from the verbose driver output.
// Cmd is set for KindCanonical and KindDriver, Text for KindError and
// KindWarning.
type Item struct {
	Kind Kind
	Cmd  *command.Command
	Text string
}

// CanonicalItem wraps a fully expanded sub-command.
func CanonicalItem(cmd *command.Command) Item {
	return Item{Kind: KindCanonical, Cmd: cmd}
}

// DriverItem wraps the unexpanded driver invocation.
func DriverItem(cmd *command.Command) Item {
	return Item{Kind: KindDriver, Cmd: cmd}
}

// ErrorItem wraps a fatal diagnostic line.
func ErrorItem(text string) Item {
	return Item{Kind: KindError, Text: text}
}

// WarningItem wraps a non-fatal diagnostic line.
func WarningItem(text string) Item {
	return Item{Kind: KindWarning, Text: text}
}
