// Package diag collects diagnostics produced while a wrapped compiler
// invocation is normalized and dispatched. Unlike source-level tooling there
// are no spans here: every diagnostic is a line of compiler driver output
// plus the invocation it belongs to.
package diag

// Diagnostic is one reportable event from a wrapped invocation.
type Diagnostic struct {
	Severity Severity
	// Prog is the original driver program this diagnostic refers to.
	Prog string
	// Message is the raw diagnostic text, usually one line of driver output.
	Message string
}
