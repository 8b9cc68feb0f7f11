// Package command holds the opaque value describing one compiler command
// line: program, ordered arguments and the quoting style used when the
// command is rendered back into a runnable string.
package command

import (
	"strings"
)

// QuoteStyle selects how RunnableString escapes arguments.
type QuoteStyle uint8

const (
	// QuoteNone renders arguments verbatim, space separated.
	QuoteNone QuoteStyle = iota
	// QuoteShell renders arguments single-quoted for POSIX sh.
	QuoteShell
)

// Command is an immutable compiler command line. Mutating operations return
// a modified copy; the receiver is never changed.
type Command struct {
	prog     string
	args     []string
	style    QuoteStyle
	isDriver bool
}

// New builds a command value. The args slice is copied.
func New(style QuoteStyle, prog string, args []string, isDriver bool) *Command {
	return &Command{
		prog:     prog,
		args:     append([]string(nil), args...),
		style:    style,
		isDriver: isDriver,
	}
}

func (c *Command) Prog() string { return c.prog }

// Args returns a copy of the argument list.
func (c *Command) Args() []string {
	return append([]string(nil), c.args...)
}

func (c *Command) IsDriver() bool { return c.isDriver }

// Prepend returns a copy with flag inserted before all other arguments.
func (c *Command) Prepend(flag string) *Command {
	out := *c
	out.args = append([]string{flag}, c.args...)
	return &out
}

// Append returns a copy with flags added after all other arguments.
func (c *Command) Append(flags ...string) *Command {
	out := *c
	out.args = append(append([]string(nil), c.args...), flags...)
	return &out
}

// WithProg returns a copy running a different program with the same
// arguments.
func (c *Command) WithProg(prog string) *Command {
	out := *c
	out.prog = prog
	return &out
}

// RunnableString renders the command as a single string escaped per the
// quoting style.
func (c *Command) RunnableString() string {
	var sb strings.Builder
	sb.WriteString(c.quote(c.prog))
	for _, a := range c.args {
		sb.WriteByte(' ')
		sb.WriteString(c.quote(a))
	}
	return sb.String()
}

func (c *Command) quote(s string) string {
	if c.style == QuoteNone {
		return s
	}
	return shellQuote(s)
}

// shellQuote single-quotes s for /bin/sh; embedded single quotes are closed,
// escaped and reopened.
func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"'\\$`&|;<>()*?[]#~%") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// sourceExts are file extensions the driver treats as compilable input.
var sourceExts = map[string]bool{
	".c": true, ".cc": true, ".cpp": true, ".cxx": true, ".c++": true,
	".m": true, ".mm": true, ".i": true, ".ii": true, ".mi": true,
	".h": true, ".hh": true, ".hpp": true, ".pch": true,
}

// MayProduceCapturableOutput reports whether the invocation can plausibly
// compile source code. Pure link or archive steps return false; they expand
// to no capturable sub-command and classifying them is wasted work.
func (c *Command) MayProduceCapturableOutput() bool {
	for i, a := range c.args {
		if a == "-x" && i+1 < len(c.args) {
			// явный язык — считаем компиляцией
			return true
		}
		if strings.HasPrefix(a, "-") {
			continue
		}
		dot := strings.LastIndexByte(a, '.')
		if dot < 0 {
			continue
		}
		if sourceExts[strings.ToLower(a[dot:])] {
			return true
		}
	}
	return false
}
