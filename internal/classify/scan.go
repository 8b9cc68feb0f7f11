package classify

import (
	"errors"
	"regexp"
	"strings"

	"ccwrap/internal/command"
)

// ErrEmptySubcommand means a line that looked like an expanded sub-command
// parsed to zero tokens. The driver never legitimately prints that; treat it
// as a fatal internal inconsistency rather than guessing.
var ErrEmptySubcommand = errors.New("expanded sub-command parsed to zero tokens")

// subcmdPrefix marks lines printed by `clang -###` for each sub-invocation:
// one leading space, then the quoted program path.
const subcmdPrefix = ` "`

// diagRe matches driver diagnostic lines such as
// `clang-11: error: no such file or directory`.
var diagRe = regexp.MustCompile(`clang(\+\+)?(-[0-9.]+)?: (error|warning): `)

// ScanLine classifies one line of the combined dry-run output. It returns
// ok=false for noise and for diagnostics matching a benign substring from
// the denylist. The only error is ErrEmptySubcommand.
func ScanLine(line string, benign []string) (Item, bool, error) {
	if strings.HasPrefix(line, subcmdPrefix) {
		cmd, err := parseSubcommand(line)
		if err != nil {
			return Item{}, false, err
		}
		return CanonicalItem(cmd), true, nil
	}
	m := diagRe.FindStringSubmatch(line)
	if m == nil {
		// ни маркера подкоманды, ни диагностики — шум
		return Item{}, false, nil
	}
	for _, pat := range benign {
		if pat != "" && strings.Contains(line, pat) {
			return Item{}, false, nil
		}
	}
	if m[3] == "warning" {
		return WarningItem(line), true, nil
	}
	return ErrorItem(line), true, nil
}

// parseSubcommand recovers program and arguments from a dry-run line. The
// driver quotes every token, so argument boundaries are exactly the literal
// `" "` separators; splitting on spaces alone would break paths with spaces.
func parseSubcommand(line string) (*command.Command, error) {
	body := strings.TrimPrefix(line, " ")
	body = strings.TrimPrefix(body, `"`)
	body = strings.TrimSuffix(body, `"`)
	tokens := strings.Split(body, `" "`)
	if len(tokens) == 0 || tokens[0] == "" {
		return nil, ErrEmptySubcommand
	}
	return command.New(command.QuoteShell, tokens[0], tokens[1:], false), nil
}

// ScanLines classifies a captured output stream. Pure: the result is a
// deterministic function of the input lines, in their original order.
func ScanLines(lines []string, benign []string) ([]Item, error) {
	var items []Item
	for _, line := range lines {
		item, ok, err := ScanLine(line, benign)
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, item)
		}
	}
	return items, nil
}
