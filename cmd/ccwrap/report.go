package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"ccwrap/internal/capture"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List captured compilation commands",
	Long:  `Show every sub-compilation recorded by previous wrapped invocations. With --json the output is shaped like a compilation database (compile_commands.json)`,
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Bool("json", false, "emit compile_commands.json-shaped output")
}

// compileCommand mirrors one compile_commands.json record.
type compileCommand struct {
	Directory string   `json:"directory"`
	Arguments []string `json:"arguments"`
	File      string   `json:"file,omitempty"`
}

func runReport(cmd *cobra.Command, args []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	store, err := capture.Open("ccwrap")
	if err != nil {
		return fmt.Errorf("failed to open capture store: %w", err)
	}
	entries, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	if asJSON {
		return renderReportJSON(entries)
	}
	renderReportTable(entries, colorEnabled(colorMode))
	return nil
}

func colorEnabled(mode string) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(os.Stdout)
}

func renderReportJSON(entries []capture.Entry) error {
	records := make([]compileCommand, 0, len(entries))
	for _, e := range entries {
		records = append(records, compileCommand{
			Directory: e.Dir,
			Arguments: append([]string{e.Prog}, e.Args...),
			File:      sourceOf(e.Args),
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// sourceOf finds the primary input of a cc1-style argument list.
func sourceOf(args []string) string {
	for i := len(args) - 1; i >= 0; i-- {
		a := args[i]
		if strings.HasPrefix(a, "-") {
			continue
		}
		if strings.ContainsRune(a, '.') {
			return a
		}
	}
	return ""
}

func renderReportTable(entries []capture.Entry, colored bool) {
	if len(entries) == 0 {
		fmt.Println("no captured commands (run a build through `ccwrap wrap` first)")
		return
	}
	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	progStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	argsStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	if !colored {
		plain := lipgloss.NewStyle()
		timeStyle, progStyle, argsStyle = plain, plain, plain
	}

	for _, e := range entries {
		when := time.Unix(e.Unix, 0).Format("2006-01-02 15:04:05")
		line := strings.Join(e.Args, " ")
		fmt.Printf("%s  %s  %s\n",
			timeStyle.Render(when),
			progStyle.Render(truncateCell(e.Prog, 32)),
			argsStyle.Render(truncateCell(line, 96)),
		)
	}
	fmt.Printf("%d captured command(s)\n", len(entries))
}

func truncateCell(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
