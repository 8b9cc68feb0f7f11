package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ccwrap/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ccwrap",
	Short: "Compiler wrapper capturing real compilation commands",
	Long:  `ccwrap stands in for a compiler driver, expands each invocation with the driver's dry-run mode, records every real sub-compilation for analysis and keeps the build running as if nothing happened`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(wrapCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("verbose", false, "report skipped and deferred commands")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
