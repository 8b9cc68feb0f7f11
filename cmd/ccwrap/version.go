package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ccwrap/internal/version"
)

var (
	versionShowHash bool
	versionShowDate bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show ccwrap build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := strings.TrimSpace(version.Version)
		if v == "" {
			v = "dev"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ccwrap %s\n", v)
		if versionShowHash {
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", valueOrUnknown(version.GitCommit))
		}
		if versionShowDate {
			fmt.Fprintf(cmd.OutOrStdout(), "built:  %s\n", valueOrUnknown(version.BuildDate))
		}
		return nil
	},
}

func valueOrUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return "unknown"
	}
	return v
}
