package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccwrap/internal/capture"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop the capture store",
	Long:  `Remove every recorded compilation command. Useful before a fresh capture run or after an entry format change`,
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	store, err := capture.Open("ccwrap")
	if err != nil {
		return fmt.Errorf("failed to open capture store: %w", err)
	}
	if err := store.DropAll(); err != nil {
		return fmt.Errorf("failed to drop capture store: %w", err)
	}
	fmt.Println("capture store dropped")
	return nil
}
