// ABOUTME: CLI command for toggling the pinned flag on a habit.
// ABOUTME: Pinned habits sort to the top of list output.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/habits/internal/models"
)

var pinCmd = &cobra.Command{
	Use:   "pin <id>",
	Short: "Toggle a habit's pin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := habitStore.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		h, err := habitStore.TogglePin(cmd.Context(), id)
		if err != nil {
			if models.IsTransient(err) {
				return fmt.Errorf("couldn't save, try again: %w", err)
			}
			return fmt.Errorf("failed to toggle pin: %w", err)
		}

		if h.Pinned {
			color.Green("✓ Pinned %s", h.Name)
		} else {
			color.Yellow("✗ Unpinned %s", h.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pinCmd)
}
