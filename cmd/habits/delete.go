// ABOUTME: CLI command for deleting a habit.
// ABOUTME: Supports deletion by full ID or ID prefix.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a habit",
	Long: `Delete a habit by its ID or ID prefix.

CAUTION:

  This permanently deletes the habit with all its completions, notes, and
  photo references. There is no undo. If the prefix matches multiple
  habits, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := habitStore.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		// Fetch first so the confirmation names what was deleted
		h, _, err := habitStore.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("habit not found: %s", args[0])
		}

		if err := habitStore.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete habit: %w", err)
		}

		color.Yellow("✗ Deleted %s", h.Name)
		fmt.Printf("  %s %d completions removed\n",
			color.New(color.Faint).Sprint(shortID(h.ID)),
			len(h.CompletedDates))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
