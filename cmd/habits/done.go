// ABOUTME: CLI command for toggling habit completion on a date.
// ABOUTME: Defaults to today; the store makes the toggle retry-safe.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/habits/internal/models"
)

var doneCmd = &cobra.Command{
	Use:     "done <id> [date]",
	Aliases: []string{"d", "toggle"},
	Short:   "Toggle completion for a date",
	Long: `Mark a habit done for a date, or undo it if already marked.

The date defaults to today. Removing a completion keeps any note or photo
attached to that date; they reappear if the date is completed again.

Examples:
  habits done morning
  habits done morning 2026-08-30`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := models.FormatDate(time.Now())
		if len(args) == 2 {
			if _, err := models.ParseDate(args[1]); err != nil {
				return err
			}
			date = args[1]
		}

		id, err := habitStore.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		h, done, err := habitStore.ToggleCompletion(cmd.Context(), id, date)
		if err != nil {
			if models.IsTransient(err) {
				return fmt.Errorf("couldn't save, try again: %w", err)
			}
			return fmt.Errorf("failed to toggle completion: %w", err)
		}

		if done {
			color.Green("✓ %s done on %s", h.Name, date)
		} else {
			color.Yellow("✗ %s no longer done on %s", h.Name, date)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
