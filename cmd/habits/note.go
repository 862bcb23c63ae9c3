// ABOUTME: CLI command for attaching a note to a habit date.
// ABOUTME: Notes merge into the record without touching other fields.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/habits/internal/models"
)

var noteCmd = &cobra.Command{
	Use:   "note <id> <date> <text...>",
	Short: "Attach a note to a date",
	Long: `Attach a free-text note to a habit for a specific date.

Example:
  habits note morning 2026-08-30 "5k along the river, felt great"`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := args[1]
		if _, err := models.ParseDate(date); err != nil {
			return err
		}
		text := strings.Join(args[2:], " ")

		id, err := habitStore.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		h, err := habitStore.SetNote(cmd.Context(), id, date, text)
		if err != nil {
			if models.IsTransient(err) {
				return fmt.Errorf("couldn't save, try again: %w", err)
			}
			return fmt.Errorf("failed to set note: %w", err)
		}

		color.Green("✓ Noted %s on %s", date, h.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)
}
