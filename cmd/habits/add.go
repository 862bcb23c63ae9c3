// ABOUTME: CLI command for creating a habit.
// ABOUTME: Name as positional argument, schedule and description as flags.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/habits/internal/store"
)

var (
	addDesc string
	addDays string
)

var addCmd = &cobra.Command{
	Use:     "add <name>",
	Aliases: []string{"a"},
	Short:   "Add a habit",
	Long: `Add a habit with a weekly schedule.

Examples:
  habits add "Morning run" --days mon,wed,fri
  habits add Meditate --days daily --desc "10 minutes before breakfast"
  habits add "Weekly review" --days sun`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		schedule, err := parseDays(addDays)
		if err != nil {
			return fmt.Errorf("invalid --days: %w", err)
		}

		h, err := habitStore.Create(cmd.Context(), store.Draft{
			Name:        name,
			Description: addDesc,
			Schedule:    schedule,
		})
		if err != nil {
			return fmt.Errorf("failed to create habit: %w", err)
		}

		color.Green("✓ Added %s", h.Name)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(shortID(h.ID)),
			h.Schedule)

		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDesc, "desc", "", "habit description")
	addCmd.Flags().StringVar(&addDays, "days", "daily", "due days, e.g. mon,wed,fri or daily")
	rootCmd.AddCommand(addCmd)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
