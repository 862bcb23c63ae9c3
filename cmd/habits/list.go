// ABOUTME: CLI command for listing habits.
// ABOUTME: Pinned habits sort first; stale cache reads are flagged.
package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/habits/internal/models"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List habits",
	Long: `List all habits, pinned first.

OUTPUT FORMAT:

  Each line shows: ID  PIN  NAME  SCHEDULE  TODAY

  The ID is an 8-character prefix you can use with every other command.
  SCHEDULE shows due weekdays Sunday..Saturday, dots for off days.
  TODAY is ✓ when the habit is due today and already completed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		habits, stale, err := habitStore.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list habits: %w", err)
		}
		if stale {
			color.Yellow("! offline: showing last cached data, which may be stale")
		}

		if len(habits) == 0 {
			fmt.Println("No habits yet. Create one with 'habits add'.")
			return nil
		}

		sort.SliceStable(habits, func(i, j int) bool {
			if habits[i].Pinned != habits[j].Pinned {
				return habits[i].Pinned
			}
			return habits[i].Name < habits[j].Name
		})

		now := time.Now()
		today := models.FormatDate(now)
		faint := color.New(color.Faint)
		for _, h := range habits {
			pin := " "
			if h.Pinned {
				pin = "*"
			}
			mark := ""
			if h.Schedule.Due(now.Weekday()) {
				if h.Completed(today) {
					mark = color.GreenString("✓")
				} else {
					mark = faint.Sprint("·")
				}
			}
			fmt.Printf("%s %s %-28s %s %s\n",
				faint.Sprint(shortID(h.ID)),
				pin,
				truncate(h.Name, 28),
				h.Schedule,
				mark)
		}

		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func init() {
	rootCmd.AddCommand(listCmd)
}
