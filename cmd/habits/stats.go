// ABOUTME: CLI command for habit statistics and optional AI insights.
// ABOUTME: Prints streaks, completion rate, and total days for a window.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/habits/internal/insight"
	"github.com/harperreed/habits/internal/stats"
)

var (
	statsDays     int
	statsInsights bool
)

var statsCmd = &cobra.Command{
	Use:   "stats <id>",
	Short: "Show streaks and completion rate",
	Long: `Show derived statistics for a habit.

Only scheduled days count against a streak. A habit due today but not yet
completed is treated as pending: the current streak is measured up to the
most recent scheduled day before today.

The completion rate covers all time since the habit was created, or a
trailing window with --days.

Examples:
  habits stats morning
  habits stats morning --days 7
  habits stats morning --insights`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := habitStore.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		window := stats.AllTime
		if statsDays > 0 {
			window = stats.LastNDays(statsDays)
		}

		hs, err := habitStore.Stats(cmd.Context(), id, window)
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}
		if hs.Stale {
			color.Yellow("! offline: computed from last cached data, which may be stale")
		}

		fmt.Println(color.New(color.Bold).Sprint(hs.Habit.Name))
		fmt.Printf("  current streak   %d days\n", hs.Stats.CurrentStreak)
		fmt.Printf("  best streak      %d days\n", hs.Stats.BestStreak)
		fmt.Printf("  completion rate  %.0f%%\n", hs.Stats.CompletionRate)
		fmt.Printf("  total days       %d completed\n", hs.Stats.TotalDays)

		if statsInsights {
			client := insight.NewClient(cfg.GetOpenAIKey(), insightOptions()...)
			text := client.HabitInsights(cmd.Context(), insight.HabitSummary{
				Name:           hs.Habit.Name,
				Description:    hs.Habit.Description,
				CompletionRate: hs.Stats.CompletionRate,
				CurrentStreak:  hs.Stats.CurrentStreak,
			})
			fmt.Printf("\n%s\n%s\n", color.New(color.Bold).Sprint("AI Insights"), text)
		}

		return nil
	},
}

func insightOptions() []insight.ClientOption {
	var opts []insight.ClientOption
	if cfg.InsightModel != "" {
		opts = append(opts, insight.WithModel(cfg.InsightModel))
	}
	return opts
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 0, "trailing window in days (default: all time)")
	statsCmd.Flags().BoolVar(&statsInsights, "insights", false, "fetch AI-generated tips")
	rootCmd.AddCommand(statsCmd)
}
