// ABOUTME: CLI command for showing one habit in detail.
// ABOUTME: Prints schedule, recent completions, and note/photo markers.
package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var showRecent int

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Aliases: []string{"s"},
	Short:   "Show a habit",
	Long: `Show one habit in detail: schedule, pin state, and recent completions
with markers for attached notes (n) and photos (p).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := habitStore.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		h, stale, err := habitStore.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get habit: %w", err)
		}
		if stale {
			color.Yellow("! offline: showing last cached data, which may be stale")
		}

		faint := color.New(color.Faint)
		title := h.Name
		if h.Pinned {
			title += " *"
		}
		fmt.Println(color.New(color.Bold).Sprint(title))
		if h.Description != "" {
			fmt.Println(h.Description)
		}
		fmt.Printf("%s %s\n", faint.Sprint("id      "), h.ID)
		if h.RemoteID != "" && h.RemoteID != h.ID {
			fmt.Printf("%s %s\n", faint.Sprint("remote  "), h.RemoteID)
		}
		fmt.Printf("%s %s\n", faint.Sprint("schedule"), h.Schedule)
		if !h.CreatedAt.IsZero() {
			fmt.Printf("%s %s\n", faint.Sprint("created "), h.CreatedAt.Format("2006-01-02"))
		}

		if len(h.CompletedDates) == 0 {
			fmt.Println("\nNo completions yet.")
			return nil
		}

		dates := append([]string(nil), h.CompletedDates...)
		sort.Sort(sort.Reverse(sort.StringSlice(dates)))
		if len(dates) > showRecent {
			dates = dates[:showRecent]
		}

		fmt.Printf("\nRecent completions (%d total):\n", len(h.CompletedDates))
		for _, d := range dates {
			markers := ""
			if _, ok := h.Notes[d]; ok {
				markers += " n"
			}
			if _, ok := h.Photos[d]; ok {
				markers += " p"
			}
			fmt.Printf("  %s %s%s\n", color.GreenString("✓"), d, faint.Sprint(markers))
			if note, ok := h.Notes[d]; ok && note != "" {
				fmt.Printf("      %s\n", faint.Sprint(truncate(note, 60)))
			}
		}

		return nil
	},
}

func init() {
	showCmd.Flags().IntVarP(&showRecent, "recent", "n", 14, "how many recent completions to show")
	rootCmd.AddCommand(showCmd)
}
