// ABOUTME: CLI command for editing habit name, description, or schedule.
// ABOUTME: Sends a field patch; unmentioned fields are left untouched.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/store"
)

var (
	editName string
	editDesc string
	editDays string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a habit",
	Long: `Edit a habit's name, description, or schedule. Only the flags you pass
change; completions, notes, photos, and the pin flag are preserved.

Examples:
  habits edit morning --name "Morning run 5k"
  habits edit morning --days mon,tue,wed,thu,fri`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch store.Patch
		if cmd.Flags().Changed("name") {
			patch.Name = &editName
		}
		if cmd.Flags().Changed("desc") {
			patch.Description = &editDesc
		}
		if cmd.Flags().Changed("days") {
			schedule, err := parseDays(editDays)
			if err != nil {
				return fmt.Errorf("invalid --days: %w", err)
			}
			patch.Schedule = &schedule
		}
		if patch.Name == nil && patch.Description == nil && patch.Schedule == nil {
			return fmt.Errorf("nothing to change: pass --name, --desc, or --days")
		}

		id, err := habitStore.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		h, err := habitStore.Update(cmd.Context(), id, patch)
		if err != nil {
			if models.IsTransient(err) {
				return fmt.Errorf("couldn't save, try again: %w", err)
			}
			return fmt.Errorf("failed to update habit: %w", err)
		}

		color.Green("✓ Updated %s", h.Name)
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint(shortID(h.ID)), h.Schedule)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editName, "name", "", "new name")
	editCmd.Flags().StringVar(&editDesc, "desc", "", "new description")
	editCmd.Flags().StringVar(&editDays, "days", "", "new due days, e.g. mon,wed,fri")
	rootCmd.AddCommand(editCmd)
}
