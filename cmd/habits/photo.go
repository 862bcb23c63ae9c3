// ABOUTME: CLI command for attaching a photo reference to a habit date.
// ABOUTME: The reference is opaque; image storage is someone else's job.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/habits/internal/models"
)

var photoCmd = &cobra.Command{
	Use:   "photo <id> <date> <ref>",
	Short: "Attach a photo reference to a date",
	Long: `Attach an opaque photo reference (URL or file path) to a habit for a
specific date. The tool stores the reference only; it never reads the image.

Example:
  habits photo morning 2026-08-30 ~/Pictures/run.jpg`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := args[1]
		if _, err := models.ParseDate(date); err != nil {
			return err
		}

		id, err := habitStore.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		h, err := habitStore.SetPhoto(cmd.Context(), id, date, args[2])
		if err != nil {
			if models.IsTransient(err) {
				return fmt.Errorf("couldn't save, try again: %w", err)
			}
			return fmt.Errorf("failed to set photo: %w", err)
		}

		color.Green("✓ Photo attached to %s on %s", date, h.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(photoCmd)
}
