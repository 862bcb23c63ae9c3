// ABOUTME: CLI commands for backing up the habit collection to Charm Cloud.
// ABOUTME: Push/pull the same document the local cache stores; not a write outbox.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/habits/internal/cloud"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up habits to Charm Cloud",
	Long: `Back up the habit collection document to Charm Cloud KV, or restore it.

This is an explicit, user-invoked copy of the locally cached snapshot. It is
not a sync queue: writes made while offline are never replayed.`,
}

var backupPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the cached collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := habitCache.Get()
		if err != nil {
			return fmt.Errorf("nothing to push: %w", err)
		}

		cc, err := cloud.Open()
		if err != nil {
			return fmt.Errorf("failed to open charm kv: %w", err)
		}
		defer func() { _ = cc.Close() }()

		if err := cc.Push(snap); err != nil {
			return fmt.Errorf("failed to push backup: %w", err)
		}

		color.Green("✓ Pushed %d habits (snapshot from %s)",
			len(snap.Habits), snap.FetchedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var backupPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Restore the collection into the local cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := cloud.Open()
		if err != nil {
			return fmt.Errorf("failed to open charm kv: %w", err)
		}
		defer func() { _ = cc.Close() }()

		snap, err := cc.Pull()
		if err != nil {
			return fmt.Errorf("failed to pull backup: %w", err)
		}

		if err := habitCache.Put(snap); err != nil {
			return fmt.Errorf("failed to write cache: %w", err)
		}

		color.Green("✓ Restored %d habits (snapshot from %s)",
			len(snap.Habits), snap.FetchedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var backupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the linked Charm account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := cloud.Open()
		if err != nil {
			return fmt.Errorf("failed to open charm kv: %w", err)
		}
		defer func() { _ = cc.Close() }()

		id, err := cc.ID()
		if err != nil {
			return fmt.Errorf("not linked to a charm account: %w", err)
		}
		fmt.Printf("charm account %s\n", id)
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupPushCmd)
	backupCmd.AddCommand(backupPullCmd)
	backupCmd.AddCommand(backupStatusCmd)
	rootCmd.AddCommand(backupCmd)
}
