// ABOUTME: Root Cobra command for habits CLI.
// ABOUTME: Wires config, cache, remote client and store via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/habits/internal/cache"
	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/remote"
	"github.com/harperreed/habits/internal/store"
)

var (
	cfg        *config.Config
	habitCache *cache.Cache
	habitStore *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "habits",
	Short: "Habit tracker with streaks and scheduled days",
	Long: `Habits is a CLI tool for tracking recurring habits on a weekly schedule.

Each habit names the weekdays it is due. Only scheduled days count against
a streak: skipping a day the habit was never due on does not break it.

QUICK START:

  $ habits add "Morning run" --days mon,wed,fri
  $ habits done morning                 # Toggle completion for today
  $ habits done morning 2026-08-30      # ...or for a specific date
  $ habits note morning 2026-08-30 "5k, felt great"
  $ habits stats morning                # Streaks and completion rate
  $ habits list                         # All habits, pinned first

OFFLINE READS:

  The remote API is the source of truth. When it is unreachable, reads fall
  back to the last cached snapshot and are marked as possibly stale. Writes
  are never queued; a failed write must be retried by you.

BACKUP:

  $ habits backup push     # Upload the collection to Charm Cloud
  $ habits backup pull     # Restore the collection document

MCP INTEGRATION:

  Run 'habits mcp' to start the Model Context Protocol server for use with
  MCP-compatible AI assistants:

  {
    "mcpServers": {
      "habits": { "command": "habits", "args": ["mcp"] }
    }
  }`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store wiring for commands that don't touch it
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		habitCache, err = cache.Open(cfg.CacheDir())
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}

		client := remote.NewClient(cfg.GetAPIURL(), cfg.GetRequestTimeout(), remote.DefaultPolicy())
		habitStore = store.New(client, habitCache)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if habitCache != nil {
			return habitCache.Close()
		}
		return nil
	},
}
