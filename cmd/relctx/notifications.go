package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vd09-projects/relctx/internal/notify"
)

var notificationsLimit int

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List the notification history",
	Args:  cobra.NoArgs,
	RunE:  runNotifications,
}

func init() {
	notificationsCmd.Flags().IntVarP(&notificationsLimit, "limit", "n", 20, "Show at most this many of the newest notifications (0 for all)")
	rootCmd.AddCommand(notificationsCmd)
}

func runNotifications(cmd *cobra.Command, _ []string) error {
	e := envOf(cmd)
	path := e.historyPath()
	if path == "" {
		return fmt.Errorf("notification history is disabled")
	}
	entries, err := notify.ReadHistory(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if notificationsLimit > 0 && len(entries) > notificationsLimit {
		entries = entries[len(entries)-notificationsLimit:]
	}
	out := cmd.OutOrStdout()
	for _, h := range entries {
		fmt.Fprintf(out, "%s  %-11s %s  %s\n", h.CreatedAt.Local().Format("2006-01-02 15:04:05"), h.Type, h.ID, h.Content)
	}
	return nil
}
