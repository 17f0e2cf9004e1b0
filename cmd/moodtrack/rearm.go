package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"moodtrack/internal/domain"
)

var rearmOnce bool

func init() {
	rearmCmd.Flags().BoolVar(&rearmOnce, "once", false, "print the schedule that would be armed and exit")
}

var rearmCmd = &cobra.Command{
	Use:   "rearm",
	Short: "Re-arm stored reminders and deliver them without the HTTP API",
	Long: `Re-apply the stored reminder and ingest preferences. Registered alarms do not
survive a reboot; the login hook installed by "autostart enable" runs this command.

Examples:
  # Run headless, delivering reminders until interrupted
  moodtrack rearm --config /etc/moodtrack.yaml

  # Show the schedule that would be armed
  moodtrack rearm --once`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if rearmOnce {
			return printSchedule(cmd.Context())
		}
		return runDevice(cmd.Context(), false)
	},
}

func printSchedule(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	d, err := newDevice(cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	s, err := d.settings.Get(ctx)
	if err != nil {
		return err
	}
	for _, c := range domain.Categories {
		times, ok := s.Upcoming[c]
		if !ok {
			fmt.Fprintf(os.Stdout, "%-10s disabled\n", c)
			continue
		}
		next := make([]string, len(times))
		for i, t := range times {
			next[i] = t.Format(time.RFC3339)
		}
		exact := c.RequestsExact() && s.Permissions.ExactAlarms
		fmt.Fprintf(os.Stdout, "%-10s exact=%-5v next %s\n", c, exact, strings.Join(next, ", "))
	}
	fmt.Fprintf(os.Stdout, "%-10s enabled=%v\n", "ingest", s.Preferences.IngestEnabled)
	return nil
}
