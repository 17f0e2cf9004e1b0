package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"moodtrack/internal/adapter/boot"
)

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Manage the login hook that re-arms reminders",
}

func init() {
	autostartCmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Run \"moodtrack rearm\" at login",
			Args:  cobra.NoArgs,
			RunE:  func(*cobra.Command, []string) error { return setAutostart(true) },
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Remove the login hook",
			Args:  cobra.NoArgs,
			RunE:  func(*cobra.Command, []string) error { return setAutostart(false) },
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether the login hook is installed",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				h, err := boot.NewHook(configPath, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "enabled=%v exec=%q\n", h.Enabled(), h.Exec())
				return nil
			},
		},
	)
}

func setAutostart(enable bool) error {
	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	h, err := boot.NewHook(configPath, log)
	if err != nil {
		return err
	}
	return h.Set(enable)
}
