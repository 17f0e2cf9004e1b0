package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moodtrack/internal/domain"
)

var ingestOnceCmd = &cobra.Command{
	Use:   "ingest-once",
	Short: "Run the location ingest job a single time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
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

		res := d.ingestJob.Run(cmd.Context())
		fmt.Fprintln(os.Stdout, res)
		if res != domain.JobSuccess {
			return fmt.Errorf("ingest finished with %s", res)
		}
		return nil
	},
}
