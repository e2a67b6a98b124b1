package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"schedulectl/pkg/exporter"
	"schedulectl/pkg/schedule"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Directly export a schedule to an ICS file",
	Long:  `Export the schedule of a group or teacher to an ICS file without using the interactive TUI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		subject, err := resolveSubject(cmd, cfg)
		if err != nil {
			return err
		}
		calls, err := cfg.CallTable()
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if !strings.HasSuffix(output, ".ics") {
			output += ".ics"
		}

		ctx := cmd.Context()
		client := newClient(ctx, cfg)
		var s schedule.Schedule

		_ = spinner.New().
			Title(fmt.Sprintf("Exporting schedule for %s to %s...", subject, output)).
			Action(func() {
				s, err = client.FetchSchedule(ctx, subject)
			}).
			Run()

		if err != nil {
			return fmt.Errorf("failed to fetch schedule: %w", err)
		}

		if len(s.Days) == 0 {
			return fmt.Errorf("no days found for %s", subject)
		}

		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		err = exporter.GenerateICS(s, calls, time.Local, file)
		if err != nil {
			return fmt.Errorf("failed to generate ICS: %w", err)
		}

		fmt.Printf("Successfully exported %d days to %s\n", len(s.Days), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("subject", "s", "", "Group or teacher to export (defaults to the saved one)")
	exportCmd.Flags().StringP("output", "o", "schedule.ics", "Output file path")
}
