package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"schedulectl/pkg/schedule"
	"schedulectl/pkg/timetable"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.html|file.docx>",
	Short: "Extract a schedule from a saved timetable document",
	Long:  `Parse a downloaded HTML page or a DOCX document and print the schedule of one group or teacher as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open document: %w", err)
		}
		defer file.Close()

		locator := timetable.NewLocator()
		locator.Log = logger

		var s schedule.Schedule
		switch strings.ToLower(filepath.Ext(args[0])) {
		case ".docx":
			info, err := file.Stat()
			if err != nil {
				return err
			}
			s, err = locator.ParseDocx(file, info.Size(), subject)
			if err != nil {
				return err
			}
		case ".html", ".htm":
			s, err = locator.ParseHTML(file, subject)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported document type %q: expected .html or .docx", filepath.Ext(args[0]))
		}

		data, err := schedule.Marshal(s)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("subject", "s", "", "Group or teacher whose tables should be extracted")
	parseCmd.MarkFlagRequired("subject")
}
