package cmd

import (
	"schedulectl/pkg/tui"

	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the interactive TUI",
	Long:  `Launch the Text User Interface to pick a group or teacher, browse its days and export schedules interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.RunTUI(cmd.Context(), logger)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
