package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"schedulectl/pkg/config"
	"schedulectl/pkg/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage schedulectl configuration",
	Long:  "View or edit your local configuration settings (like the saved group and the timetable website).",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		setSubject, _ := cmd.Flags().GetString("set-subject")
		setURL, _ := cmd.Flags().GetString("set-url")

		if setSubject == "" && setURL == "" {
			// If no flags are given, launch the interactive TUI flow
			return tui.RunConfigTUI(cmd.Context(), logger)
		}

		if setSubject != "" {
			cfg.SubjectID = setSubject
		}
		if setURL != "" {
			cfg.BaseURL = setURL
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		if setSubject != "" {
			fmt.Printf("✅ Default schedule saved as: %s\n", cfg.SubjectID)
		}
		if setURL != "" {
			fmt.Printf("✅ Timetable website saved as: %s\n", cfg.BaseURLOrDefault())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringP("set-subject", "s", "", "Save the group or teacher shown by default")
	configCmd.Flags().String("set-url", "", "Set the address of the timetable website")
}
