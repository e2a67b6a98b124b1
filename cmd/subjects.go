package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"schedulectl/pkg/scraper"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "List the groups and teachers published on the timetable website",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		teachers, _ := cmd.Flags().GetBool("teachers")

		ctx := cmd.Context()
		client := newClient(ctx, cfg)
		var subjects []scraper.Subject

		_ = spinner.New().
			Title("Fetching available groups and teachers...").
			Action(func() {
				subjects, err = client.FetchSubjects(ctx)
			}).
			Run()

		if err != nil {
			return fmt.Errorf("failed to fetch subjects: %w", err)
		}

		kind := scraper.KindGroup
		if teachers {
			kind = scraper.KindTeacher
		}
		for _, s := range subjects {
			if s.Kind == kind {
				fmt.Fprintln(cmd.OutOrStdout(), s.ID)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(subjectsCmd)
	subjectsCmd.Flags().BoolP("teachers", "t", false, "List teachers instead of groups")
}
