package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"schedulectl/pkg/render"
	"schedulectl/pkg/schedule"
	"schedulectl/pkg/timetable"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the schedule of the day that matters now",
	Long: `Show the active day of a group or teacher: today while lessons are still running,
otherwise the next day with lessons. Use --all to print the whole timetable.`,
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

		all, _ := cmd.Flags().GetBool("all")
		refresh, _ := cmd.Flags().GetBool("refresh")

		ctx := cmd.Context()
		client := newClient(ctx, cfg)
		var s schedule.Schedule

		_ = spinner.New().
			Title(fmt.Sprintf("Fetching the schedule of %s...", subject)).
			Action(func() {
				if refresh {
					s, err = client.Refresh(ctx, subject)
				} else {
					s, err = client.FetchSchedule(ctx, subject)
				}
			}).
			Run()

		if err != nil {
			return fmt.Errorf("failed to fetch schedule: %w", err)
		}

		r := render.New(cfg.AccentColor, calls)
		active := timetable.ActiveDay(s.Days, time.Now(), calls)

		if all || len(s.Days) == 0 {
			fmt.Print(r.Schedule(s, active))
			return nil
		}
		fmt.Print(r.Day(s.Days[active], true))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("subject", "s", "", "Group or teacher to show (defaults to the saved one)")
	showCmd.Flags().BoolP("all", "a", false, "Print every day instead of the active one")
	showCmd.Flags().Bool("refresh", false, "Ignore the cache and download the timetable again")
}
