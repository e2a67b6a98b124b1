package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"go.uber.org/zap"

	"schedulectl/pkg/config"
	"schedulectl/pkg/exporter"
	"schedulectl/pkg/render"
	"schedulectl/pkg/schedule"
	"schedulectl/pkg/timetable"
)

// RunScheduleTUI shows the active day of the saved subject and lets the user browse the others
func RunScheduleTUI(ctx context.Context, log *zap.Logger) error {
	cfg, err := config.LoadWithEnv()
	if err != nil {
		return err
	}

	if cfg.SubjectID == "" {
		fmt.Println(accentStyle.Render("No group or teacher saved yet, let's pick one first."))
		if err := runPickSubjectTUI(ctx, cfg, log); err != nil {
			return err
		}
		if cfg.SubjectID == "" {
			return nil
		}
	}

	calls, err := cfg.CallTable()
	if err != nil {
		return err
	}

	s, err := fetchWithSpinner(ctx, cfg, log)
	if err != nil {
		return err
	}

	if len(s.Days) == 0 {
		fmt.Println(errorStyle.Render(fmt.Sprintf("No days found in the schedule of %s!", s.SubjectID)))
		return nil
	}

	r := render.New(cfg.AccentColor, calls)
	active := timetable.ActiveDay(s.Days, time.Now(), calls)
	current := active

	for {
		fmt.Println()
		fmt.Print(r.Day(s.Days[current], current == active))

		var options []huh.Option[int]
		for i, d := range s.Days {
			label := d.DayLabel
			if i == active {
				label += " ●"
			}
			options = append(options, huh.NewOption(label, i))
		}
		options = append(options, huh.NewOption("Back", -1))

		choice := current
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[int]().
					Title(fmt.Sprintf("Schedule of %s", s.SubjectID)).
					Options(options...).
					Value(&choice),
			),
		).WithTheme(GetTheme())

		if err := form.Run(); err != nil {
			return err
		}
		if choice < 0 {
			return nil
		}
		current = choice
	}
}

// RunExportTUI writes the schedule of the saved subject to an ICS file
func RunExportTUI(ctx context.Context, log *zap.Logger) error {
	cfg, err := config.LoadWithEnv()
	if err != nil {
		return err
	}
	if cfg.SubjectID == "" {
		fmt.Println(errorStyle.Render("You must choose a group or teacher before exporting!"))
		return nil
	}

	calls, err := cfg.CallTable()
	if err != nil {
		return err
	}

	// Defaults
	outputFile := "schedule.ics"

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output file name").
				Value(&outputFile).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("file name cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	if !strings.HasSuffix(outputFile, ".ics") {
		outputFile += ".ics"
	}

	s, err := fetchWithSpinner(ctx, cfg, log)
	if err != nil {
		return err
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := exporter.GenerateICS(s, calls, time.Local, file); err != nil {
		return fmt.Errorf("failed to generate ICS: %w", err)
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\nSuccess! Exported %d days of %s to %s", len(s.Days), s.SubjectID, outputFile)))
	return nil
}

func fetchWithSpinner(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (schedule.Schedule, error) {
	client := newClient(ctx, cfg, log)

	var s schedule.Schedule
	var err error

	_ = spinner.New().
		Title(fmt.Sprintf("Fetching the schedule of %s...", cfg.SubjectID)).
		Action(func() {
			s, err = client.FetchSchedule(ctx, cfg.SubjectID)
		}).
		Run()

	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to fetch schedule for %s: %w", cfg.SubjectID, err)
	}
	return s, nil
}
