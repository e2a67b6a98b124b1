package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"schedulectl/pkg/config"
	"schedulectl/pkg/scraper"
)

// RunConfigTUI launches the interactive experience for managing configurations
func RunConfigTUI(ctx context.Context, log *zap.Logger) error {
	for {
		// Settings edit the file itself, without environment overrides
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration Settings").
					Options(
						huh.NewOption("Set Accent Color (Theme)", "theme"),
						huh.NewOption("Choose Group or Teacher", "subject"),
						huh.NewOption("Set Timetable Website", "url"),
						huh.NewOption("Set Shortened Day", "restday"),
						huh.NewOption("View Current Config", "view"),
						huh.NewOption("Back to Main Menu", "back"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme())

		if err := initialForm.Run(); err != nil {
			return err
		}

		switch action {
		case "back":
			return nil
		case "theme":
			err = runSetThemeTUI(cfg)
		case "subject":
			var effective *config.AppConfig
			if effective, err = config.LoadWithEnv(); err == nil {
				err = runPickSubjectTUI(ctx, effective, log)
			}
		case "url":
			err = runSetURLTUI(cfg)
		case "restday":
			err = runSetRestDayTUI(cfg)
		case "view":
			printConfig(cfg)
		}

		if err != nil {
			return err
		}
	}
}

func printConfig(cfg *config.AppConfig) {
	calls, err := cfg.CallTable()

	fmt.Println(accentStyle.Render("\n--- Current Configuration (~/.schedulectl.json) ---"))
	if cfg.SubjectID == "" {
		fmt.Println("Group/Teacher: Not set")
	} else {
		fmt.Printf("Group/Teacher: %s\n", cfg.SubjectID)
	}
	fmt.Printf("Website: %s\n", cfg.BaseURLOrDefault())
	if err == nil {
		fmt.Printf("Shortened Day: %s\n", calls.RestDay)
	}
	fmt.Printf("Cache Lifetime: %s\n", cfg.TTL())
	if cfg.RedisAddr != "" {
		fmt.Printf("Redis Cache: %s\n", cfg.RedisAddr)
	}
	fmt.Printf("Accent Color: %s\n", cfg.AccentColor)
	fmt.Println()
}

// runPickSubjectTUI lets the user choose among the subjects of the site configured in cfg
func runPickSubjectTUI(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) error {
	client := newClient(ctx, cfg, log)
	var subjects []scraper.Subject
	var err error

	_ = spinner.New().
		Title("Fetching available groups and teachers...").
		Action(func() {
			subjects, err = client.FetchSubjects(ctx)
		}).
		Run()

	if err != nil {
		return fmt.Errorf("failed to fetch subjects: %w", err)
	}

	if len(subjects) == 0 {
		fmt.Println(errorStyle.Render("The website did not list any groups or teachers!"))
		return nil
	}

	var options []huh.Option[string]
	for _, s := range subjects {
		label := s.Name
		if s.Kind == scraper.KindTeacher {
			label += " (teacher)"
		}
		opt := huh.NewOption(label, s.ID)
		if s.ID == cfg.SubjectID {
			opt = opt.Selected(true)
		}
		options = append(options, opt)
	}

	selected := cfg.SubjectID

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select your group or teacher").
				Description("Enter = confirm. Type / to filter.").
				Options(options...).
				Value(&selected).
				Filtering(true).
				Height(12),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	// Only the choice goes to disk, environment overrides in cfg stay out of the file
	if _, err := config.Update(func(stored *config.AppConfig) { stored.SubjectID = selected }); err != nil {
		return err
	}
	cfg.SubjectID = selected

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Saved %s as your default schedule.\n", selected)))
	return nil
}

func runSetURLTUI(cfg *config.AppConfig) error {
	input := cfg.BaseURLOrDefault()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter the address of the timetable website").
				Description("The page listing all groups and teachers.").
				Placeholder(config.DefaultBaseURL).
				Value(&input).
				Validate(func(s string) error {
					probe := *cfg
					probe.BaseURL = strings.TrimSpace(s)
					return probe.Validate()
				}),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.BaseURL = strings.TrimSpace(input)
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Website changed to: %s\n", cfg.BaseURLOrDefault())))
	return nil
}

func runSetRestDayTUI(cfg *config.AppConfig) error {
	selected := strings.ToLower(cfg.RestDay)
	if selected == "" {
		selected = "saturday"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which day uses the shortened bell schedule?").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Tuesday", "tuesday"),
					huh.NewOption("Wednesday", "wednesday"),
					huh.NewOption("Thursday", "thursday"),
					huh.NewOption("Friday", "friday"),
					huh.NewOption("Saturday", "saturday"),
					huh.NewOption("Sunday", "sunday"),
				).
				Value(&selected),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.RestDay = selected
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Shortened day changed to: %s\n", selected)))
	return nil
}

func colorBlock(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}

func runSetThemeTUI(cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose an Accent Color for schedulectl").
				Description("Select a curated Charm style or choose Custom to enter your own Hex.").
				Options(
					huh.NewOption(fmt.Sprintf("%s Classic Purple", colorBlock("99")), "99"),
					huh.NewOption(fmt.Sprintf("%s Sakura Pink", colorBlock("205")), "205"),
					huh.NewOption(fmt.Sprintf("%s Ocean Blue", colorBlock("86")), "86"),
					huh.NewOption(fmt.Sprintf("%s Matrix Green", colorBlock("42")), "42"),
					huh.NewOption("✨ Custom Hex Code", "custom"),
				).
				Value(&input),
		),
	).WithTheme(GetTheme())

	if err := inputForm.Run(); err != nil {
		return err
	}

	if input == "custom" {
		var hexInput string
		hexForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter a Hex Color Code").
					Description("Include the `#` symbol. Example: #FF00FF").
					Placeholder("#").
					Value(&hexInput).
					Validate(func(str string) error {
						if len(str) != 7 || !strings.HasPrefix(str, "#") {
							return fmt.Errorf("must be a valid 6-character hex code starting with #")
						}
						return nil
					}),
			),
		).WithTheme(GetTheme())

		if err := hexForm.Run(); err != nil {
			return err
		}
		cfg.AccentColor = hexInput
	} else {
		cfg.AccentColor = input
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ Beautiful! The theme color is now saved.\n"))
	return nil
}
