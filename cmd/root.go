package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"schedulectl/pkg/cache"
	"schedulectl/pkg/config"
	"schedulectl/pkg/logging"
	"schedulectl/pkg/scraper"
)

// logger is built from --log-level before any command runs
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "schedulectl",
	Short: "A CLI and TUI for college timetables",
	Long: `schedulectl reads the published timetable of a study group or teacher,
shows the day that matters right now and exports the lessons to an .ics file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logLevel(cmd))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Sync()
	if err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log verbosity (debug, info, warn, error)")
}

// logLevel prefers --log-level, then the configured level (SCHEDULECTL_LOG_LEVEL or the config file)
func logLevel(cmd *cobra.Command) string {
	level, _ := cmd.Flags().GetString("log-level")
	if cmd.Flags().Changed("log-level") {
		return level
	}
	// A broken config is reported by the command itself
	if cfg, err := loadConfig(); err == nil && cfg.LogLevel != "" {
		return cfg.LogLevel
	}
	return level
}

// loadConfig reads the config file with environment overrides applied
func loadConfig() (*config.AppConfig, error) {
	return config.LoadWithEnv()
}

// resolveSubject prefers the --subject flag over the saved subject
func resolveSubject(cmd *cobra.Command, cfg *config.AppConfig) (string, error) {
	subject, _ := cmd.Flags().GetString("subject")
	if subject == "" {
		subject = cfg.SubjectID
	}
	if subject == "" {
		return "", fmt.Errorf("no group or teacher given: pass --subject or run `schedulectl config --set-subject`")
	}
	return subject, nil
}

func newClient(ctx context.Context, cfg *config.AppConfig) *scraper.Client {
	return scraper.NewClientFromConfig(cfg,
		scraper.WithLogger(logger),
		scraper.WithCache(cache.Open(ctx, cfg.RedisAddr, cfg.TTL(), logger)))
}
