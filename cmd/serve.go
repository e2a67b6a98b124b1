package cmd

import (
	"github.com/spf13/cobra"

	"schedulectl/pkg/widget"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve schedules as JSON for home-screen widgets",
	Long: `Start a small HTTP server answering GET /schedules/{subject} with the whole schedule
and GET /schedules/{subject}/active with the day that matters now.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		calls, err := cfg.CallTable()
		if err != nil {
			return err
		}

		addr, _ := cmd.Flags().GetString("addr")
		rps, _ := cmd.Flags().GetInt("rate-limit")

		ctx := cmd.Context()
		server := widget.NewServer(newClient(ctx, cfg), calls,
			widget.WithLogger(logger),
			widget.WithRateLimit(rps))

		return server.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Int("rate-limit", 10, "Requests per second allowed for each client IP")
}
