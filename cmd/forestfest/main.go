package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"forestfest/internal/app"
	"forestfest/internal/config"
	appLog "forestfest/internal/log"
)

const version = "0.3.0"

type rootFlags struct {
	configPath string
	logLevel   string
	pretty     bool
	ephemeral  bool
}

var (
	flags rootFlags
	conf  *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "forestfest",
		Short:        "Forest Fest lineup, favorites and set reminders",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setup()
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", envOr("FORESTFEST_CONFIG", "forestfest.yaml"), "Path to config file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, error); overrides config")
	root.PersistentFlags().BoolVar(&flags.pretty, "pretty", false, "Human readable log output")
	root.PersistentFlags().BoolVar(&flags.ephemeral, "ephemeral", false, "Keep favorites and settings in memory only")

	root.AddCommand(
		newServeCmd(),
		newLineupCmd(),
		newFavoritesCmd(),
		newScheduleCmd(),
		newConflictsCmd(),
		newRemindersCmd(),
		newWeatherCmd(),
		newTimetableCmd(),
		newConfigCmd(),
	)
	return root
}

func setup() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	c, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		return err
	}
	level := c.LogLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	appLog.Configure(appLog.Config{Level: level, Pretty: flags.pretty})
	if flags.ephemeral {
		c.Storage.Driver = "memory"
	}
	conf = c
	return nil
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// withApp builds the app for a single command and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	a, err := app.New(ctx, conf)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			appLog.Error("failed to close", err)
		}
	}()
	return fn(ctx, a)
}

func newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, reminder timers and weather refresh",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen != "" {
				conf.Listen = listen
			}
			appLog.Info("forestfest starting",
				"version", version,
				"listen", conf.Listen,
				"timezone", conf.Timezone,
				"storage", conf.Storage.Driver,
				"notifications", conf.Notifications.Driver,
			)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case sig := <-sigCh:
					appLog.Info("signal received, shutting down", "signal", sig.String())
					cancel()
				case <-ctx.Done():
				}
			}()

			err := withApp(cmd, func(_ context.Context, a *app.App) error {
				return a.Serve(ctx)
			})
			appLog.Info("forestfest exiting")
			return err
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}
