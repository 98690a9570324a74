package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lifxbridge/internal/bridge"
	"lifxbridge/internal/config"
	"lifxbridge/internal/device"
	"lifxbridge/internal/events"
	"lifxbridge/internal/lifx"
	"lifxbridge/internal/logging"
	"lifxbridge/internal/server"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lifxbridged",
		Short:         "Bridge a LIFX cloud light to a local smart-home accessory",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cmd.Flags().String("config", "", "Path to config file")
	cmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().String("log-format", "", "Log format (text, json)")
	cmd.Flags().String("listen", "", "Admin API listen address")
	cmd.Flags().Int("poll-interval", 0, "Remote poll interval in seconds")

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	v.SetEnvPrefix("LIFXBRIDGE")
	v.AutomaticEnv()
	for _, name := range []string{"config", "log-level", "log-format", "listen", "poll-interval"} {
		v.BindPFlag(name, cmd.Flags().Lookup(name))
	}

	configPath := v.GetString("config")
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	// Startup failures are fatal: the accessory and the admin surface must
	// not run in an undefined state.
	cfg, err := config.Load(configPath, logging.SetupErrorLogger())
	if err != nil {
		logging.SetupErrorLogger().Error("failed to load configuration", "error", err)
		return err
	}

	// Flags override the persisted daemon settings.
	level := cfg.Logging.Level
	if s := v.GetString("log-level"); s != "" {
		level = s
	}
	format := cfg.Logging.Format
	if s := v.GetString("log-format"); s != "" {
		format = s
	}
	if s := v.GetString("listen"); s != "" {
		cfg.Server.Listen = s
	}
	pollInterval := time.Duration(cfg.Sync.PollIntervalSeconds) * time.Second
	if n := v.GetInt("poll-interval"); n > 0 {
		pollInterval = time.Duration(n) * time.Second
	}

	logBuffer := logging.NewBuffer(logging.DefaultBufferSize)
	logger := logging.Setup(level, format, logBuffer, os.Stderr)
	slog.SetDefault(logger)

	logger.Info("starting lifxbridged",
		"version", version,
		"commit", commit,
		"buildDate", buildDate,
		"config", configPath,
	)

	bus := events.NewBus()
	endpoint := device.NewMemoryEndpoint()
	endpoint.SetEventBus(bus)

	client := lifx.NewClient(cfg.Snapshot().LIFXAPIKey, logger)
	engine := bridge.NewEngine(logger, cfg, client, endpoint, bus, pollInterval)

	// Keep the client's credential current when the record changes, whether
	// through the admin API or an out-of-band edit of the config file.
	cfg.Watch(func() {
		client.SetToken(cfg.Snapshot().LIFXAPIKey)
	})

	srv := server.New(logger, cfg, client, engine, bus, logBuffer, version)
	if err := srv.Start(); err != nil {
		logger.Error("failed to start server", "error", err)
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error stopping server", "error", err)
	}
	return nil
}
