// Package main is the entry point for the tour allocation API server.
// Its sole responsibility is wiring dependencies together and starting the
// server or running migrations. No business logic belongs here.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/pkordes/tour-allocation/internal/config"
)

const programName = "tour-allocation"

var globalFlags = struct {
	configFile string
	debug      bool
}{}

// newLogger builds the process logger. The JSON handler writes
// machine-readable output suitable for log aggregators.
func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if globalFlags.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: globalFlags.debug,
	}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig reads configuration and sets up logging and GOMAXPROCS, shared
// by every subcommand.
func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(globalFlags.configFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := newLogger(cfg)

	_, err = maxprocs.Set(maxprocs.Logger(func(format string, v ...any) {
		logger.Info(fmt.Sprintf(format, v...), "component", programName)
	}))
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("set GOMAXPROCS: %w", err)
	}
	return cfg, logger, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Room, vehicle and roster allocation API for group tours",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&globalFlags.configFile, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())

	if err := rootCmd.Execute(); err != nil {
		// Use the default logger; configuration may not have loaded.
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
