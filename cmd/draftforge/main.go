// Package main provides the draftforge binary entry point.
// Draftforge researches pending content ideas, drafts posts through
// quality-gated generation loops, and writes finished drafts back to
// the content database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	// Register LLM providers via init()
	_ "github.com/draftforge/draftforge/llm/providers"

	"github.com/spf13/cobra"

	"github.com/draftforge/draftforge/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "draftforge"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "draftforge",
		Short: "Quality-gated content drafting pipeline",
		Long: `Draftforge pulls pending post ideas from a content database, runs
each through a research and writing pipeline with per-stage quality
gates, and writes finished drafts back.

Modes:
  single      process the oldest pending item and exit
  batch       drain all pending items once and exit
  continuous  poll for pending items until interrupted`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "single",
		Short: "Process the oldest pending item",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd.Context(), configPath, logLevel, func(ctx context.Context, app *App) error {
				processed, err := app.Runner.RunSingle(ctx)
				if err != nil {
					return err
				}
				if !processed {
					app.Logger.Info("no pending items")
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "batch",
		Short: "Drain all pending items once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd.Context(), configPath, logLevel, func(ctx context.Context, app *App) error {
				count, err := app.Runner.RunBatch(ctx)
				if err != nil {
					return err
				}
				app.Logger.Info("batch complete", "processed", count)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "continuous [interval_seconds]",
		Short: "Poll for pending items until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var idleOverride time.Duration
			if len(args) == 1 {
				var err error
				idleOverride, err = parseIntervalSeconds(args[0])
				if err != nil {
					return err
				}
			}
			return runMode(cmd.Context(), configPath, logLevel, func(ctx context.Context, app *App) error {
				if idleOverride > 0 {
					if err := app.SetIdleInterval(idleOverride); err != nil {
						return err
					}
				}
				return app.Runner.RunContinuous(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// runMode loads configuration, wires the pipeline, and runs one mode
// under signal-driven cancellation.
func runMode(parent context.Context, configPath, logLevel string, mode func(context.Context, *App) error) error {
	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateSecrets(); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}

	app, err := NewApp(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app.StartMetrics(ctx)
	defer app.Shutdown()

	logger.Info("draftforge ready", "version", Version, "database", cfg.Notion.DatabaseID)
	return mode(ctx, app)
}

// parseIntervalSeconds parses the continuous mode's positional
// interval argument.
func parseIntervalSeconds(arg string) (time.Duration, error) {
	seconds, err := strconv.Atoi(arg)
	if err != nil || seconds <= 0 {
		return 0, fmt.Errorf("interval_seconds must be a positive integer, got %q", arg)
	}
	return time.Duration(seconds) * time.Second, nil
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return config.NewLoader(logger).Load()
}
