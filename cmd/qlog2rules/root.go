package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haukened/qlog2rules/internal/rules/common/clock"
	"github.com/haukened/qlog2rules/internal/rules/common/log"
	"github.com/haukened/qlog2rules/internal/rules/config"
)

const (
	version = "0.1.0-dev"
	appName = "qlog2rules"
)

// flagKeys maps command-line flags to configuration keys. Only flags the
// user set are forwarded, so unset flags never mask env or file values.
var flagKeys = map[string]string{
	"output":       "output",
	"unique":       "unique",
	"apex":         "apex",
	"metrics-file": "metrics_file",
	"log-level":    "log_level",
	"env":          "env",
}

// NewRootCmd creates the qlog2rules command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName + " [flags] <log-file>...",
		Short: "Generate block rules from DNS filtering query logs",
		Long: `qlog2rules reads query logs written by a DNS filtering service, one JSON
record per line, and collects a "||domain^" block rule for every query that
was blocked by a user filtering rule (Result.IsFiltered with Reason 3).

Rules from all inputs are merged, deduplicated unless --unique=false is
given, sorted, and written with a descriptive header to --output or stdout.
Missing inputs and malformed lines are reported and skipped.

Every flag can also be set with a QLR_ environment variable
(for example QLR_OUTPUT) or in a YAML file passed with --config.`,
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "write rules to this file instead of stdout")
	flags.BoolP("unique", "u", true, "drop duplicate rules (use --unique=false to keep them)")
	flags.Bool("apex", false, "fold blocked hosts to their registrable domain")
	flags.String("metrics-file", "", "write run counters in Prometheus text format to this file")
	flags.String("config", "", "YAML config file (default $"+config.ConfigFileEnv+")")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("env", "", "log format: dev (console) or prod (JSON)")

	return cmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	overrides := map[string]any{"log_files": args}
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		switch flag {
		case "unique", "apex":
			v, err := cmd.Flags().GetBool(flag)
			if err != nil {
				return err
			}
			overrides[key] = v
		default:
			overrides[key] = f.Value.String()
		}
	}

	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.LoadOptions{ConfigFile: configFile, Overrides: overrides})
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		return fmt.Errorf("logging configuration error: %w", err)
	}
	log.Debug(map[string]any{
		"env":       cfg.Env,
		"inputs":    len(cfg.LogFiles),
		"output":    cfg.Output,
		"unique":    cfg.Unique,
		"apex":      cfg.Apex,
		"log_level": cfg.LogLevel,
	}, "config_loaded")

	app := buildApplication(cfg, cmd.OutOrStdout(), clock.RealClock{}, log.GetLogger())
	if _, err := app.Run(); err != nil {
		log.Error(map[string]any{"error": err.Error()}, "output_write_failed")
		return err
	}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
