// Package cli implements the teamstats command line: argument parsing,
// logging setup and pipeline execution.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/teamstats/internal/config"
	"github.com/okian/teamstats/pkg/logger"
)

// SetupLogging initializes the global logger from configuration.
// An invalid level falls back to info with a warning.
func SetupLogging(cfg *config.Config, out io.Writer) error {
	if err := logger.Init(logger.WithOutput(out), logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(context.Background(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// ShowHelp prints usage information.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `teamstats
=========

Normalizes team statistics CSV exports into JSON for the dashboard.

Usage:
  teamstats <command> [options]

Commands:
  overview     Write one snapshot record per team (team, TSS, SGP, PTI)
  timeseries   Write per-team records ordered by round

Options:
  -input string
        Source CSV file (default from config)
  -output string
        Destination JSON file (default from config)
  -config string
        YAML config file (default $TEAMSTATS_CONFIG)
  -log-level string
        Log level: debug, info, warn, error
  -help
        Show this help message

Environment:
  TEAMSTATS_CONFIG             Path to a YAML config file
  TEAMSTATS_<KEY>              Override a config key, e.g. TEAMSTATS_LOG_LEVEL=debug
  TEAMSTATS_<SECTION>__<KEY>   Override a nested key, e.g. TEAMSTATS_OVERVIEW__INPUT=in.csv

Examples:
  # Snapshot with default paths
  teamstats overview

  # Timeseries from a custom export
  teamstats timeseries -input exports/matches.csv -output data/team_timeseries.json

  # Korean export with a config file
  TEAMSTATS_CONFIG=teamstats.yaml teamstats overview -log-level debug
`)
}
