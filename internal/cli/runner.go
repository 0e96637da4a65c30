package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/teamstats/internal/adapters/source"
	service "github.com/okian/teamstats/internal/app"
	"github.com/okian/teamstats/internal/config"
	"github.com/okian/teamstats/internal/domain/schema"
	"github.com/okian/teamstats/pkg/logger"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Main runs the command line in args and returns the process exit code.
// Summaries go to stdout; logs and errors go to stderr.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd, err := Parse(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n", err)
		ShowHelp(stderr)
		return ExitUsage
	}
	if cmd.Help {
		ShowHelp(stdout)
		return ExitOK
	}

	cfg, err := loadConfig(ctx, cmd)
	if err != nil {
		// logger isn't available yet
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return ExitFailure
	}
	if err := SetupLogging(cfg, stderr); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return ExitFailure
	}

	rep, err := Run(ctx, cfg, cmd)
	if err != nil {
		fmt.Fprintf(stderr, "%s failed: %v\n", cmd.Pipeline, err)
		return ExitFailure
	}
	fmt.Fprintf(stdout, "wrote %d %s records to %s\n", rep.Records, rep.Pipeline, rep.Output)
	return ExitOK
}

// Run executes cmd's pipeline with cfg. Command flags take precedence over
// the configured paths.
func Run(ctx context.Context, cfg *config.Config, cmd *Command) (*service.Report, error) {
	svc, err := NewService(cfg)
	if err != nil {
		return nil, err
	}

	paths := cfg.Overview
	if cmd.Pipeline == service.PipelineTimeseries {
		paths = cfg.Timeseries
	}
	if cmd.Input != "" {
		paths.Input = cmd.Input
	}
	if cmd.Output != "" {
		paths.Output = cmd.Output
	}
	return svc.Run(ctx, cmd.Pipeline, paths.Input, paths.Output)
}

// NewService builds a pipeline service from configuration.
func NewService(cfg *config.Config) (*service.Service, error) {
	delim, err := cfg.DelimiterRune()
	if err != nil {
		return nil, err
	}
	overview, err := schema.Override(schema.OverviewSpecs(), cfg.Roles)
	if err != nil {
		return nil, err
	}
	timeseries, err := schema.Override(schema.TimeseriesSpecs(), cfg.Roles)
	if err != nil {
		return nil, err
	}

	reader := source.NewCSVReader(
		source.WithDelimiter(delim),
		source.WithEncodings(cfg.Encodings...),
	)
	return service.New(
		service.WithLogger(logger.Named("pipeline")),
		service.WithReader(reader),
		service.WithSpecs(service.PipelineOverview, overview),
		service.WithSpecs(service.PipelineTimeseries, timeseries),
		service.WithWordBoundary(cfg.StrictSubstring),
		service.WithMetricsFile(cfg.MetricsFile),
	), nil
}

func loadConfig(ctx context.Context, cmd *Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.ConfigPath != "" {
		cfg, err = config.LoadFile(ctx, cmd.ConfigPath)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return nil, err
	}
	if cmd.LogLevel != "" {
		cfg.LogLevel = cmd.LogLevel
	}
	return cfg, nil
}
