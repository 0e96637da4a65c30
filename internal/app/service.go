// Package service runs the normalization pipelines: read the source table,
// resolve its schema, normalize values, sequence rows and write records.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/teamstats/internal/adapters/sink"
	"github.com/okian/teamstats/internal/adapters/source"
	"github.com/okian/teamstats/internal/domain/model"
	"github.com/okian/teamstats/internal/domain/normalize"
	"github.com/okian/teamstats/internal/domain/record"
	"github.com/okian/teamstats/internal/domain/schema"
	"github.com/okian/teamstats/internal/domain/sequence"
	"github.com/okian/teamstats/pkg/logger"
	"github.com/okian/teamstats/pkg/metrics"
)

// Pipeline names an output artifact.
type Pipeline string

// Supported pipelines.
const (
	PipelineOverview   Pipeline = "overview"
	PipelineTimeseries Pipeline = "timeseries"
)

// ParsePipeline validates a pipeline name.
func ParsePipeline(name string) (Pipeline, error) {
	switch p := Pipeline(name); p {
	case PipelineOverview, PipelineTimeseries:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPipeline, name)
	}
}

// Drop reasons reported in metrics.
const (
	reasonMissingTeam   = "missing_team"
	reasonMissingMetric = "missing_metric"
)

// requiredRoles must resolve for either pipeline to run.
var requiredRoles = []schema.Role{schema.RoleTeam, schema.RoleTSS, schema.RoleSGP, schema.RolePTI}

// Report summarizes one completed run.
type Report struct {
	RunID      string
	Pipeline   Pipeline
	Input      string
	Output     string
	Encoding   string
	Schema     schema.Schema
	Unresolved []schema.Role
	Rows       int
	Records    int
	Drops      record.Drops
	Changed    bool
	Duration   time.Duration
}

// Service wires the pipeline stages together.
type Service struct {
	reader       source.Reader
	writer       sink.Writer
	metrics      *metrics.Manager
	logger       logger.Logger
	specs        map[Pipeline][]schema.Spec
	wordBoundary bool
	metricsFile  string
	newRunID     func() string
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		reader: source.NewCSVReader(),
		writer: sink.NewJSONWriter(),
		specs: map[Pipeline][]schema.Spec{
			PipelineOverview:   schema.OverviewSpecs(),
			PipelineTimeseries: schema.TimeseriesSpecs(),
		},
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewManager()
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Overview writes the per-team snapshot for input to output.
func (s *Service) Overview(ctx context.Context, input, output string) (*Report, error) {
	return s.Run(ctx, PipelineOverview, input, output)
}

// Timeseries writes the per-team round series for input to output.
func (s *Service) Timeseries(ctx context.Context, input, output string) (*Report, error) {
	return s.Run(ctx, PipelineTimeseries, input, output)
}

// Run executes pipeline p. Missing input or unresolved required roles fail
// before anything is written.
func (s *Service) Run(ctx context.Context, p Pipeline, input, output string) (rep *Report, err error) {
	specs, ok := s.specs[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPipeline, p)
	}

	start := time.Now()
	rep = &Report{RunID: s.newRunID(), Pipeline: p, Input: input, Output: output}
	log := s.logger.With(logger.String("run_id", rep.RunID), logger.String("pipeline", string(p)))
	defer func() {
		rep.Duration = time.Since(start)
		s.metrics.ObserveRun(string(p), rep.Duration, err)
		s.exportMetrics(ctx, log)
		if err != nil {
			log.Error(ctx, "run failed", logger.String("input", input), logger.Error(err))
			rep = nil
		}
	}()

	tbl, err := s.reader.Read(ctx, input)
	if err != nil {
		return rep, err
	}
	rep.Encoding = tbl.Encoding
	rep.Rows = tbl.Len()
	s.metrics.RecordRowsRead(string(p), rep.Rows)
	log.Info(ctx, "source loaded",
		logger.String("input", input),
		logger.String("encoding", tbl.Encoding),
		logger.Int("rows", rep.Rows),
		logger.Int("columns", len(tbl.Header)))

	cols, err := s.resolve(ctx, log, p, tbl, specs, rep)
	if err != nil {
		return rep, err
	}

	var doc any
	switch p {
	case PipelineOverview:
		recs, drops := record.BuildSnapshots(cols)
		rep.Records, rep.Drops, doc = len(recs), drops, recs
	case PipelineTimeseries:
		rows, skipped := sequence.FromColumns(cols, rep.Schema)
		groups := sequence.Sequence(rows, sequence.KeysFor(rep.Schema))
		recs := record.BuildTimeseries(groups, cols)
		rep.Records, rep.Drops, doc = len(recs), record.Drops{MissingTeam: len(skipped)}, recs
		log.Debug(ctx, "rows sequenced", logger.Int("teams", len(groups)))
	}
	s.metrics.RecordRowsDropped(string(p), reasonMissingTeam, rep.Drops.MissingTeam)
	s.metrics.RecordRowsDropped(string(p), reasonMissingMetric, rep.Drops.MissingMetric)
	if rep.Drops.Total() > 0 {
		log.Warn(ctx, "rows dropped",
			logger.Int(reasonMissingTeam, rep.Drops.MissingTeam),
			logger.Int(reasonMissingMetric, rep.Drops.MissingMetric))
	}

	res, err := s.writer.Write(ctx, output, doc)
	if err != nil {
		return rep, err
	}
	rep.Changed = res.Changed
	s.metrics.RecordRecordsEmitted(string(p), rep.Records)
	log.Info(ctx, "output written",
		logger.String("output", res.Path),
		logger.Int("records", rep.Records),
		logger.Int("bytes", res.Bytes),
		logger.Bool("changed", res.Changed))
	return rep, nil
}

func (s *Service) resolve(ctx context.Context, log logger.Logger, p Pipeline, tbl *model.Table, specs []schema.Spec, rep *Report) (*normalize.Columns, error) {
	sch := schema.Resolve(tbl.Header, specs, schema.WithWordBoundary(s.wordBoundary))
	if err := schema.Require(sch, tbl.Header, requiredRoles...); err != nil {
		return nil, err
	}
	rep.Schema = sch
	rep.Unresolved = sch.Unresolved(specs)
	s.metrics.SetRolesUnresolved(string(p), len(rep.Unresolved))

	fields := make([]logger.Field, 0, len(sch)+1)
	for _, r := range schema.AllRoles {
		if col, ok := sch.Column(r); ok {
			fields = append(fields, logger.String("role."+string(r), col))
		}
	}
	unresolved := make([]string, len(rep.Unresolved))
	for i, r := range rep.Unresolved {
		unresolved[i] = string(r)
	}
	fields = append(fields, logger.Strings("unresolved", unresolved))
	log.Info(ctx, "schema resolved", fields...)

	cols := normalize.Normalize(tbl, sch)
	stats := cols.Stats()
	for _, r := range schema.AllRoles {
		if n := stats.AbsentFor(r); n > 0 {
			s.metrics.RecordCellsAbsent(string(p), string(r), n)
			log.Debug(ctx, "absent cells", logger.String("role", string(r)), logger.Int("count", n))
		}
	}
	return cols, nil
}

func (s *Service) exportMetrics(ctx context.Context, log logger.Logger) {
	if s.metricsFile == "" {
		return
	}
	if err := s.metrics.WriteTextfile(s.metricsFile); err != nil {
		log.Warn(ctx, "metrics export failed", logger.String("path", s.metricsFile), logger.Error(err))
	}
}
