package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/teamstats/internal/adapters/source"
	"github.com/okian/teamstats/internal/domain/schema"
	"github.com/okian/teamstats/pkg/logger"
	"github.com/okian/teamstats/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

type testLogger struct{}

func (testLogger) Info(context.Context, string, ...logger.Field)  {}
func (testLogger) Error(context.Context, string, ...logger.Field) {}
func (testLogger) Debug(context.Context, string, ...logger.Field) {}
func (testLogger) Warn(context.Context, string, ...logger.Field)  {}
func (l testLogger) With(...logger.Field) logger.Logger           { return l }
func (l testLogger) Named(string) logger.Logger                   { return l }

func newTestService(opts ...Option) *Service {
	base := []Option{
		WithLogger(testLogger{}),
		WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))),
		WithRunID(func() string { return "run-1" }),
	}
	return New(append(base, opts...)...)
}

func writeInput(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return string(data)
}

func TestParsePipeline(t *testing.T) {
	Convey("Given pipeline names", t, func() {
		p, err := ParsePipeline("overview")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, PipelineOverview)

		p, err = ParsePipeline("timeseries")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, PipelineTimeseries)

		_, err = ParsePipeline("leaderboard")
		So(errors.Is(err, ErrUnknownPipeline), ShouldBeTrue)
	})
}

func TestService_Overview(t *testing.T) {
	ctx := context.Background()

	Convey("Given a snapshot source with one complete row", t, func() {
		in := writeInput(t, "Team,TSS,SGP,PTI\nA FC,10.5,2.1,77\n")
		out := filepath.Join(t.TempDir(), "data", "overview.json")

		rep, err := newTestService().Overview(ctx, in, out)

		Convey("Then the snapshot file is written", func() {
			So(err, ShouldBeNil)
			So(readOutput(t, out), ShouldEqual,
				"[\n  {\n    \"team\": \"A FC\",\n    \"TSS\": 10.5,\n    \"SGP\": 2.1,\n    \"PTI\": 77.0\n  }\n]\n")
		})

		Convey("Then the report describes the run", func() {
			So(rep.RunID, ShouldEqual, "run-1")
			So(rep.Pipeline, ShouldEqual, PipelineOverview)
			So(rep.Rows, ShouldEqual, 1)
			So(rep.Records, ShouldEqual, 1)
			So(rep.Drops.Total(), ShouldEqual, 0)
			So(rep.Encoding, ShouldEqual, "utf-8-sig")
			So(rep.Changed, ShouldBeTrue)
			col, ok := rep.Schema.Column(schema.RoleTeam)
			So(ok, ShouldBeTrue)
			So(col, ShouldEqual, "Team")
		})

		Convey("When the run is repeated", func() {
			before := readOutput(t, out)
			again, err := newTestService().Overview(ctx, in, out)

			Convey("Then the file is byte-identical and left untouched", func() {
				So(err, ShouldBeNil)
				So(again.Changed, ShouldBeFalse)
				So(readOutput(t, out), ShouldEqual, before)
			})
		})
	})

	Convey("Given a row with an unparsable metric", t, func() {
		in := writeInput(t, "Team,TSS,SGP,PTI\nA FC,n/a,2.1,77\nB FC,1,2,3\n")
		out := filepath.Join(t.TempDir(), "overview.json")

		rep, err := newTestService().Overview(ctx, in, out)

		Convey("Then the row is dropped and counted", func() {
			So(err, ShouldBeNil)
			So(rep.Records, ShouldEqual, 1)
			So(rep.Drops.MissingMetric, ShouldEqual, 1)
			So(readOutput(t, out), ShouldNotContainSubstring, "A FC")
		})
	})

	Convey("Given a source without any PTI-like column", t, func() {
		in := writeInput(t, "Team,TSS,SGP\nA FC,1,2\n")
		out := filepath.Join(t.TempDir(), "overview.json")

		rep, err := newTestService().Overview(ctx, in, out)

		Convey("Then resolution fails and nothing is written", func() {
			So(rep, ShouldBeNil)
			So(errors.Is(err, schema.ErrSchemaResolution), ShouldBeTrue)
			var sre *schema.SchemaResolutionError
			So(errors.As(err, &sre), ShouldBeTrue)
			So(sre.Missing, ShouldResemble, []schema.Role{schema.RolePTI})
			_, statErr := os.Stat(out)
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})
	})

	Convey("Given a missing input file", t, func() {
		out := filepath.Join(t.TempDir(), "overview.json")

		_, err := newTestService().Overview(ctx, filepath.Join(t.TempDir(), "nope.csv"), out)

		Convey("Then SourceNotFound is reported", func() {
			So(errors.Is(err, source.ErrSourceNotFound), ShouldBeTrue)
			_, statErr := os.Stat(out)
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})
	})
}

func TestService_Timeseries(t *testing.T) {
	ctx := context.Background()

	Convey("Given undated matches without rounds", t, func() {
		in := writeInput(t, "team,TSS,SGP,PTI\nB,1,1,1\nB,2,2,2\n")
		out := filepath.Join(t.TempDir(), "team_timeseries.json")

		rep, err := newTestService().Timeseries(ctx, in, out)

		Convey("Then rounds follow file order", func() {
			So(err, ShouldBeNil)
			So(rep.Records, ShouldEqual, 2)
			body := readOutput(t, out)
			So(body, ShouldContainSubstring, "\"round\": 1,\n    \"TSS\": 1.0")
			So(body, ShouldContainSubstring, "\"round\": 2,\n    \"TSS\": 2.0")
			So(body, ShouldNotContainSubstring, "date")
		})

		Convey("Then unresolved optional roles are reported", func() {
			So(rep.Unresolved, ShouldContain, schema.RoleDate)
			So(rep.Unresolved, ShouldContain, schema.RoleOpponent)
		})
	})

	Convey("Given dated matches out of order with an unparsable TSS", t, func() {
		in := writeInput(t, "team,date,TSS,SGP,PTI\nA,2024-03-10,x,1.5,3\nA,2024-03-03,1,1,1\n")
		out := filepath.Join(t.TempDir(), "team_timeseries.json")

		rep, err := newTestService().Timeseries(ctx, in, out)

		Convey("Then rows are ordered by date and null metrics are kept", func() {
			So(err, ShouldBeNil)
			So(rep.Records, ShouldEqual, 2)
			body := readOutput(t, out)
			first := bytes.Index([]byte(body), []byte("2024-03-03"))
			second := bytes.Index([]byte(body), []byte("2024-03-10"))
			So(first, ShouldBeGreaterThan, -1)
			So(second, ShouldBeGreaterThan, first)
			So(body, ShouldContainSubstring, "\"TSS\": null")
		})
	})

	Convey("Given a row without a team", t, func() {
		in := writeInput(t, "team,TSS,SGP,PTI\n,1,1,1\nA,1,1,1\n")
		out := filepath.Join(t.TempDir(), "team_timeseries.json")

		rep, err := newTestService().Timeseries(ctx, in, out)

		Convey("Then it is dropped and counted", func() {
			So(err, ShouldBeNil)
			So(rep.Records, ShouldEqual, 1)
			So(rep.Drops.MissingTeam, ShouldEqual, 1)
		})
	})

	Convey("Given custom role specs", t, func() {
		in := writeInput(t, "squad,TSS,SGP,PTI\nA,1,1,1\n")
		out := filepath.Join(t.TempDir(), "team_timeseries.json")
		specs, err := schema.Override(schema.TimeseriesSpecs(), map[string][]string{"team": {"squad"}})
		So(err, ShouldBeNil)

		rep, err := newTestService(WithSpecs(PipelineTimeseries, specs)).Timeseries(ctx, in, out)

		Convey("Then the override resolves the team column", func() {
			So(err, ShouldBeNil)
			col, _ := rep.Schema.Column(schema.RoleTeam)
			So(col, ShouldEqual, "squad")
		})
	})
}

func TestService_MetricsFile(t *testing.T) {
	Convey("Given a service exporting metrics to a file", t, func() {
		in := writeInput(t, "Team,TSS,SGP,PTI\nA FC,1,2,3\n")
		out := filepath.Join(t.TempDir(), "overview.json")
		prom := filepath.Join(t.TempDir(), "teamstats.prom")

		_, err := newTestService(WithMetricsFile(prom)).Overview(context.Background(), in, out)

		Convey("Then the textfile holds the run counters", func() {
			So(err, ShouldBeNil)
			body := readOutput(t, prom)
			So(body, ShouldContainSubstring, "teamstats_pipeline_rows_read_total")
			So(body, ShouldContainSubstring, "teamstats_pipeline_runs_total")
		})
	})
}

func TestService_UnknownPipeline(t *testing.T) {
	Convey("Given an unknown pipeline", t, func() {
		_, err := newTestService().Run(context.Background(), Pipeline("scores"), "in.csv", "out.json")

		Convey("Then ErrUnknownPipeline is returned", func() {
			So(errors.Is(err, ErrUnknownPipeline), ShouldBeTrue)
		})
	})
}
