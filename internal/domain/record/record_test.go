package record_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/teamstats/internal/domain/model"
	"github.com/okian/teamstats/internal/domain/normalize"
	"github.com/okian/teamstats/internal/domain/record"
	"github.com/okian/teamstats/internal/domain/schema"
	"github.com/okian/teamstats/internal/domain/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

func table(header []string, rows ...[]string) *model.Table {
	tbl := &model.Table{Header: header}
	for _, r := range rows {
		m := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(r) {
				m[h] = r[i]
			}
		}
		tbl.Rows = append(tbl.Rows, m)
	}
	return tbl
}

func snapshots(tbl *model.Table) ([]record.Snapshot, record.Drops) {
	s := schema.Resolve(tbl.Header, schema.OverviewSpecs())
	return record.BuildSnapshots(normalize.Normalize(tbl, s))
}

func timeseries(tbl *model.Table) []record.Timeseries {
	s := schema.Resolve(tbl.Header, schema.TimeseriesSpecs())
	cols := normalize.Normalize(tbl, s)
	rows, _ := sequence.FromColumns(cols, s)
	return record.BuildTimeseries(sequence.Sequence(rows, sequence.KeysFor(s)), cols)
}

func TestFormatFloat(t *testing.T) {
	Convey("Given metric values", t, func() {
		So(record.FormatFloat(77), ShouldEqual, "77.0")
		So(record.FormatFloat(10.5), ShouldEqual, "10.5")
		So(record.FormatFloat(2.1), ShouldEqual, "2.1")
		So(record.FormatFloat(0), ShouldEqual, "0.0")
		So(record.FormatFloat(-3), ShouldEqual, "-3.0")
		So(record.FormatFloat(1e16), ShouldEqual, "1e+16")
		So(record.FormatFloat(0.00001), ShouldEqual, "1e-05")
		So(record.FormatFloat(0.0001), ShouldEqual, "0.0001")
	})
}

func TestBuildSnapshots(t *testing.T) {
	Convey("Given a single complete row", t, func() {
		tbl := table([]string{"Team", "TSS", "SGP", "PTI"}, []string{"A FC", "10.5", "2.1", "77"})

		recs, drops := snapshots(tbl)

		Convey("Then it serializes to the snapshot shape", func() {
			data, err := json.Marshal(recs)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `[{"team":"A FC","TSS":10.5,"SGP":2.1,"PTI":77.0}]`)
			So(drops.Total(), ShouldEqual, 0)
		})
	})

	Convey("Given a row with an unparsable metric", t, func() {
		tbl := table([]string{"Team", "TSS", "SGP", "PTI"},
			[]string{"A FC", "n/a", "2.1", "77"},
			[]string{"B FC", "1", "2", "3"},
		)

		recs, drops := snapshots(tbl)

		Convey("Then the row is dropped entirely", func() {
			So(len(recs), ShouldEqual, 1)
			So(recs[0].Team, ShouldEqual, "B FC")
			So(drops.MissingMetric, ShouldEqual, 1)
		})
	})

	Convey("Given unsorted teams and a blank team", t, func() {
		tbl := table([]string{"TeamLabel", "TSS", "SGP", "PTI"},
			[]string{"울산", "1", "1", "1"},
			[]string{" ", "1", "1", "1"},
			[]string{"Daegu", "0", "0", "0"},
			[]string{"Anyang", "2", "2", "2"},
		)

		recs, drops := snapshots(tbl)

		Convey("Then surviving records are sorted by team", func() {
			teams := make([]string, len(recs))
			for i, r := range recs {
				teams[i] = r.Team
			}
			So(teams, ShouldResemble, []string{"Anyang", "Daegu", "울산"})
			So(drops.MissingTeam, ShouldEqual, 1)
		})

		Convey("Then zero metrics are kept", func() {
			So(recs[1].TSS, ShouldEqual, record.Float(0))
		})
	})

	Convey("Given rows where every metric parses", t, func() {
		tbl := table([]string{"Team", "TSS", "SGP", "PTI"},
			[]string{"A", "1", "2", "3"},
			[]string{"A", "4", "5", "6"},
		)

		Convey("Then one record is emitted per row", func() {
			recs, _ := snapshots(tbl)
			So(len(recs), ShouldEqual, 2)
		})
	})
}

func TestBuildTimeseries(t *testing.T) {
	Convey("Given rows with no round and no date column", t, func() {
		tbl := table([]string{"team", "TSS", "SGP", "PTI"},
			[]string{"B", "1", "1", "1"},
			[]string{"B", "2", "2", "2"},
		)

		recs := timeseries(tbl)

		Convey("Then rounds are 1 and 2 in file order", func() {
			So(len(recs), ShouldEqual, 2)
			So(recs[0].Round, ShouldEqual, 1)
			So(*recs[0].TSS, ShouldEqual, record.Float(1))
			So(recs[1].Round, ShouldEqual, 2)
			So(*recs[1].TSS, ShouldEqual, record.Float(2))
		})

		Convey("Then unresolved optional keys are never emitted", func() {
			data, err := json.Marshal(recs[0])
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `{"team":"B","round":1,"TSS":1.0,"SGP":1.0,"PTI":1.0}`)
		})
	})

	Convey("Given a dated row whose date does not parse", t, func() {
		tbl := table([]string{"team", "date", "TSS", "SGP", "PTI"},
			[]string{"A", "unknown", "1", "1", "1"},
			[]string{"A", "2024-03-10", "2", "2", "2"},
			[]string{"A", "2024-03-03", "3", "3", "3"},
		)

		recs := timeseries(tbl)

		Convey("Then it is ordered last without a date key", func() {
			So(*recs[0].Date, ShouldEqual, "2024-03-03")
			So(*recs[1].Date, ShouldEqual, "2024-03-10")
			So(recs[2].Date, ShouldBeNil)
			So(recs[2].Round, ShouldEqual, 3)
		})
	})

	Convey("Given optional fields present on some rows only", t, func() {
		tbl := table([]string{"team", "opponent", "game_id", "result", "gf", "ga", "TSS", "SGP", "PTI"},
			[]string{"A", "B", "1001", "W", "2", "0", "x", "1.5", "3"},
			[]string{"A", "", "", " ", "", "1", "1", "1", "1"},
		)

		recs := timeseries(tbl)

		Convey("Then each row carries only its own present values", func() {
			first, _ := json.Marshal(recs[0])
			So(string(first), ShouldEqual,
				`{"team":"A","round":1,"TSS":null,"SGP":1.5,"PTI":3.0,"match_id":"1001","opponent":"B","result":"W","gf":2.0,"ga":0.0}`)
			second, _ := json.Marshal(recs[1])
			So(string(second), ShouldEqual, `{"team":"A","round":2,"TSS":1.0,"SGP":1.0,"PTI":1.0,"ga":1.0}`)
		})
	})

	Convey("Given several teams", t, func() {
		tbl := table([]string{"team", "round", "TSS", "SGP", "PTI"},
			[]string{"C", "2", "1", "1", "1"},
			[]string{"A", "", "1", "1", "1"},
			[]string{"C", "", "1", "1", "1"},
			[]string{"A", "1", "1", "1", "1"},
		)

		recs := timeseries(tbl)

		Convey("Then output is team-major with non-decreasing rounds per team", func() {
			So(len(recs), ShouldEqual, 4)
			So(recs[0].Team, ShouldEqual, "A")
			So(recs[2].Team, ShouldEqual, "C")
			for i := 1; i < len(recs); i++ {
				if recs[i].Team == recs[i-1].Team {
					So(recs[i].Round, ShouldBeGreaterThanOrEqualTo, recs[i-1].Round)
				}
			}
		})
	})
}
