// Package record assembles the output records of both pipelines.
package record

import (
	"sort"

	"github.com/okian/teamstats/internal/domain/normalize"
	"github.com/okian/teamstats/internal/domain/schema"
	"github.com/okian/teamstats/internal/domain/sequence"
)

// Snapshot is one team's current metrics. Field order is the JSON key order.
type Snapshot struct {
	Team string `json:"team"`
	TSS  Float  `json:"TSS"`
	SGP  Float  `json:"SGP"`
	PTI  Float  `json:"PTI"`
}

// Timeseries is one team's metrics for one round. Metrics are null when
// they failed coercion; the other optional keys are omitted when their role
// did not resolve or the cell was absent on this row.
type Timeseries struct {
	Team     string  `json:"team"`
	Round    int     `json:"round"`
	TSS      *Float  `json:"TSS"`
	SGP      *Float  `json:"SGP"`
	PTI      *Float  `json:"PTI"`
	Date     *string `json:"date,omitempty"`
	MatchID  *string `json:"match_id,omitempty"`
	Opponent *string `json:"opponent,omitempty"`
	Result   *string `json:"result,omitempty"`
	GF       *Float  `json:"gf,omitempty"`
	GA       *Float  `json:"ga,omitempty"`
}

// Drops counts rows left out of the output, by reason.
type Drops struct {
	MissingTeam   int
	MissingMetric int
}

// Total returns the number of dropped rows.
func (d Drops) Total() int { return d.MissingTeam + d.MissingMetric }

// BuildSnapshots emits one record per row that has a team and all three
// metrics, sorted by team ascending. Rows are not grouped or merged.
func BuildSnapshots(cols *normalize.Columns) ([]Snapshot, Drops) {
	var (
		out   = make([]Snapshot, 0, cols.Len())
		drops Drops
	)
	for i := 0; i < cols.Len(); i++ {
		team, ok := cols.Text(schema.RoleTeam, i).Get()
		if !ok {
			drops.MissingTeam++
			continue
		}
		tss, okT := cols.Number(schema.RoleTSS, i).Get()
		sgp, okS := cols.Number(schema.RoleSGP, i).Get()
		pti, okP := cols.Number(schema.RolePTI, i).Get()
		if !okT || !okS || !okP {
			drops.MissingMetric++
			continue
		}
		out = append(out, Snapshot{Team: team, TSS: Float(tss), SGP: Float(sgp), PTI: Float(pti)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Team < out[j].Team
	})
	return out, drops
}

// BuildTimeseries emits one record per sequenced row, team-major and in
// each group's order. Optional keys are set per row from cols, so a value
// missing on one row does not affect another.
func BuildTimeseries(groups []sequence.Group, cols *normalize.Columns) []Timeseries {
	n := 0
	for _, g := range groups {
		n += len(g.Rows)
	}
	out := make([]Timeseries, 0, n)
	for _, g := range groups {
		for _, row := range g.Rows {
			i := row.Index
			rec := Timeseries{
				Team:     g.Team,
				Round:    row.Round,
				TSS:      floatPtr(cols.Number(schema.RoleTSS, i).Get()),
				SGP:      floatPtr(cols.Number(schema.RoleSGP, i).Get()),
				PTI:      floatPtr(cols.Number(schema.RolePTI, i).Get()),
				MatchID:  cols.Text(schema.RoleMatchID, i).Ptr(),
				Opponent: cols.Text(schema.RoleOpponent, i).Ptr(),
				Result:   cols.Text(schema.RoleResult, i).Ptr(),
				GF:       floatPtr(cols.Number(schema.RoleGoalsFor, i).Get()),
				GA:       floatPtr(cols.Number(schema.RoleGoalsAgainst, i).Get()),
			}
			if d, ok := cols.Date(schema.RoleDate, i).Get(); ok {
				s := normalize.FormatDate(d)
				rec.Date = &s
			}
			out = append(out, rec)
		}
	}
	return out
}
