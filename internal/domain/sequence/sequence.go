// Package sequence orders each team's rows chronologically and assigns the
// team-local round index.
package sequence

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/teamstats/internal/domain/normalize"
)

// Row is the ordering view of one source row.
type Row struct {
	// Index is the row's position in the source table.
	Index   int
	Team    string
	Date    normalize.Optional[time.Time]
	MatchID normalize.Optional[string]
	// Source is the parsed round cell, if the round column resolved.
	Source normalize.Optional[int]
	// Round is the assigned round, set by AssignRounds.
	Round int
}

// Keys describes which ordering columns resolved for the table.
type Keys struct {
	Date    bool
	MatchID bool
	// Round reports that the source round column resolved.
	Round bool
}

// Group is one team's rows in emitted order.
type Group struct {
	Team string
	Rows []Row
}

// Sequence partitions rows by team, orders each partition and assigns
// rounds. Groups are returned in ascending team order.
func Sequence(rows []Row, keys Keys) []Group {
	groups := Partition(rows)
	for i := range groups {
		Order(groups[i].Rows, keys)
		groups[i].Rows = AssignRounds(groups[i].Rows, keys.Round)
	}
	return groups
}

// Partition groups rows by team keeping source order inside each group.
func Partition(rows []Row) []Group {
	byTeam := make(map[string]int)
	var groups []Group
	for _, r := range rows {
		idx, ok := byTeam[r.Team]
		if !ok {
			idx = len(groups)
			byTeam[r.Team] = idx
			groups = append(groups, Group{Team: r.Team})
		}
		groups[idx].Rows = append(groups[idx].Rows, r)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Team < groups[j].Team
	})
	return groups
}

// Order sorts one partition in place. With a date column the key is
// (date, match id, source index) with absent dates and match ids last;
// otherwise it is the source index alone.
func Order(rows []Row, keys Keys) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if keys.Date {
			if c := compareDates(a.Date, b.Date); c != 0 {
				return c < 0
			}
			if keys.MatchID {
				if c := compareMatchIDs(a.MatchID, b.MatchID); c != 0 {
					return c < 0
				}
			}
		}
		return a.Index < b.Index
	})
}

// AssignRounds numbers an already ordered partition. Position p (0-based)
// gets its sourced round when sourced is true and the cell parsed, and
// p+1 otherwise. With sourced rounds the partition is then stably
// re-ordered by round so rounds never decrease in emitted order. The
// input slice is not modified.
func AssignRounds(rows []Row, sourced bool) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	for p := range out {
		if v, ok := out[p].Source.Get(); sourced && ok {
			out[p].Round = v
			continue
		}
		out[p].Round = p + 1
	}
	if sourced {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Round < out[j].Round
		})
	}
	return out
}

func compareDates(a, b normalize.Optional[time.Time]) int {
	switch {
	case a.Present && b.Present:
		return a.Value.Compare(b.Value)
	case a.Present:
		return -1
	case b.Present:
		return 1
	default:
		return 0
	}
}

// compareMatchIDs compares numerically when both ids are numbers and
// lexicographically otherwise.
func compareMatchIDs(a, b normalize.Optional[string]) int {
	switch {
	case a.Present && b.Present:
		fa, errA := strconv.ParseFloat(a.Value, 64)
		fb, errB := strconv.ParseFloat(b.Value, 64)
		if errA == nil && errB == nil {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
		return strings.Compare(a.Value, b.Value)
	case a.Present:
		return -1
	case b.Present:
		return 1
	default:
		return 0
	}
}
