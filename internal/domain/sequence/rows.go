package sequence

import (
	"github.com/okian/teamstats/internal/domain/normalize"
	"github.com/okian/teamstats/internal/domain/schema"
)

// FromColumns builds the ordering rows from normalized columns. Rows
// without a team cannot be partitioned; their source indexes are
// returned in skipped.
func FromColumns(cols *normalize.Columns, s schema.Schema) (rows []Row, skipped []int) {
	rows = make([]Row, 0, cols.Len())
	for i := 0; i < cols.Len(); i++ {
		team, ok := cols.Text(schema.RoleTeam, i).Get()
		if !ok {
			skipped = append(skipped, i)
			continue
		}
		rows = append(rows, Row{
			Index:   i,
			Team:    team,
			Date:    cols.Date(schema.RoleDate, i),
			MatchID: cols.Text(schema.RoleMatchID, i),
			Source:  cols.Integer(schema.RoleRound, i),
		})
	}
	return rows, skipped
}

// KeysFor reports which ordering roles s resolved.
func KeysFor(s schema.Schema) Keys {
	return Keys{
		Date:    s.Has(schema.RoleDate),
		MatchID: s.Has(schema.RoleMatchID),
		Round:   s.Has(schema.RoleRound),
	}
}
