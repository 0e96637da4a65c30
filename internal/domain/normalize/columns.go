package normalize

import (
	"time"

	"github.com/okian/teamstats/internal/domain/model"
	"github.com/okian/teamstats/internal/domain/schema"
)

// Stats counts, per role, cells that were present in a resolved column but
// became absent during coercion (empty or unparsable).
type Stats struct {
	Absent map[schema.Role]int
}

// AbsentFor returns the absent cell count for r.
func (s Stats) AbsentFor(r schema.Role) int {
	return s.Absent[r]
}

// Columns holds the typed values of every resolved role, one slot per
// source row. Each column is coerced independently of the others.
type Columns struct {
	rows     int
	texts    map[schema.Role][]Optional[string]
	numbers  map[schema.Role][]Optional[float64]
	dates    map[schema.Role][]Optional[time.Time]
	integers map[schema.Role][]Optional[int]
	stats    Stats
}

// Normalize coerces every column that s resolved, according to its role's
// kind. Unresolved roles read back as absent for every row.
func Normalize(tbl *model.Table, s schema.Schema) *Columns {
	c := &Columns{
		rows:     tbl.Len(),
		texts:    make(map[schema.Role][]Optional[string]),
		numbers:  make(map[schema.Role][]Optional[float64]),
		dates:    make(map[schema.Role][]Optional[time.Time]),
		integers: make(map[schema.Role][]Optional[int]),
		stats:    Stats{Absent: make(map[schema.Role]int)},
	}
	for role, col := range s {
		raw := tbl.Column(col)
		switch role.Kind() {
		case schema.KindNumber:
			c.numbers[role] = coerce(raw, ParseNumber)
			c.stats.Absent[role] = countAbsent(c.numbers[role])
		case schema.KindDate:
			c.dates[role] = coerce(raw, ParseDate)
			c.stats.Absent[role] = countAbsent(c.dates[role])
		case schema.KindInteger:
			c.integers[role] = coerce(raw, ParseRound)
			c.stats.Absent[role] = countAbsent(c.integers[role])
		default:
			c.texts[role] = coerce(raw, ParseText)
			c.stats.Absent[role] = countAbsent(c.texts[role])
		}
	}
	return c
}

func coerce[T any](raw []string, parse func(string) Optional[T]) []Optional[T] {
	out := make([]Optional[T], len(raw))
	for i, cell := range raw {
		out[i] = parse(cell)
	}
	return out
}

func countAbsent[T any](vals []Optional[T]) int {
	n := 0
	for _, v := range vals {
		if !v.Present {
			n++
		}
	}
	return n
}

func at[T any](col []Optional[T], i int) Optional[T] {
	if i < 0 || i >= len(col) {
		return None[T]()
	}
	return col[i]
}

// Len returns the number of rows.
func (c *Columns) Len() int { return c.rows }

// Stats returns the coercion counters.
func (c *Columns) Stats() Stats { return c.stats }

// Text returns row i of a string role.
func (c *Columns) Text(r schema.Role, i int) Optional[string] { return at(c.texts[r], i) }

// Number returns row i of a numeric role.
func (c *Columns) Number(r schema.Role, i int) Optional[float64] { return at(c.numbers[r], i) }

// Date returns row i of the date role.
func (c *Columns) Date(r schema.Role, i int) Optional[time.Time] { return at(c.dates[r], i) }

// Integer returns row i of an integer role.
func (c *Columns) Integer(r schema.Role, i int) Optional[int] { return at(c.integers[r], i) }
