// Package model contains the source table passed between layers.
package model

// Table is a fully loaded delimited file. Header keeps source order and
// every row maps each header name to its raw cell text ("" when missing).
type Table struct {
	Path     string
	Encoding string
	Header   []string
	Rows     []map[string]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns the raw cells of the named column in row order.
// Unknown columns yield a slice of empty strings.
func (t *Table) Column(name string) []string {
	out := make([]string, t.Len())
	for i, row := range t.Rows {
		out[i] = row[name]
	}
	return out
}
