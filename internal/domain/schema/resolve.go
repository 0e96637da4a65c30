package schema

import (
	"strings"
	"unicode"
)

// Schema is the role to column mapping for one table. Unresolved roles
// are absent from the map.
type Schema map[Role]string

// Column returns the column resolved for r.
func (s Schema) Column(r Role) (string, bool) {
	col, ok := s[r]
	return col, ok
}

// Has reports whether r resolved.
func (s Schema) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Unresolved returns the roles of specs that did not resolve, in spec order.
func (s Schema) Unresolved(specs []Spec) []Role {
	var out []Role
	for _, sp := range specs {
		if !s.Has(sp.Role) {
			out = append(out, sp.Role)
		}
	}
	return out
}

type resolver struct {
	wordBoundary bool
}

// Resolve maps each spec's role onto a header column. For every role the
// exact tier runs first: candidates in order, each compared
// case-insensitively against the header in order. Only when no candidate
// matches exactly does the substring tier run, with the same ordering.
// The first hit wins, so candidate order beats header order and header
// order breaks ties for a single candidate. Resolve never fails; callers
// decide which unresolved roles matter.
func Resolve(header []string, specs []Spec, opts ...Option) Schema {
	r := &resolver{}
	for _, opt := range opts {
		opt(r)
	}

	lowered := make([]string, len(header))
	for i, h := range header {
		lowered[i] = strings.ToLower(h)
	}

	out := make(Schema, len(specs))
	for _, sp := range specs {
		if col, ok := r.pick(header, lowered, sp.Candidates); ok {
			out[sp.Role] = col
		}
	}
	return out
}

func (r *resolver) pick(header, lowered, candidates []string) (string, bool) {
	for _, cand := range candidates {
		c := strings.ToLower(cand)
		for i, h := range lowered {
			if h == c {
				return header[i], true
			}
		}
	}
	for _, cand := range candidates {
		c := strings.ToLower(cand)
		if c == "" {
			continue
		}
		for i, h := range lowered {
			if r.contains(h, c) {
				return header[i], true
			}
		}
	}
	return "", false
}

func (r *resolver) contains(column, candidate string) bool {
	if !r.wordBoundary {
		return strings.Contains(column, candidate)
	}
	ct := tokens(column)
	dt := tokens(candidate)
	if len(dt) == 0 || len(dt) > len(ct) {
		return false
	}
	for i := 0; i+len(dt) <= len(ct); i++ {
		match := true
		for j := range dt {
			if ct[i+j] != dt[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Require returns a *SchemaResolutionError naming every role in roles that
// s did not resolve, or nil when all resolved.
func Require(s Schema, header []string, roles ...Role) error {
	var missing []Role
	for _, r := range roles {
		if !s.Has(r) {
			missing = append(missing, r)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &SchemaResolutionError{
		Missing: missing,
		Header:  append([]string(nil), header...),
	}
}
