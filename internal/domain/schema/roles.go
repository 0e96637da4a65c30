// Package schema maps semantic roles onto the columns of an arbitrary
// source header.
package schema

import "strings"

// Role is a semantic field the output needs, independent of the literal
// column name it comes from.
type Role string

// Roles understood by the pipelines.
const (
	RoleTeam         Role = "team"
	RoleOpponent     Role = "opponent"
	RoleDate         Role = "date"
	RoleMatchID      Role = "match_id"
	RoleRound        Role = "round"
	RoleTSS          Role = "TSS"
	RoleSGP          Role = "SGP"
	RolePTI          Role = "PTI"
	RoleResult       Role = "result"
	RoleGoalsFor     Role = "goals_for"
	RoleGoalsAgainst Role = "goals_against"
)

// AllRoles lists every role in output order.
var AllRoles = []Role{
	RoleTeam, RoleRound, RoleTSS, RoleSGP, RolePTI,
	RoleDate, RoleMatchID, RoleOpponent, RoleResult, RoleGoalsFor, RoleGoalsAgainst,
}

// MetricRoles are the three scalar metrics carried by every record.
var MetricRoles = []Role{RoleTSS, RoleSGP, RolePTI}

// Kind is the value type a role's cells are coerced to.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindDate
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindInteger:
		return "integer"
	default:
		return "string"
	}
}

// Kind returns the coercion kind for r.
func (r Role) Kind() Kind {
	switch r {
	case RoleTSS, RoleSGP, RolePTI, RoleGoalsFor, RoleGoalsAgainst:
		return KindNumber
	case RoleDate:
		return KindDate
	case RoleRound:
		return KindInteger
	default:
		return KindString
	}
}

// ParseRole matches name against the known roles case-insensitively.
func ParseRole(name string) (Role, bool) {
	name = strings.TrimSpace(name)
	for _, r := range AllRoles {
		if strings.EqualFold(string(r), name) {
			return r, true
		}
	}
	return "", false
}

// Spec pairs a role with its candidate column names in priority order.
type Spec struct {
	Role       Role
	Candidates []string
}

// OverviewSpecs are the role specs for the team snapshot export.
func OverviewSpecs() []Spec {
	return []Spec{
		{Role: RoleTeam, Candidates: []string{"TeamLabel", "Team", "team"}},
		{Role: RoleTSS, Candidates: []string{"TSS"}},
		{Role: RoleSGP, Candidates: []string{"SGP"}},
		{Role: RolePTI, Candidates: []string{"PTI"}},
	}
}

// TimeseriesSpecs are the role specs for the per-match team export.
func TimeseriesSpecs() []Spec {
	return []Spec{
		{Role: RoleTeam, Candidates: []string{"team", "teamname", "team_name", "teamlabel", "team_name_ko", "club", "Team"}},
		{Role: RoleOpponent, Candidates: []string{"opp", "opponent", "opp_team", "opp_team_name", "opp_team_name_ko"}},
		{Role: RoleDate, Candidates: []string{"date", "game_date", "match_date"}},
		{Role: RoleMatchID, Candidates: []string{"match_id", "game_id", "fixture_id", "id"}},
		{Role: RoleRound, Candidates: []string{"round", "matchday", "md", "gw"}},
		{Role: RoleTSS, Candidates: []string{"tss", "TSS"}},
		{Role: RoleSGP, Candidates: []string{"sgp", "SGP"}},
		{Role: RolePTI, Candidates: []string{"pti", "PTI"}},
		{Role: RoleGoalsFor, Candidates: []string{"gf", "goals_for", "team_goals"}},
		{Role: RoleGoalsAgainst, Candidates: []string{"ga", "goals_against", "opp_goals"}},
		{Role: RoleResult, Candidates: []string{"result", "wl", "wld", "outcome"}},
	}
}

// Override replaces candidate lists by role name. Roles not already in
// specs are appended. An unrecognised role name is an error.
func Override(specs []Spec, overrides map[string][]string) ([]Spec, error) {
	out := make([]Spec, len(specs))
	copy(out, specs)
	if len(overrides) == 0 {
		return out, nil
	}

	// apply in AllRoles order so the result does not depend on map iteration
	byRole := make(map[Role][]string, len(overrides))
	for name, cands := range overrides {
		r, ok := ParseRole(name)
		if !ok {
			return nil, &unknownRoleError{name: name}
		}
		byRole[r] = cands
	}
	for _, r := range AllRoles {
		cands, ok := byRole[r]
		if !ok || len(cands) == 0 {
			continue
		}
		replaced := false
		for i := range out {
			if out[i].Role == r {
				out[i] = Spec{Role: r, Candidates: append([]string(nil), cands...)}
				replaced = true
			}
		}
		if !replaced {
			out = append(out, Spec{Role: r, Candidates: append([]string(nil), cands...)})
		}
	}
	return out, nil
}

type unknownRoleError struct{ name string }

func (e *unknownRoleError) Error() string { return ErrUnknownRole.Error() + ": " + e.name }
func (e *unknownRoleError) Unwrap() error { return ErrUnknownRole }
