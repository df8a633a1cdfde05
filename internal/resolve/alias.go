package resolve

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crime-map/internal/model"
)

// Policy selects which incident alias table a run uses.
type Policy string

const (
	// PolicyStrict applies spelling fixes only; policing units that are not
	// admin districts keep their own key and show up as unmatched.
	PolicyStrict Policy = "strict"
	// PolicyPermissive additionally folds sub-district policing units into
	// the district that contains them.
	PolicyPermissive Policy = "permissive"
)

// ParsePolicy parses a policy name (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyStrict:
		return PolicyStrict, nil
	case PolicyPermissive:
		return PolicyPermissive, nil
	default:
		return "", eris.Errorf("resolve: unknown alias policy %q (want strict or permissive)", s)
	}
}

// AliasTable maps raw names to canonical district names. Lookups ignore
// case and surrounding whitespace. The zero value is an empty table.
type AliasTable struct {
	entries map[model.CanonicalKey]string
}

// NewAliasTable copies m into an immutable table.
func NewAliasTable(m map[string]string) AliasTable {
	entries := make(map[model.CanonicalKey]string, len(m))
	for raw, canonical := range m {
		entries[Canonical(raw)] = canonical
	}
	return AliasTable{entries: entries}
}

// Lookup returns the mapped name for raw, if any.
func (t AliasTable) Lookup(raw string) (string, bool) {
	v, ok := t.entries[Canonical(raw)]
	return v, ok
}

// Len returns the number of aliases.
func (t AliasTable) Len() int { return len(t.entries) }

// Keys returns the canonical form of every alias key, sorted.
func (t AliasTable) Keys() []model.CanonicalKey {
	keys := make([]model.CanonicalKey, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

var spellingFixes = map[string]string{
	"Mahaboob Nagar": "MAHABUBNAGAR",
	"Ranga Reddy":    "RANGAREDDY",
	"Warangal Urban": "WARANGAL",
	"Hyderabad City": "HYDERABAD",
}

// Folds are approximations: the policing unit straddles or sits inside the
// target district.
var policeUnitFolds = map[string]string{
	"Secunderabad Railway": "HYDERABAD",
	"Cyberabad":            "RANGAREDDY",
}

var boundarySpellings = map[string]string{
	"Mahbubnagar":    "MAHABUBNAGAR",
	"Ranga Reddy":    "RANGAREDDY",
	"Rangareddi":     "RANGAREDDY",
	"K.V.Rangareddy": "RANGAREDDY",
}

var (
	strictTable     = NewAliasTable(spellingFixes)
	permissiveTable = NewAliasTable(merge(spellingFixes, policeUnitFolds))
	boundaryTable   = NewAliasTable(boundarySpellings)
)

// Strict returns the spelling-fix-only incident table.
func Strict() AliasTable { return strictTable }

// Permissive returns the spelling-fix table plus policing-unit folds.
func Permissive() AliasTable { return permissiveTable }

// BoundarySpellings returns the table applied to polygon district names.
// Boundary names are admin districts already, so no folding applies.
func BoundarySpellings() AliasTable { return boundaryTable }

// TableFor returns the incident alias table for a policy.
func TableFor(p Policy) (AliasTable, error) {
	switch p {
	case PolicyStrict:
		return strictTable, nil
	case PolicyPermissive:
		return permissiveTable, nil
	default:
		return AliasTable{}, eris.Errorf("resolve: unknown alias policy %q", p)
	}
}

func merge(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
