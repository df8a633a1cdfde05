// Package resolve reconciles free-text reporting-unit names with the district
// vocabulary of the boundary file.
package resolve

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/crime-map/internal/model"
)

// Canonical standardizes a name into a join key by:
//  1. Applying Unicode NFC composition
//  2. Trimming surrounding whitespace
//  3. Converting to uppercase
//
// Canonical is idempotent.
func Canonical(name string) model.CanonicalKey {
	name = norm.NFC.String(name)
	name = strings.TrimSpace(name)
	return model.CanonicalKey(strings.ToUpper(name))
}

// Normalize maps a raw name through the alias table and canonicalizes the
// result. Names without an alias entry pass through with only case and
// whitespace normalization applied.
func Normalize(raw string, table AliasTable) model.CanonicalKey {
	if mapped, ok := table.Lookup(raw); ok {
		return Canonical(mapped)
	}
	return Canonical(raw)
}
