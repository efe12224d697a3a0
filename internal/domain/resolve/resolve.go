// Package resolve turns a user-supplied item query into an explicit
// three-way outcome: exact match, ambiguous match set, or no match.
package resolve

import (
	"strconv"
	"strings"

	"github.com/okian/runelens/internal/domain/model"
)

// Catalog is the read side of the item index needed for resolution.
type Catalog interface {
	ByID(id int) (model.ItemMeta, bool)
	SearchByName(query string) []model.ItemMeta
}

// Outcome tags a resolution result. Callers must branch on all three
// cases; collapsing Ambiguous into Exact or NotFound loses the match set
// a caller needs to prompt for disambiguation.
type Outcome int

const (
	NotFound Outcome = iota
	Exact
	Ambiguous
)

// String names the outcome for logs.
func (o Outcome) String() string {
	switch o {
	case Exact:
		return "exact"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not_found"
	}
}

// Result is a tagged resolution outcome. Item is set for Exact; Matches
// carries the full match set for Ambiguous.
type Result struct {
	Outcome Outcome
	Item    model.ItemMeta
	Matches []model.ItemMeta
}

// Resolve looks the query up in the catalog. A query that parses as an
// integer is only ever an id lookup: a numeric-looking name is never
// retried as a name search, so an unknown id is NotFound. Otherwise a
// case-insensitive name search decides: zero hits NotFound, one Exact,
// more Ambiguous.
func Resolve(query string, catalog Catalog) Result {
	trimmed := strings.TrimSpace(query)

	if id, err := strconv.Atoi(trimmed); err == nil {
		meta, ok := catalog.ByID(id)
		if !ok {
			return Result{Outcome: NotFound}
		}
		return Result{Outcome: Exact, Item: meta}
	}

	matches := catalog.SearchByName(trimmed)
	switch len(matches) {
	case 0:
		return Result{Outcome: NotFound}
	case 1:
		return Result{Outcome: Exact, Item: matches[0]}
	default:
		return Result{Outcome: Ambiguous, Matches: matches}
	}
}
