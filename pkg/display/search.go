package display

import (
	"strings"

	"golang.org/x/text/cases"
)

// MatchName reports whether query occurs in name, ignoring case. An empty
// query matches everything.
func MatchName(name, query string) bool {
	if query == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(name), fold.String(query))
}
