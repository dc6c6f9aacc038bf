package display

import (
	"strings"
	"unicode/utf8"
)

// Initials returns the uppercased first letter of the first two
// whitespace-separated words of name. A single word yields one letter and an
// empty or blank name yields "".
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) > 2 {
		words = words[:2]
	}
	var b strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
