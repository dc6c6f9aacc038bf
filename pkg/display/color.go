package display

import (
	"unicode"
	"unicode/utf16"
)

// AvatarColor is a pair of background/foreground utility classes.
type AvatarColor string

// Palette is the fixed set of avatar colors ColorForName picks from.
var Palette = []AvatarColor{
	"bg-amber-100 text-amber-700",
	"bg-emerald-100 text-emerald-700",
	"bg-sky-100 text-sky-700",
	"bg-violet-100 text-violet-700",
	"bg-rose-100 text-rose-700",
	"bg-cyan-100 text-cyan-700",
}

// ColorForName maps name onto Palette by summing its character codes modulo
// the palette size. Characters outside the Basic Multilingual Plane count as
// their leading UTF-16 surrogate, so the same name always lands on the same
// entry as in the web client.
func ColorForName(name string) AvatarColor {
	sum := 0
	for _, r := range name {
		if hi, _ := utf16.EncodeRune(r); hi != unicode.ReplacementChar {
			sum += int(hi)
			continue
		}
		sum += int(r)
	}
	return Palette[sum%len(Palette)]
}
