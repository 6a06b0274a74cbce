// Package textmetrics estimates on-screen pixel widths for mixed-script text
// and derives line and tag-row layouts from those estimates.
//
// The width model is deliberately approximate: it never consults real font
// metrics, so rendering stays a pure function of the request parameters. Each
// character falls into one of three classes (pictographic, East-Asian wide,
// default) with an empirical per-class multiplier.
package textmetrics

import (
	"unicode"

	"golang.org/x/text/width"
)

// Width multipliers per character class. The tag constants differ from the
// flow-text constants on purpose: tag pills are measured tighter than
// wrapped prose, and both sets are load-bearing for layout output.
const (
	EmojiWidthFactor   = 1.3
	WideWidthFactor    = 1.15
	DefaultWidthFactor = 0.7

	TagWideFactor    = 0.9
	TagDefaultFactor = 0.6
	TagPadding       = 24.0
	TagMinWidth      = 40.0
)

// pictographs covers the emoji blocks the width model treats as extra wide:
// Miscellaneous Symbols, Miscellaneous Symbols and Pictographs through
// Supplemental Symbols and Pictographs, and Emoticons.
var pictographs = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x26FF, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F300, Hi: 0x1F9FF, Stride: 1},
	},
}

func isPictograph(r rune) bool {
	return unicode.Is(pictographs, r)
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// CharWidth estimates the rendered width of a single character at the given
// font size. The function is total: unknown and control characters fall into
// the default class.
func CharWidth(r rune, fontSize float64) float64 {
	switch {
	case isPictograph(r):
		return fontSize * EmojiWidthFactor
	case isWide(r):
		return fontSize * WideWidthFactor
	default:
		return fontSize * DefaultWidthFactor
	}
}

// StringWidth estimates the rendered width of a string at the given font size.
func StringWidth(s string, fontSize float64) float64 {
	var w float64
	for _, r := range s {
		w += CharWidth(r, fontSize)
	}
	return w
}

// TagWidth estimates the pill width of a tag: wide characters and the rest
// use their own multipliers, plus flat padding for the pill shape, floored
// at the minimum pill width.
func TagWidth(tag string, fontSize float64) float64 {
	var w float64
	for _, r := range tag {
		if isWide(r) {
			w += fontSize * TagWideFactor
		} else {
			w += fontSize * TagDefaultFactor
		}
	}
	w += TagPadding
	if w < TagMinWidth {
		return TagMinWidth
	}
	return w
}
