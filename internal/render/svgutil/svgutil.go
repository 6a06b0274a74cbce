// Package svgutil provides the small helpers shared by every SVG builder:
// text escaping, ellipsis truncation, and deterministic number formatting.
//
// Builders emit documents via string templating, so all user-controlled text
// must pass through Escape before it reaches a text node, and all computed
// coordinates must pass through Ftoa so that identical inputs always yield
// byte-identical documents.
package svgutil

import (
	"math"
	"strconv"
	"strings"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape makes a string safe for embedding in SVG text nodes and attributes.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Truncate limits a string to max runes, replacing the tail with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// Ftoa formats a coordinate rounded to two decimal places with trailing
// zeros trimmed, e.g. 12.5 -> "12.5", 40.0 -> "40".
func Ftoa(v float64) string {
	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// Itoa formats an integer coordinate.
func Itoa(v int) string {
	return strconv.Itoa(v)
}
