// Package divider renders horizontal decorative strips of repeating glyphs
// (dots, dashes, stars, hearts, sparkles) as self-contained SVG documents.
package divider

import (
	"fmt"
	"strings"

	"github.com/git-bubble/api/internal/domain"
	"github.com/git-bubble/api/internal/render/svgutil"
)

// Style names a glyph template.
type Style string

const (
	StyleDots     Style = "dots"
	StyleDashes   Style = "dashes"
	StyleStars    Style = "stars"
	StyleHearts   Style = "hearts"
	StyleSparkles Style = "sparkles"
)

// ParseStyle maps a raw query value onto a Style, defaulting to dots.
func ParseStyle(raw string) Style {
	switch Style(raw) {
	case StyleDashes, StyleStars, StyleHearts, StyleSparkles:
		return Style(raw)
	}
	return StyleDots
}

// Params is the validated input of Build. Size arrives already clamped to
// [0.5, 2.0] by the HTTP layer.
type Params struct {
	Width     float64
	Style     Style
	Color     string
	Animation bool
	Theme     domain.Theme
	Size      float64
}

// pattern is a glyph template: the element is drawn centered on the origin
// and tiled with the given base spacing before scaling.
type pattern struct {
	element string
	spacing float64
}

var patterns = map[Style]pattern{
	StyleDots: {
		element: `<circle cx="0" cy="0" r="3" fill="%s"/>`,
		spacing: 16,
	},
	StyleDashes: {
		element: `<rect x="-6" y="-2" width="12" height="4" rx="2" fill="%s"/>`,
		spacing: 24,
	},
	StyleStars: {
		element: `<path d="M0,-5 L1.5,-1.5 L5.5,-1.5 L2.5,1 L3.5,5 L0,2.5 L-3.5,5 L-2.5,1 L-5.5,-1.5 L-1.5,-1.5 Z" fill="%s"/>`,
		spacing: 28,
	},
	StyleHearts: {
		element: `<path d="M0,3 C-5,-2 -5,-5 -2.5,-5 C0,-5 0,-2 0,-2 C0,-2 0,-5 2.5,-5 C5,-5 5,-2 0,3 Z" fill="%s"/>`,
		spacing: 24,
	},
	StyleSparkles: {
		element: `<path d="M0,-6 L1,0 L0,6 L-1,0 Z M-4,-4 L0,1 L4,-4 L0,-1 Z" fill="%s"/>`,
		spacing: 28,
	},
}

// Horizontal inset excluded from the tiled strip, and the per-index stagger
// that produces the wave effect when animation is on.
const (
	edgeInset  = 40.0
	phaseDelay = 0.1
)

// Build renders the divider SVG. The glyph count is floor((width-40)/spacing)
// at the scaled spacing and the strip is centered horizontally. Each glyph
// gets an animateTransform staggered by index when animation is enabled.
func Build(p Params) string {
	pat, ok := patterns[p.Style]
	if !ok {
		pat = patterns[StyleDots]
	}

	scale := p.Size
	height := 40 * scale
	if height < 40 {
		height = 40
	}

	bg := "transparent"
	if p.Theme == domain.ThemeDark {
		bg = "#1A1A1A"
	}

	element := fmt.Sprintf(pat.element, p.Color)
	scaledSpacing := pat.spacing * scale
	itemCount := int((p.Width - edgeInset) / scaledSpacing)
	if itemCount < 0 {
		itemCount = 0
	}
	startX := (p.Width - float64(itemCount-1)*scaledSpacing) / 2
	baseY := height / 2
	bobDistance := 4.0 * scale
	f := svgutil.Ftoa

	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">`,
		f(p.Width), f(height), f(p.Width), f(height))
	fmt.Fprintf(&b, `<rect width="%s" height="%s" fill="%s"/>`, f(p.Width), f(height), bg)

	for i := 0; i < itemCount; i++ {
		x := startX + float64(i)*scaledSpacing
		if p.Animation {
			fmt.Fprintf(&b,
				`<g transform="translate(%s, %s)"><g transform="scale(%s)">%s`+
					`<animateTransform attributeName="transform" type="translate" values="0,0; 0,%s; 0,0" dur="1.2s" begin="%ss" repeatCount="indefinite" additive="sum"/>`+
					`</g></g>`,
				f(x), f(baseY), f(scale), element,
				f(-bobDistance/scale), f(float64(i)*phaseDelay))
			continue
		}
		fmt.Fprintf(&b, `<g transform="translate(%s, %s) scale(%s)">%s</g>`,
			f(x), f(baseY), f(scale), element)
	}

	b.WriteString(`</svg>`)
	return b.String()
}
