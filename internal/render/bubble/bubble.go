// Package bubble renders messenger-style speech bubbles as self-contained
// SVG documents: tag pills or wrapped text inside a rounded outline with a
// directional tail, optionally accompanied by a profile avatar.
package bubble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/git-bubble/api/internal/domain"
	"github.com/git-bubble/api/internal/render/svgutil"
	"github.com/git-bubble/api/internal/render/textmetrics"
)

// ErrEmptyContent reports that the request carried no renderable content:
// zero tags in tag mode, or blank text in text mode.
var ErrEmptyContent = errors.New("bubble: content is required")

// Geometry constants of the messenger outline.
const (
	profileSize    = 60.0
	profilePadding = 20.0
	sideMargin     = 20.0
	cornerRadius   = 20.0
	tailSize       = 8.0

	innerPadding  = 15.0
	textTopOffset = 25.0
	titleAdvance  = 45.0
	rowAdvance    = 28.0
	pillHeight    = 22.0
)

// Profile carries the avatar parameter and, when the HTTP layer managed to
// fetch and embed it, the resolved data URI. A non-URL value or a failed
// fetch leaves DataURI empty and the builder falls back to a deterministic
// initial avatar.
type Profile struct {
	Value   string
	DataURI string
}

// Params is the validated input of Build. Width and FontSize arrive already
// clamped by the HTTP layer.
type Params struct {
	Title     string
	Content   string
	Mode      domain.BubbleMode
	Theme     domain.Theme
	Direction domain.Direction
	Width     float64
	FontSize  float64
	Animation domain.Animation
	Profile   Profile
}

type themeColors struct {
	fill   string
	stroke string
	text   string
	tagBG  string
}

var themes = map[domain.Theme]themeColors{
	domain.ThemeLight: {
		fill:   "#ffffff",
		stroke: "#e0e0e0",
		text:   "#333333",
		tagBG:  "rgba(0,0,0,0.05)",
	},
	domain.ThemeDark: {
		fill:   "#1a1a1a",
		stroke: "none",
		text:   "#ffffff",
		tagBG:  "rgba(255,255,255,0.15)",
	},
}

// SplitTags turns CSV content into trimmed, non-empty tag tokens.
func SplitTags(content string) []string {
	var tags []string
	for _, part := range strings.Split(content, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Build renders the bubble SVG. It returns ErrEmptyContent when the request
// carries nothing to draw; every other input is already clamped or defaulted.
func Build(p Params) (string, error) {
	colors := themes[p.Theme]
	isRight := p.Direction == domain.DirectionRight
	hasProfile := p.Profile.Value != ""
	hasTitle := strings.TrimSpace(p.Title) != ""

	profileReserve := sideMargin
	if hasProfile {
		profileReserve = profileSize + profilePadding
	}
	rightMargin := sideMargin
	if isRight && hasProfile {
		rightMargin = profileSize + profilePadding
	}

	maxTextWidth := p.Width - profileReserve - 40
	if isRight {
		maxTextWidth = p.Width - rightMargin - 40
	}

	var (
		lines        []string
		layout       textmetrics.TagLayout
		bubbleHeight float64
	)
	lineHeight := p.FontSize * 1.5

	switch p.Mode {
	case domain.ModeText:
		text := strings.TrimSpace(p.Content)
		if text == "" {
			return "", ErrEmptyContent
		}
		lines = textmetrics.Wrap(text, maxTextWidth-2*innerPadding, p.FontSize)
		bubbleHeight = 2 * textmetrics.TagBlockPadding
		if hasTitle {
			bubbleHeight += textmetrics.TagTitleAllowance
		}
		bubbleHeight += float64(len(lines)) * lineHeight
	default:
		tags := SplitTags(p.Content)
		if len(tags) == 0 {
			return "", ErrEmptyContent
		}
		layout = textmetrics.LayoutTags(tags, maxTextWidth, p.FontSize, hasTitle)
		bubbleHeight = layout.TotalHeight
	}

	totalHeight := bubbleHeight
	if hasProfile && profileSize+profilePadding > totalHeight {
		totalHeight = profileSize + profilePadding
	}

	bubbleX := profileReserve
	if isRight {
		bubbleX = sideMargin
	}
	bubbleY := (totalHeight-bubbleHeight)/2 + 10
	bubbleWidth := p.Width - bubbleX - sideMargin
	if isRight {
		bubbleWidth = p.Width - bubbleX - rightMargin
	}
	outlineHeight := bubbleHeight - 20

	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">`,
		svgutil.Ftoa(p.Width), svgutil.Ftoa(totalHeight), svgutil.Ftoa(p.Width), svgutil.Ftoa(totalHeight))
	b.WriteString(animationStyle(p.Animation))
	b.WriteString(`<defs><filter id="shadow"><feDropShadow dx="0" dy="2" stdDeviation="4" flood-opacity="0.1"/></filter></defs>`)
	b.WriteString(avatar(p.Profile, isRight, p.Width, totalHeight))
	b.WriteString(`<g class="bubble-container">`)

	path := outlinePath(bubbleX, bubbleY, bubbleWidth, outlineHeight, isRight)
	fmt.Fprintf(&b, `<path d="%s" fill="%s" stroke="%s" stroke-width="1" filter="url(#shadow)"/>`,
		path, colors.fill, colors.stroke)

	if hasTitle {
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="start" fill="%s" font-family="%s" font-size="12" font-weight="800" opacity="0.8">%s</text>`,
			svgutil.Ftoa(bubbleX+innerPadding), svgutil.Ftoa((totalHeight-bubbleHeight)/2+30),
			colors.text, fontFamily, svgutil.Escape(strings.TrimSpace(p.Title)))
	}

	startY := bubbleY + textTopOffset
	if hasTitle {
		startY = bubbleY + titleAdvance
	}

	if p.Mode == domain.ModeText {
		for i, line := range lines {
			fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="start" fill="%s" font-family="%s" font-size="%s" font-weight="400">%s</text>`,
				svgutil.Ftoa(bubbleX+innerPadding), svgutil.Ftoa(startY+float64(i)*lineHeight),
				colors.text, fontFamily, svgutil.Ftoa(p.FontSize), svgutil.Escape(line))
		}
	} else {
		writeTagRows(&b, layout.Rows, bubbleX, startY, p.FontSize, colors)
	}

	b.WriteString(`</g></svg>`)
	return b.String(), nil
}

const fontFamily = "-apple-system, BlinkMacSystemFont, sans-serif"

func writeTagRows(b *strings.Builder, rows [][]string, bubbleX, startY, fontSize float64, colors themeColors) {
	for rowIndex, row := range rows {
		y := startY + float64(rowIndex)*rowAdvance
		x := bubbleX + innerPadding
		for _, tag := range row {
			w := textmetrics.TagWidth(tag, fontSize)
			fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" rx="11" fill="%s"/>`,
				svgutil.Ftoa(x), svgutil.Ftoa(y), svgutil.Ftoa(w), svgutil.Ftoa(pillHeight), colors.tagBG)
			fmt.Fprintf(b, `<text x="%s" y="%s" text-anchor="middle" fill="%s" font-family="%s" font-size="%s" font-weight="500">%s</text>`,
				svgutil.Ftoa(x+w/2), svgutil.Ftoa(y+14), colors.text, fontFamily,
				svgutil.Ftoa(fontSize), svgutil.Escape(tag))
			x += w + textmetrics.TagGap
		}
	}
}

// outlinePath draws the rounded rectangle with a triangular tail notch on
// the side the bubble points to.
func outlinePath(x, y, w, h float64, right bool) string {
	f := svgutil.Ftoa
	tailY := y + h/2

	var p strings.Builder
	fmt.Fprintf(&p, "M%s,%s", f(x+cornerRadius), f(y))
	fmt.Fprintf(&p, " L%s,%s", f(x+w-cornerRadius), f(y))
	fmt.Fprintf(&p, " Q%s,%s %s,%s", f(x+w), f(y), f(x+w), f(y+cornerRadius))
	if right {
		fmt.Fprintf(&p, " L%s,%s", f(x+w), f(tailY-tailSize))
		fmt.Fprintf(&p, " L%s,%s", f(x+w+tailSize), f(tailY))
		fmt.Fprintf(&p, " L%s,%s", f(x+w), f(tailY+tailSize))
	}
	fmt.Fprintf(&p, " L%s,%s", f(x+w), f(y+h-cornerRadius))
	fmt.Fprintf(&p, " Q%s,%s %s,%s", f(x+w), f(y+h), f(x+w-cornerRadius), f(y+h))
	fmt.Fprintf(&p, " L%s,%s", f(x+cornerRadius), f(y+h))
	fmt.Fprintf(&p, " Q%s,%s %s,%s", f(x), f(y+h), f(x), f(y+h-cornerRadius))
	if right {
		fmt.Fprintf(&p, " L%s,%s", f(x), f(y+cornerRadius))
	} else {
		fmt.Fprintf(&p, " L%s,%s", f(x), f(tailY+tailSize))
		fmt.Fprintf(&p, " L%s,%s", f(x-tailSize), f(tailY))
		fmt.Fprintf(&p, " L%s,%s", f(x), f(tailY-tailSize))
		fmt.Fprintf(&p, " L%s,%s", f(x), f(y+cornerRadius))
	}
	fmt.Fprintf(&p, " Q%s,%s %s,%s Z", f(x), f(y), f(x+cornerRadius), f(y))
	return p.String()
}

func animationStyle(a domain.Animation) string {
	switch a {
	case domain.AnimationFloat:
		return `<style>.bubble-container{animation:float 3s ease-in-out infinite}@keyframes float{0%,100%{transform:translateY(0px)}50%{transform:translateY(-8px)}}</style>`
	case domain.AnimationPulse:
		return `<style>.bubble-container{animation:pulse 2s ease-in-out infinite}@keyframes pulse{0%,100%{transform:scale(1)}50%{transform:scale(1.05)}}</style>`
	}
	return ""
}
