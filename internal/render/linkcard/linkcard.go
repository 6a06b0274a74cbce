// Package linkcard renders social-preview style cards for web pages:
// thumbnail, favicon, domain, wrapped title and description, and an optional
// pulsing corner badge. When the metadata collaborator failed, Build degrades
// to a fixed fallback card instead of propagating the failure.
package linkcard

import (
	"fmt"
	"strings"

	"github.com/git-bubble/api/internal/domain"
	"github.com/git-bubble/api/internal/render/svgutil"
	"github.com/git-bubble/api/internal/render/textmetrics"
)

// Metadata is the page summary resolved by the metadata fetch collaborator.
type Metadata struct {
	Title       string
	Description string
	Image       string
	Domain      string
}

// Params is the validated input of Build. All remote assets arrive
// pre-resolved as data URIs; empty strings mean the fetch failed and the
// corresponding element is omitted or replaced by a placeholder.
type Params struct {
	Domain     string // derived from the requested URL, used when Metadata is nil
	Width      float64
	Theme      domain.Theme
	Badge      bool
	BadgeText  string
	BadgeColor string

	Metadata          *Metadata
	ThumbnailDataURI  string
	FaviconDataURI    string
	BadgeImageDataURI string
}

type palette struct {
	bg        string
	black     string
	gray      string
	lightGray string
	shadow    string
	stroke    string
}

var palettes = map[domain.Theme]palette{
	domain.ThemeLight: {
		bg:        "#FFFFFF",
		black:     "#000000",
		gray:      "#666666",
		lightGray: "#E5E5E5",
		shadow:    "#888888",
		stroke:    "#222222",
	},
	domain.ThemeDark: {
		bg:        "#1A1A1A",
		black:     "#FFFFFF",
		gray:      "#BBBBBB",
		lightGray: "#404040",
		shadow:    "#000000",
		stroke:    "#888888",
	},
}

const (
	cardPadding   = 16.0
	thumbnailSize = 100.0
	lineHeight    = 20.0
	titleFontSize = 16.0
	descFontSize  = 11.0
	domainHeight  = 22.0
	badgeRadius   = 22.0
	badgeTextMax  = 10
	monoFont      = "monospace"
)

// Build renders the link card SVG. A nil Metadata produces the fallback
// card; Build never fails.
func Build(p Params) string {
	if p.Metadata == nil {
		return buildFallback(p)
	}

	c := palettes[p.Theme]
	meta := p.Metadata
	hasThumbnail := p.ThumbnailDataURI != ""

	contentX := cardPadding
	if hasThumbnail {
		contentX = cardPadding + thumbnailSize + 20
	}
	contentWidth := p.Width - contentX - cardPadding

	// Wrap budgets are floored generously so long unbroken tokens still
	// produce readable lines instead of degenerate single-character rows.
	titleWidth := maxf(contentWidth-10, 450)
	descWidth := maxf(contentWidth-10, 130)
	maxTitleLines := 3
	maxDescLines := 4
	if hasThumbnail {
		titleWidth = maxf(contentWidth-5, 380)
		descWidth = maxf(contentWidth-5, 160)
		maxTitleLines = 2
		maxDescLines = 2
	}

	titleLines := textmetrics.Wrap(meta.Title, titleWidth, titleFontSize)
	descLines := textmetrics.Wrap(meta.Description, descWidth, descFontSize)
	shownTitle := clip(titleLines, maxTitleLines)
	shownDesc := clip(descLines, maxDescLines)

	titleHeight := float64(len(shownTitle)) * lineHeight
	descHeight := float64(len(shownDesc)) * (lineHeight - 4)
	contentHeight := domainHeight + titleHeight + descHeight + 16

	innerHeight := contentHeight
	if hasThumbnail && thumbnailSize > innerHeight {
		innerHeight = thumbnailSize
	}
	height := cardPadding*2 + innerHeight

	badgePadding := 0.0
	if p.Badge {
		badgePadding = 28
	}

	f := svgutil.Ftoa
	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%s" height="%s" viewBox="%s %s %s %s" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" style="image-rendering: pixelated; image-rendering: crisp-edges;">`,
		f(p.Width+badgePadding), f(height+badgePadding),
		f(-badgePadding), f(-badgePadding), f(p.Width+badgePadding), f(height+badgePadding))

	fmt.Fprintf(&b, `<defs><clipPath id="thumbnailClip"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath><clipPath id="badgeClip"><circle cx="0" cy="0" r="%s"/></clipPath></defs>`,
		f(cardPadding), f(cardPadding), f(thumbnailSize), f(thumbnailSize), f(badgeRadius))

	// Hard-edged double rectangle: offset shadow behind a stroked body.
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" opacity="0.5"/>`,
		f(cardPadding/2+4), f(cardPadding/2+4), f(p.Width-cardPadding), f(height-cardPadding), c.shadow)
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="3"/>`,
		f(cardPadding/2), f(cardPadding/2), f(p.Width-cardPadding), f(height-cardPadding), c.bg, c.stroke)

	if hasThumbnail {
		fmt.Fprintf(&b, `<image x="%s" y="%s" width="%s" height="%s" href="%s" clip-path="url(#thumbnailClip)" preserveAspectRatio="xMidYMid slice"/>`,
			f(cardPadding), f(cardPadding), f(thumbnailSize), f(thumbnailSize), svgutil.Escape(p.ThumbnailDataURI))
	}

	domainX := contentX
	if p.FaviconDataURI != "" {
		fmt.Fprintf(&b, `<image x="%s" y="%s" width="14" height="14" href="%s" preserveAspectRatio="xMidYMid slice"/>`,
			f(contentX), f(cardPadding+9.5), svgutil.Escape(p.FaviconDataURI))
		domainX += 20
	}
	fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s" font-family="%s" font-size="11" font-weight="500">%s</text>`,
		f(domainX), f(cardPadding+22), c.gray, monoFont, svgutil.Escape(meta.Domain))

	for i, line := range shownTitle {
		text := line
		if i == maxTitleLines-1 && len(titleLines) > maxTitleLines {
			text += "..."
		}
		fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s" font-family="%s" font-size="16" font-weight="600">%s</text>`,
			f(contentX), f(cardPadding+44+float64(i)*lineHeight), c.black, monoFont, svgutil.Escape(text))
	}

	for i, line := range shownDesc {
		text := line
		if i == maxDescLines-1 && len(descLines) > maxDescLines {
			text += "..."
		}
		fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s" font-family="%s" font-size="11">%s</text>`,
			f(contentX), f(cardPadding+44+titleHeight+8+float64(i)*(lineHeight-4)), c.gray, monoFont, svgutil.Escape(text))
	}

	if p.Badge {
		b.WriteString(badgeGroup(p, cardPadding/2))
	}

	fmt.Fprintf(&b, `<rect x="0" y="0" width="%s" height="%s" fill="transparent" style="cursor: pointer;"><title>%s - %s</title></rect>`,
		f(p.Width), f(height), svgutil.Escape(meta.Title), svgutil.Escape(meta.Domain))

	b.WriteString(`</svg>`)
	return b.String()
}

// buildFallback renders the metadata-failure card: domain text next to a
// placeholder thumbnail block. The layout is fixed so the embed stays
// visually coherent no matter why the fetch failed.
func buildFallback(p Params) string {
	c := palettes[p.Theme]
	const padding = 20.0
	contentX := padding + thumbnailSize + 20

	contentHeight := domainHeight + 24 + 16 + 16
	innerHeight := maxf(thumbnailSize, contentHeight)
	height := padding*2 + innerHeight

	badgePadding := 0.0
	if p.Badge {
		badgePadding = 14
	}

	f := svgutil.Ftoa
	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%s" height="%s" viewBox="%s %s %s %s" xmlns="http://www.w3.org/2000/svg" style="image-rendering: pixelated; image-rendering: crisp-edges;">`,
		f(p.Width+badgePadding), f(height+badgePadding),
		f(-badgePadding), f(-badgePadding), f(p.Width+badgePadding), f(height+badgePadding))

	fmt.Fprintf(&b, `<rect x="14" y="14" width="%s" height="%s" fill="%s" opacity="0.5"/>`,
		f(p.Width-20), f(height-20), c.shadow)
	fmt.Fprintf(&b, `<rect x="10" y="10" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="3"/>`,
		f(p.Width-20), f(height-20), c.bg, c.stroke)
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="2"/>`,
		f(padding), f(padding), f(thumbnailSize), f(thumbnailSize), c.lightGray, c.stroke)

	fmt.Fprintf(&b, `<text x="%s" y="35" fill="%s" font-family="%s" font-size="11" font-weight="500">%s</text>`,
		f(contentX), c.gray, monoFont, svgutil.Escape(p.Domain))
	fmt.Fprintf(&b, `<text x="%s" y="58" fill="%s" font-family="%s" font-size="16" font-weight="600">링크 미리보기</text>`,
		f(contentX), c.black, monoFont)
	fmt.Fprintf(&b, `<text x="%s" y="80" fill="%s" font-family="%s" font-size="11">메타데이터를 불러올 수 없습니다</text>`,
		f(contentX), c.gray, monoFont)

	if p.Badge {
		b.WriteString(badgeGroup(p, padding/2))
	}

	fmt.Fprintf(&b, `<rect x="0" y="0" width="%s" height="%s" fill="transparent" style="cursor: pointer;"><title>링크 미리보기 - %s</title></rect>`,
		f(p.Width), f(height), svgutil.Escape(p.Domain))

	b.WriteString(`</svg>`)
	return b.String()
}

// badgeGroup draws the pulsing corner badge pinned outside the card body;
// the caller expands the viewBox so it never clips.
func badgeGroup(p Params, offset float64) string {
	f := svgutil.Ftoa
	color := p.BadgeColor
	if color == "" {
		color = "#FF0000"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<g transform="translate(%s, %s)">`, f(offset), f(offset))
	fmt.Fprintf(&b, `<circle cx="0" cy="0" r="%s" fill="%s">`, f(badgeRadius), color)
	b.WriteString(`<animate attributeName="r" values="22;24;22" dur="1.5s" repeatCount="indefinite" calcMode="spline" keySplines="0.4 0 0.6 1; 0.4 0 0.6 1"/>`)
	b.WriteString(`<animate attributeName="opacity" values="1;0.8;1" dur="1.5s" repeatCount="indefinite" calcMode="spline" keySplines="0.4 0 0.6 1; 0.4 0 0.6 1"/>`)
	b.WriteString(`</circle>`)

	if p.BadgeImageDataURI != "" {
		fmt.Fprintf(&b, `<clipPath id="badgeImgClip"><circle cx="0" cy="0" r="20"/></clipPath>`+
			`<image x="-20" y="-20" width="40" height="40" href="%s" clip-path="url(#badgeImgClip)" preserveAspectRatio="xMidYMid slice"/>`,
			svgutil.Escape(p.BadgeImageDataURI))
	} else {
		text := p.BadgeText
		if text == "" {
			text = "NEW"
		}
		fmt.Fprintf(&b, `<text x="0" y="5" fill="#FFFFFF" font-family="%s" font-size="11" font-weight="700" text-anchor="middle">%s</text>`,
			monoFont, svgutil.Escape(svgutil.Truncate(text, badgeTextMax)))
	}

	b.WriteString(`</g>`)
	return b.String()
}

func clip(lines []string, max int) []string {
	if len(lines) > max {
		return lines[:max]
	}
	return lines
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
