// Package village renders pixel-art villages: deterministically placed and
// animated characters tied to a GitHub username, each with a cycling speech
// bubble. All randomness flows from the string-seeded generator, so the same
// username always produces the same scene.
package village

import (
	"fmt"
	"strings"

	"github.com/git-bubble/api/internal/domain"
	"github.com/git-bubble/api/internal/render/seed"
	"github.com/git-bubble/api/internal/render/svgutil"
)

// Character actions, in the order the generator indexes them. Reordering
// changes every existing village.
const (
	actionIdle  = "idle"
	actionWalk  = "walk"
	actionSleep = "sleep"
	actionSit   = "sit"
	actionJump  = "jump"
)

var actions = [...]string{actionIdle, actionWalk, actionSleep, actionSit, actionJump}

// Params is the validated input of Build. Characters arrive pre-selected
// (see SelectForUser); iteration order is input order.
type Params struct {
	Width        float64
	Height       float64
	Theme        domain.Theme
	Characters   []Character
	Username     string
	TotalCommits int
	Lang         domain.Lang
}

type scenePalette struct {
	bg         string
	groundDark string
	border     string
	text       string
	textLight  string
}

var scenePalettes = map[domain.Theme]scenePalette{
	domain.ThemeLight: {
		bg:         "#f5f5f5",
		groundDark: "#dcdcdc",
		border:     "#333333",
		text:       "#333333",
		textLight:  "#ffffff",
	},
	domain.ThemeDark: {
		bg:         "#1a1a1a",
		groundDark: "#202020",
		border:     "#555555",
		text:       "#e0e0e0",
		textLight:  "#ffffff",
	},
}

const (
	scenePadding    = 30.0
	tileSize        = 12.0
	maxQuoteRunes   = 18
	maxBubbleWidth  = 130.0
	bubbleHeightPx  = 18.0
	speechBaseCycle = 15.0
)

// Build renders the village SVG.
func Build(p Params) string {
	palette := scenePalettes[p.Theme]
	f := svgutil.Ftoa

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" style="image-rendering: pixelated; image-rendering: crisp-edges;">`,
		f(p.Width), f(p.Height), f(p.Width), f(p.Height))

	b.WriteString(background(p.Width, p.Height, palette))
	b.WriteString(characterGroups(p, palette))
	b.WriteString(titleBadge(p.Username, palette))
	b.WriteString(statsBadge(p.Width, p.TotalCommits, palette))

	b.WriteString(`</svg>`)
	return b.String()
}

// background tints alternating checkerboard tiles over the base fill. It is
// purely positional: no generator draws, so it never shifts character
// placement between renders of different sizes.
func background(width, height float64, palette scenePalette) string {
	f := svgutil.Ftoa
	var b strings.Builder
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%s" height="%s" fill="%s"/>`, f(width), f(height), palette.bg)

	for ty := 0; ty < int(height/tileSize)+1; ty++ {
		for tx := 0; tx < int(width/tileSize)+1; tx++ {
			if (tx+ty)%2 != 0 {
				continue
			}
			fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" opacity="0.15"/>`,
				f(float64(tx)*tileSize), f(float64(ty)*tileSize), f(tileSize), f(tileSize), palette.groundDark)
		}
	}
	return b.String()
}

// characterGroups places and animates every character. The generator is
// seeded with username+"_chars" and advanced in a fixed draw order per
// character: position, action, facing, quote, action parameters, speech
// timing.
func characterGroups(p Params, palette scenePalette) string {
	rng := seed.New(p.Username + "_chars")
	f := svgutil.Ftoa

	var b strings.Builder
	for index, char := range p.Characters {
		cx := scenePadding + rng.Next()*(p.Width-scenePadding*2-charWidth)
		cy := scenePadding + rng.Next()*(p.Height-scenePadding*2-charHeight)

		action := actions[rng.Intn(len(actions))]
		facingLeft := rng.Next() <= 0.5

		quoteIndex := rng.Intn(QuotePoolSize())
		quote := QuoteByIndex(quoteIndex, p.Lang) + char.Catchphrase(p.Lang)

		animation, extraEffects := actionAnimation(action, cx, cy, p.Width, p.Height, rng)

		speechDelay := rng.Next() * 10
		speechCycle := speechBaseCycle + rng.Next()*8

		displayQuote := svgutil.Truncate(quote, maxQuoteRunes)
		bubbleWidth := float64(len([]rune(displayQuote)))*6 + 16
		if bubbleWidth > maxBubbleWidth {
			bubbleWidth = maxBubbleWidth
		}
		bubbleX := charWidth/2 - bubbleWidth/2
		bubbleY := -bubbleHeightPx - 8

		fmt.Fprintf(&b, `<g id="char-%d">`, index)
		b.WriteString(animation)

		if facingLeft {
			fmt.Fprintf(&b, `<g transform="scale(-1,1) translate(%d,0)">%s</g>`, -charWidth, spriteSVG(char, action))
		} else {
			b.WriteString(spriteSVG(char, action))
		}
		b.WriteString(extraEffects)

		// Speech bubble fades in and out once per cycle.
		b.WriteString(`<g opacity="0">`)
		fmt.Fprintf(&b, `<animate attributeName="opacity" values="0;0;1;1;0;0" keyTimes="0;%s;%s;%s;%s;1" dur="%ss" repeatCount="indefinite"/>`,
			f(speechDelay/speechCycle), f((speechDelay+0.2)/speechCycle),
			f((speechDelay+3)/speechCycle), f((speechDelay+3.2)/speechCycle), f(speechCycle))
		fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" rx="4" fill="%s" stroke="%s" stroke-width="1"/>`,
			f(bubbleX), f(bubbleY), f(bubbleWidth), f(bubbleHeightPx), palette.textLight, palette.border)
		fmt.Fprintf(&b, `<polygon points="%d,%s %d,%s %d,%s" fill="%s" stroke="%s" stroke-width="1"/>`,
			charWidth/2-4, f(bubbleY+bubbleHeightPx),
			charWidth/2, f(bubbleY+bubbleHeightPx+5),
			charWidth/2+4, f(bubbleY+bubbleHeightPx),
			palette.textLight, palette.border)
		fmt.Fprintf(&b, `<rect x="%d" y="%s" width="6" height="2" fill="%s"/>`,
			charWidth/2-3, f(bubbleY+bubbleHeightPx-1), palette.textLight)
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" fill="%s" font-size="8" font-family="monospace">%s</text>`,
			f(bubbleX+bubbleWidth/2), f(bubbleY+bubbleHeightPx/2+4), palette.text, svgutil.Escape(displayQuote))
		b.WriteString(`</g>`)

		b.WriteString(`</g>`)
	}
	return b.String()
}

// actionAnimation derives the translate animation and any extra effects for
// an action. Parameter bands are fixed per action; the generator supplies
// the variation within each band.
func actionAnimation(action string, cx, cy, width, height float64, rng *seed.Sequence) (string, string) {
	f := svgutil.Ftoa
	maxX := width - scenePadding - charWidth
	maxY := height - scenePadding - charHeight

	switch action {
	case actionWalk:
		moveRangeX := 60 + rng.Next()*100
		moveRangeY := 20 + rng.Next()*30
		dur := 8 + rng.Next()*6
		targetX := clampCoord(cx+signed(rng, moveRangeX), scenePadding, maxX)
		targetY := clampCoord(cy+signed(rng, moveRangeY), scenePadding, maxY)
		return fmt.Sprintf(`<animateTransform attributeName="transform" type="translate" values="%s,%s; %s,%s; %s,%s" dur="%ss" repeatCount="indefinite"/>`,
			f(cx), f(cy), f(targetX), f(targetY), f(cx), f(cy), f(dur)), ""

	case actionSleep:
		bobDur := 3 + rng.Next()*2
		animation := fmt.Sprintf(`<animateTransform attributeName="transform" type="translate" values="%s,%s; %s,%s; %s,%s" dur="%ss" repeatCount="indefinite"/>`,
			f(cx), f(cy), f(cx), f(cy+2), f(cx), f(cy), f(bobDur))
		effects := fmt.Sprintf(`<g>`+
			`<text x="%d" y="-5" font-size="10" fill="#666" font-family="monospace"><animate attributeName="opacity" values="0;1;0" dur="2s" repeatCount="indefinite"/>z</text>`+
			`<text x="%d" y="-12" font-size="12" fill="#666" font-family="monospace"><animate attributeName="opacity" values="0;1;0" dur="2s" begin="0.3s" repeatCount="indefinite"/>z</text>`+
			`<text x="%d" y="-20" font-size="14" fill="#666" font-family="monospace"><animate attributeName="opacity" values="0;1;0" dur="2s" begin="0.6s" repeatCount="indefinite"/>Z</text>`+
			`</g>`,
			charWidth+5, charWidth+12, charWidth+20)
		return animation, effects

	case actionSit:
		swayDur := 4 + rng.Next()*2
		return fmt.Sprintf(`<animateTransform attributeName="transform" type="translate" values="%s,%s; %s,%s; %s,%s; %s,%s; %s,%s" dur="%ss" repeatCount="indefinite"/>`,
			f(cx), f(cy), f(cx+3), f(cy), f(cx), f(cy), f(cx-3), f(cy), f(cx), f(cy), f(swayDur)), ""

	case actionJump:
		jumpDur := 1.5 + rng.Next()*0.5
		jumpHeight := 15 + rng.Next()*10
		return fmt.Sprintf(`<animateTransform attributeName="transform" type="translate" values="%s,%s; %s,%s; %s,%s" dur="%ss" repeatCount="indefinite" calcMode="spline" keySplines="0.5 0 0.5 1; 0.5 0 0.5 1"/>`,
			f(cx), f(cy), f(cx), f(cy-jumpHeight), f(cx), f(cy), f(jumpDur)), ""

	default: // idle
		moveRange := 15 + rng.Next()*25
		dur := 6 + rng.Next()*4
		targetX := clampCoord(cx+signed(rng, moveRange), scenePadding, maxX)
		return fmt.Sprintf(`<animateTransform attributeName="transform" type="translate" values="%s,%s; %s,%s; %s,%s" dur="%ss" repeatCount="indefinite"/>`,
			f(cx), f(cy), f(targetX), f(cy), f(cx), f(cy), f(dur)), ""
	}
}

func titleBadge(username string, palette scenePalette) string {
	f := svgutil.Ftoa
	titleWidth := float64(len([]rune(username)))*7 + 70
	return fmt.Sprintf(`<g><rect x="4" y="4" width="%s" height="16" fill="%s" stroke="%s" stroke-width="1"/>`+
		`<text x="10" y="15" fill="%s" font-size="9" font-family="monospace" font-weight="bold">%s&#39;s Village</text></g>`,
		f(titleWidth), palette.textLight, palette.border,
		palette.text, svgutil.Escape(username))
}

func statsBadge(width float64, totalCommits int, palette scenePalette) string {
	f := svgutil.Ftoa
	return fmt.Sprintf(`<g><rect x="%s" y="4" width="76" height="16" fill="%s" stroke="%s" stroke-width="1"/>`+
		`<text x="%s" y="14" fill="%s" font-size="8" font-family="monospace">%d commits</text></g>`,
		f(width-80), palette.textLight, palette.border,
		f(width-74), palette.text, totalCommits)
}

// signed offsets v positively or negatively with equal probability,
// consuming one generator draw.
func signed(rng *seed.Sequence, v float64) float64 {
	if rng.Next() > 0.5 {
		return v
	}
	return -v
}

func clampCoord(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
