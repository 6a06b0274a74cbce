package village

import (
	"fmt"
	"strings"

	"github.com/git-bubble/api/internal/render/svgutil"
)

// Sprite grid dimensions and on-screen scale. A sprite cell renders as a
// scale×scale rect, so a character occupies spriteGrid*charScale pixels.
const (
	spriteGrid = 16
	charScale  = 3
	charWidth  = spriteGrid * charScale
	charHeight = spriteGrid * charScale
)

// spriteSVG rasterises a character's pixel grid into rects, merging
// horizontal runs of identical cells. The accent color is fixed white so
// eyes and markings read against any body shade.
func spriteSVG(c Character, action string) string {
	var b strings.Builder
	b.WriteString(spriteTransformOpen(action))

	for y, row := range c.Sprite {
		if y >= spriteGrid {
			break
		}
		cells := []rune(row)
		x := 0
		for x < len(cells) && x < spriteGrid {
			cell := cells[x]
			if cell == '.' {
				x++
				continue
			}
			run := 1
			for x+run < len(cells) && x+run < spriteGrid && cells[x+run] == cell {
				run++
			}
			fill := c.Shade
			if cell == 'o' {
				fill = "#ffffff"
			}
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`,
				x*charScale, y*charScale, run*charScale, charScale, fill)
			x += run
		}
	}

	b.WriteString(spriteTransformClose(action))
	return b.String()
}

// spriteTransformOpen applies an action-specific pose: sleeping characters
// lie on their side, sitting characters settle lower. Other actions pose
// through animation only.
func spriteTransformOpen(action string) string {
	switch action {
	case actionSleep:
		return fmt.Sprintf(`<g transform="rotate(90 %s %s)">`,
			svgutil.Itoa(charWidth/2), svgutil.Itoa(charHeight/2))
	case actionSit:
		return fmt.Sprintf(`<g transform="translate(0,%d)">`, 2*charScale)
	}
	return `<g>`
}

func spriteTransformClose(string) string {
	return `</g>`
}
