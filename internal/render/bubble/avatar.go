package bubble

import (
	"fmt"
	"math"
	"strings"

	"github.com/git-bubble/api/internal/render/seed"
	"github.com/git-bubble/api/internal/render/svgutil"
)

// avatarPalette backs the deterministic fallback avatar: the profile string
// hashes into a fixed palette slot so the same profile always gets the same
// color.
var avatarPalette = [10]string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
}

// avatar draws the profile picture group. When the fetch collaborator
// resolved the URL into a data URI it is clip-embedded; otherwise the profile
// string degrades to a colored circle with an initial.
func avatar(p Profile, right bool, width, totalHeight float64) string {
	if p.Value == "" {
		return ""
	}

	x := 10.0
	if right {
		x = width - profileSize - 10
	}
	y := (totalHeight - profileSize) / 2
	cx := x + profileSize/2
	cy := y + profileSize/2
	f := svgutil.Ftoa

	if p.DataURI != "" {
		return fmt.Sprintf(`<defs><clipPath id="profileClip"><circle cx="%s" cy="%s" r="%s"/></clipPath></defs>`+
			`<image x="%s" y="%s" width="%s" height="%s" href="%s" clip-path="url(#profileClip)" preserveAspectRatio="xMidYMid slice"/>`,
			f(cx), f(cy), f(profileSize/2),
			f(x), f(y), f(profileSize), f(profileSize), svgutil.Escape(p.DataURI))
	}

	color := avatarPalette[int(abs32(seed.Hash32(p.Value)))%len(avatarPalette)]
	return fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="#ffffff" stroke-width="2"/>`+
		`<text x="%s" y="%s" text-anchor="middle" fill="#ffffff" font-family="%s" font-size="%d" font-weight="600">%s</text>`,
		f(cx), f(cy), f(profileSize/2), color,
		f(cx), f(cy+6), fontFamily, int(math.Floor(profileSize/2.2)),
		svgutil.Escape(avatarInitial(p.Value)))
}

// avatarInitial picks the displayed letter: the first character of the
// local part before "@" when the profile looks like an address, otherwise
// the first character of the whole string.
func avatarInitial(profile string) string {
	source := profile
	if at := strings.Index(profile, "@"); at > 0 {
		source = profile[:at]
	}
	for _, r := range source {
		return strings.ToUpper(string(r))
	}
	return "A"
}

func abs32(v int32) int64 {
	n := int64(v)
	if n < 0 {
		return -n
	}
	return n
}
