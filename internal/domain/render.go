// Package domain defines the value types shared between the HTTP layer,
// the orchestration services, and the render engine.
package domain

// Theme selects the light or dark color table of a renderer.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a raw query value onto a Theme, defaulting to light.
func ParseTheme(raw string) Theme {
	if raw == string(ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

// Direction indicates which side the bubble tail points to.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ResolveDirection applies the documented precedence: an explicit direction
// value wins, otherwise the legacy isOwn flag decides (true means right).
func ResolveDirection(raw string, isOwn bool) Direction {
	switch raw {
	case string(DirectionRight):
		return DirectionRight
	case string(DirectionLeft):
		return DirectionLeft
	}
	if isOwn {
		return DirectionRight
	}
	return DirectionLeft
}

// BubbleMode distinguishes tag pills from free-flowing text content.
type BubbleMode string

const (
	ModeTags BubbleMode = "tags"
	ModeText BubbleMode = "text"
)

// ParseBubbleMode maps a raw query value onto a BubbleMode, defaulting to tags.
func ParseBubbleMode(raw string) BubbleMode {
	if raw == string(ModeText) {
		return ModeText
	}
	return ModeTags
}

// Animation selects the presentational animation of a bubble.
type Animation string

const (
	AnimationNone  Animation = "none"
	AnimationFloat Animation = "float"
	AnimationPulse Animation = "pulse"
)

// ParseAnimation maps a raw query value onto an Animation, defaulting to none.
func ParseAnimation(raw string) Animation {
	switch raw {
	case string(AnimationFloat):
		return AnimationFloat
	case string(AnimationPulse):
		return AnimationPulse
	}
	return AnimationNone
}

// Lang selects the language of generated dialogue and labels.
type Lang string

const (
	LangKo Lang = "ko"
	LangEn Lang = "en"
)

// ParseLang maps a raw query value onto a Lang, defaulting to Korean.
func ParseLang(raw string) Lang {
	if raw == string(LangEn) {
		return LangEn
	}
	return LangKo
}

// FeatureType names the render feature a usage record belongs to.
type FeatureType string

const (
	FeatureBubble  FeatureType = "bubble"
	FeatureLink    FeatureType = "link"
	FeatureDivider FeatureType = "divider"
	FeatureVillage FeatureType = "village"
)

// Clamp bounds an integer to the inclusive range [min, max].
func Clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampFloat bounds a float to the inclusive range [min, max].
func ClampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
