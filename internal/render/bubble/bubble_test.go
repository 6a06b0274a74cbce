package bubble

import (
	"errors"
	"strings"
	"testing"

	"github.com/git-bubble/api/internal/domain"
)

func TestSplitTags(t *testing.T) {
	tags := SplitTags(" ENFP, 풀스택개발자 ,React.js,,  ")
	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %v", tags)
	}
	if tags[0] != "ENFP" || tags[1] != "풀스택개발자" || tags[2] != "React.js" {
		t.Fatalf("unexpected tags %v", tags)
	}
}

func TestBuildTagsSingleRowLeftTail(t *testing.T) {
	svg, err := Build(Params{
		Content:   "ENFP,풀스택개발자,React.js",
		Mode:      domain.ModeTags,
		Theme:     domain.ThemeLight,
		Direction: domain.DirectionLeft,
		Width:     400,
		FontSize:  12,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a self-contained SVG document")
	}
	if count := strings.Count(svg, `rx="11"`); count != 3 {
		t.Fatalf("expected 3 tag pills, got %d", count)
	}
	// A left tail extends into negative x from the bubble edge.
	if !strings.Contains(svg, "L12,") {
		t.Fatalf("expected left tail notch in path: %s", svg)
	}
	if strings.Contains(svg, "<style>") {
		t.Fatal("expected no animation style by default")
	}
}

func TestBuildTextModeWrapsLines(t *testing.T) {
	svg, err := Build(Params{
		Content:   "hello world this is a longer message that should wrap onto several lines",
		Mode:      domain.ModeText,
		Theme:     domain.ThemeLight,
		Direction: domain.DirectionLeft,
		Width:     300,
		FontSize:  12,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if count := strings.Count(svg, "<text"); count < 2 {
		t.Fatalf("expected multiple text lines, got %d", count)
	}
	if strings.Contains(svg, `rx="11"`) {
		t.Fatal("expected no tag pills in text mode")
	}
}

func TestBuildEmptyContent(t *testing.T) {
	if _, err := Build(Params{Content: " , ,", Mode: domain.ModeTags, Width: 400, FontSize: 12}); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent for blank tags, got %v", err)
	}
	if _, err := Build(Params{Content: "   ", Mode: domain.ModeText, Width: 400, FontSize: 12}); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent for blank text, got %v", err)
	}
}

func TestBuildEscapesContent(t *testing.T) {
	svg, err := Build(Params{
		Content:  "<b>bold</b>",
		Mode:     domain.ModeText,
		Theme:    domain.ThemeLight,
		Width:    400,
		FontSize: 12,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if strings.Contains(svg, "<b>") {
		t.Fatal("expected markup escaped")
	}
	if !strings.Contains(svg, "&lt;b&gt;bold&lt;/b&gt;") {
		t.Fatal("expected escaped entity sequence")
	}
}

func TestBuildAnimationStyles(t *testing.T) {
	for _, tc := range []struct {
		animation domain.Animation
		keyword   string
	}{
		{domain.AnimationFloat, "@keyframes float"},
		{domain.AnimationPulse, "@keyframes pulse"},
	} {
		svg, err := Build(Params{
			Content:   "a,b",
			Mode:      domain.ModeTags,
			Width:     400,
			FontSize:  12,
			Animation: tc.animation,
		})
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if !strings.Contains(svg, tc.keyword) {
			t.Fatalf("expected %q in document", tc.keyword)
		}
	}
}

func TestBuildAvatarEmbedsDataURI(t *testing.T) {
	svg, err := Build(Params{
		Content:  "a,b",
		Mode:     domain.ModeTags,
		Width:    400,
		FontSize: 12,
		Profile:  Profile{Value: "https://example.com/me.png", DataURI: "data:image/png;base64,AAAA"},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !strings.Contains(svg, `href="data:image/png;base64,AAAA"`) {
		t.Fatal("expected embedded avatar image")
	}
	if !strings.Contains(svg, "profileClip") {
		t.Fatal("expected circular clip for avatar")
	}
}

func TestBuildAvatarFallsBackToInitial(t *testing.T) {
	svg, err := Build(Params{
		Content:  "a,b",
		Mode:     domain.ModeTags,
		Width:    400,
		FontSize: 12,
		Profile:  Profile{Value: "minsu@example.com"},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if strings.Contains(svg, "<image") {
		t.Fatal("expected no image element without a data URI")
	}
	if !strings.Contains(svg, ">M</text>") {
		t.Fatalf("expected uppercase initial of the local part: %s", svg)
	}

	again, err := Build(Params{
		Content:  "a,b",
		Mode:     domain.ModeTags,
		Width:    400,
		FontSize: 12,
		Profile:  Profile{Value: "minsu@example.com"},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if svg != again {
		t.Fatal("expected identical output for identical profile")
	}
}

func TestBuildDarkTheme(t *testing.T) {
	svg, err := Build(Params{
		Content:  "a,b",
		Mode:     domain.ModeTags,
		Theme:    domain.ThemeDark,
		Width:    400,
		FontSize: 12,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !strings.Contains(svg, `fill="#1a1a1a"`) {
		t.Fatal("expected dark bubble fill")
	}
}
