package textmetrics

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCharWidthClasses(t *testing.T) {
	cases := []struct {
		r    rune
		want float64
	}{
		{'a', 12 * DefaultWidthFactor},
		{'Z', 12 * DefaultWidthFactor},
		{'한', 12 * WideWidthFactor},
		{'字', 12 * WideWidthFactor},
		{'あ', 12 * WideWidthFactor},
		{'😀', 12 * EmojiWidthFactor},
		{'☀', 12 * EmojiWidthFactor},
		{'\x00', 12 * DefaultWidthFactor},
	}
	for _, tc := range cases {
		if got := CharWidth(tc.r, 12); !almostEqual(got, tc.want) {
			t.Fatalf("CharWidth(%q) = %v, want %v", tc.r, got, tc.want)
		}
	}
}

func TestStringWidthSums(t *testing.T) {
	got := StringWidth("a한", 10)
	want := 10*DefaultWidthFactor + 10*WideWidthFactor
	if !almostEqual(got, want) {
		t.Fatalf("StringWidth = %v, want %v", got, want)
	}
	if StringWidth("", 10) != 0 {
		t.Fatal("expected zero width for empty string")
	}
}

func TestTagWidth(t *testing.T) {
	// 4 Latin characters at fontSize 12: 4*7.2 + 24 padding.
	if got := TagWidth("ENFP", 12); !almostEqual(got, 4*12*TagDefaultFactor+TagPadding) {
		t.Fatalf("TagWidth(ENFP) = %v", got)
	}
	// 6 Hangul characters: 6*10.8 + 24.
	if got := TagWidth("풀스택개발자", 12); !almostEqual(got, 6*12*TagWideFactor+TagPadding) {
		t.Fatalf("TagWidth(hangul) = %v", got)
	}
	// Short tags floor at the minimum pill width.
	if got := TagWidth("a", 12); got != TagMinWidth {
		t.Fatalf("expected min width %v, got %v", TagMinWidth, got)
	}
}

func TestWrapEmpty(t *testing.T) {
	if lines := Wrap("", 400, 12); lines != nil {
		t.Fatalf("expected no lines, got %v", lines)
	}
	if lines := Wrap("   \t ", 400, 12); lines != nil {
		t.Fatalf("expected no lines for whitespace, got %v", lines)
	}
}

func TestWrapSingleLine(t *testing.T) {
	lines := Wrap("hello world", 400, 12)
	if len(lines) != 1 || lines[0] != "hello world" {
		t.Fatalf("expected one line, got %v", lines)
	}
}

func TestWrapPreservesOrderWithinBudget(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog again and again and again"
	maxWidth := 120.0
	fontSize := 12.0
	lines := Wrap(text, maxWidth, fontSize)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %v", lines)
	}

	budget := maxWidth * WrapSlack
	var rejoined []string
	for _, line := range lines {
		if StringWidth(line, fontSize) > budget {
			t.Fatalf("line %q exceeds budget", line)
		}
		rejoined = append(rejoined, line)
	}
	joined := ""
	for i, line := range rejoined {
		if i > 0 {
			joined += " "
		}
		joined += line
	}
	if joined != text {
		t.Fatalf("word order not preserved: %q", joined)
	}
}

func TestWrapHardSplitsOverlongWord(t *testing.T) {
	word := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	maxWidth := 60.0
	fontSize := 12.0
	lines := Wrap(word, maxWidth, fontSize)
	if len(lines) < 2 {
		t.Fatalf("expected hard split, got %v", lines)
	}
	budget := maxWidth * WrapSlack
	total := 0
	for _, line := range lines {
		if StringWidth(line, fontSize) > budget {
			t.Fatalf("chunk %q exceeds budget", line)
		}
		total += len(line)
	}
	if total != len(word) {
		t.Fatalf("characters lost in split: %d != %d", total, len(word))
	}
}

func TestLayoutTagsSingleRow(t *testing.T) {
	layout := LayoutTags([]string{"ENFP", "풀스택개발자", "React.js"}, 400, 12, false)
	if len(layout.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(layout.Rows))
	}
	if len(layout.Rows[0]) != 3 {
		t.Fatalf("expected 3 tags in row, got %d", len(layout.Rows[0]))
	}
	want := TagRowHeight + 2*TagBlockPadding
	if !almostEqual(layout.TotalHeight, want) {
		t.Fatalf("expected height %v, got %v", want, layout.TotalHeight)
	}
}

func TestLayoutTagsOverflowOpensNewRow(t *testing.T) {
	layout := LayoutTags([]string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc"}, 120, 12, false)
	if len(layout.Rows) < 2 {
		t.Fatalf("expected multiple rows, got %v", layout.Rows)
	}
	for _, row := range layout.Rows {
		if len(row) == 0 {
			t.Fatal("rows must never be empty")
		}
	}
	if layout.Rows[0][0] != "aaaaaaaaaa" {
		t.Fatalf("input order not preserved: %v", layout.Rows)
	}
}

func TestLayoutTagsTitleAllowance(t *testing.T) {
	without := LayoutTags([]string{"tag"}, 400, 12, false)
	with := LayoutTags([]string{"tag"}, 400, 12, true)
	if !almostEqual(with.TotalHeight-without.TotalHeight, TagTitleAllowance) {
		t.Fatalf("expected title allowance %v, got %v", TagTitleAllowance, with.TotalHeight-without.TotalHeight)
	}
}
