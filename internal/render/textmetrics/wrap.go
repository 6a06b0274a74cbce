package textmetrics

import "strings"

// WrapSlack keeps wrapped lines at 95% of the declared budget as breathing
// room for the approximate width model.
const WrapSlack = 0.95

// Wrap splits text into lines whose estimated width stays within
// maxWidth*WrapSlack. Words are accumulated greedily in input order; a single
// word wider than the whole budget is hard-split character by character so
// the wrap always terminates and no line exceeds the budget.
//
// Empty or all-whitespace input yields no lines.
func Wrap(text string, maxWidth, fontSize float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	budget := maxWidth * WrapSlack
	var lines []string
	current := ""

	flush := func() {
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
	}

	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if StringWidth(candidate, fontSize) <= budget {
			current = candidate
			continue
		}

		flush()
		if StringWidth(word, fontSize) <= budget {
			current = word
			continue
		}
		current = hardSplit(word, budget, fontSize, &lines)
	}
	flush()

	return lines
}

// hardSplit breaks an unbreakable overlong word into budget-sized chunks,
// appending every full chunk to lines and returning the remainder. At least
// one character goes into each chunk even if it alone exceeds the budget.
func hardSplit(word string, budget, fontSize float64, lines *[]string) string {
	var chunk []rune
	var chunkWidth float64
	for _, r := range word {
		w := CharWidth(r, fontSize)
		if len(chunk) > 0 && chunkWidth+w > budget {
			*lines = append(*lines, string(chunk))
			chunk = chunk[:0]
			chunkWidth = 0
		}
		chunk = append(chunk, r)
		chunkWidth += w
	}
	return string(chunk)
}
