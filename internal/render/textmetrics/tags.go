package textmetrics

// Tag layout constants. Row height reserves vertical space per packed row;
// the block paddings and title allowance feed the total height used to size
// the surrounding bubble.
const (
	TagGap            = 8.0
	TagRowHeight      = 30.0
	TagBlockPadding   = 20.0
	TagTitleAllowance = 35.0
)

// TagLayout is the result of packing tags into rows.
type TagLayout struct {
	Rows        [][]string
	TotalHeight float64
}

// LayoutTags packs tags into rows bounded by maxWidth using first-fit in
// input order: a tag joins the current row while the accumulated width plus
// the inter-tag gap still fits, otherwise it opens a new row. Rows are never
// empty and the final row is always flushed. TotalHeight accounts for the
// packed rows, top and bottom padding, and a title allowance when hasTitle
// is set.
func LayoutTags(tags []string, maxWidth, fontSize float64, hasTitle bool) TagLayout {
	var rows [][]string
	var currentRow []string
	var currentWidth float64

	for _, tag := range tags {
		w := TagWidth(tag, fontSize)
		if len(currentRow) > 0 && currentWidth+w+TagGap > maxWidth {
			rows = append(rows, currentRow)
			currentRow = []string{tag}
			currentWidth = w
			continue
		}
		currentRow = append(currentRow, tag)
		currentWidth += w + TagGap
	}
	if len(currentRow) > 0 {
		rows = append(rows, currentRow)
	}

	height := float64(len(rows))*TagRowHeight + TagBlockPadding*2
	if hasTitle {
		height += TagTitleAllowance
	}

	return TagLayout{Rows: rows, TotalHeight: height}
}
