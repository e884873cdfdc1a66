package calendar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column widths of the text layout.
const (
	HeaderWidth     = 66 // year header and footer
	MonthWidth      = 25 // one month column
	MonthsPerRow    = 3  // months per quarter row
	QuarterCount    = 12 / MonthsPerRow
	cellWidth       = 2
	blankCellString = "  "
)

// Format renders c as a fixed-width text block: the year header, a blank
// line, four quarter blocks each followed by a blank line, and the footer
// stating the rounded share of hidden days. The result ends with a newline.
func Format(c Calendar, hide float64) string {
	var lines []string

	lines = append(lines, center(strconv.Itoa(c.Year), HeaderWidth), "")

	for q := 0; q < QuarterCount; q++ {
		months := c.Months[q*MonthsPerRow : (q+1)*MonthsPerRow]
		lines = append(lines, quarterLines(months)...)
		lines = append(lines, "")
	}

	lines = append(lines, rjust(Footer(hide), HeaderWidth), "")
	return strings.Join(lines, "\n")
}

// Footer returns the hidden-days note for hide, without padding.
func Footer(hide float64) string {
	return fmt.Sprintf("~ %d%% of days missing in action", HiddenPercent(hide))
}

// HiddenPercent rounds hide to a whole percentage, halves away from zero.
func HiddenPercent(hide float64) int {
	return int(math.Round(hide * 100))
}

// quarterLines renders the name header and the week rows of one quarter.
func quarterLines(months []MonthGrid) []string {
	var header strings.Builder
	rows := 0
	for _, m := range months {
		header.WriteString(center(m.Name, MonthWidth))
		rows = max(rows, len(m.Weeks))
	}

	padded := make([][]Week, len(months))
	for i, m := range months {
		padded[i] = PadWeeks(m.Weeks, rows)
	}

	lines := []string{header.String()}
	for r := 0; r < rows; r++ {
		var row strings.Builder
		for _, weeks := range padded {
			row.WriteString(ljust(FormatWeek(weeks[r]), MonthWidth))
		}
		lines = append(lines, row.String())
	}
	return lines
}

// PadWeeks returns a copy of weeks extended with blank rows up to n rows.
// The input slice is never modified.
func PadWeeks(weeks []Week, n int) []Week {
	out := make([]Week, max(n, len(weeks)))
	copy(out, weeks)
	return out
}

// FormatWeek renders a week as seven right-aligned two-character cells
// separated by single spaces. Blank cells render as two spaces.
func FormatWeek(w Week) string {
	cells := make([]string, len(w))
	for i, d := range w {
		if d == Blank {
			cells[i] = blankCellString
			continue
		}
		cells[i] = fmt.Sprintf("%*d", cellWidth, d)
	}
	return strings.Join(cells, " ")
}

// center pads s to width with the odd space placed the way Python's
// str.center does: on the left when both the margin and width are odd.
func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	margin := width - n
	left := margin/2 + (margin & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", margin-left)
}

func ljust(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func rjust(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
