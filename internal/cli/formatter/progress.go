package formatter

import (
	"fmt"
	"math"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
	overBlock   = "▓"
)

func filledCells(pct float64, width int) int {
	n := int(math.Round(pct * float64(width)))
	if n < 0 {
		return 0
	}
	if n > width {
		return width
	}
	return n
}

// RenderProgress renders a task progress bar like [████░░░░]  45%.
// pct is a fraction in [0, 1]; values outside are clamped.
func RenderProgress(pct float64, width int) string {
	pct = math.Max(0, math.Min(1, pct))
	if width < 2 {
		width = 2
	}
	filled := filledCells(pct, width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleBlue
	if pct >= 1 {
		style = StyleGreen
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// RenderLoad renders a utilization bar. The bar fills at 1.0; overallocated
// days draw every cell with the overload block and the label keeps the raw,
// unclamped percentage.
func RenderLoad(raw float64, width int) string {
	if width < 2 {
		width = 2
	}
	var bar string
	if raw > 1.0 {
		bar = strings.Repeat(overBlock, width)
	} else {
		filled := filledCells(raw, width)
		bar = strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	}
	return fmt.Sprintf("[%s] %4.0f%%", LoadColor(raw).Render(bar), math.Max(raw, 0)*100)
}
