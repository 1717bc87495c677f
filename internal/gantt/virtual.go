package gantt

import "math"

// Range is the contiguous slice of items to materialize plus the spacer
// sizes that keep the scrollable extent correct. An empty range has
// EndIndex -1.
type Range struct {
	StartIndex   int     `json:"startIndex"`
	EndIndex     int     `json:"endIndex"`
	BeforeSpacer float64 `json:"beforeSpacer"`
	AfterSpacer  float64 `json:"afterSpacer"`
}

// Len returns the number of materialized items.
func (r Range) Len() int {
	if r.EndIndex < r.StartIndex {
		return 0
	}
	return r.EndIndex - r.StartIndex + 1
}

// Contains reports whether index i is materialized.
func (r Range) Contains(i int) bool {
	return i >= r.StartIndex && i <= r.EndIndex
}

// ComputeRange returns the window of items visible at scrollOffset within a
// viewport of viewportSize, widened by buffer items on both sides.
//
//	start = max(0, floor(offset/itemSize) - buffer)
//	end   = min(count-1, ceil((offset+viewport)/itemSize) + buffer)
//
// A non-positive or infinite itemSize materializes every item. Offsets and
// viewport sizes are capped near the list extent, so +Inf behaves as
// scrolled past the end and NaN as zero. When scrolled past the end, start
// is pulled back to end so the range is never inverted.
func ComputeRange(scrollOffset, viewportSize, itemSize float64, itemCount, buffer int) Range {
	if itemCount <= 0 {
		return Range{StartIndex: 0, EndIndex: -1}
	}
	if !(itemSize > 0) || math.IsInf(itemSize, 1) {
		return FullRange(itemCount)
	}
	if buffer < 0 {
		buffer = 0
	}
	// Past these caps the result no longer changes.
	scrollOffset = clampExtent(scrollOffset, float64(itemCount+buffer)*itemSize)
	viewportSize = clampExtent(viewportSize, float64(itemCount)*itemSize)

	start := int(math.Floor(scrollOffset/itemSize)) - buffer
	if start < 0 {
		start = 0
	}
	end := int(math.Ceil((scrollOffset+viewportSize)/itemSize)) + buffer
	if end > itemCount-1 {
		end = itemCount - 1
	}
	if start > end {
		start = end
	}
	return Range{
		StartIndex:   start,
		EndIndex:     end,
		BeforeSpacer: float64(start) * itemSize,
		AfterSpacer:  float64(itemCount-end-1) * itemSize,
	}
}

func clampExtent(v, extent float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return math.Min(v, extent)
}

// FullRange materializes all itemCount items with no spacers.
func FullRange(itemCount int) Range {
	if itemCount <= 0 {
		return Range{StartIndex: 0, EndIndex: -1}
	}
	return Range{StartIndex: 0, EndIndex: itemCount - 1}
}

// Axis is the scroll direction a Viewport windows over.
type Axis int

const (
	Vertical   Axis = iota // task rows
	Horizontal             // date columns
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Viewport binds the windowing algorithm to one axis and item size.
type Viewport struct {
	Axis     Axis
	ItemSize float64
	Buffer   int
}

// Rows returns the vertical viewport for task rows.
func (c Config) Rows() Viewport {
	n := c.Normalize()
	return Viewport{Axis: Vertical, ItemSize: n.RowHeight, Buffer: n.BufferSize}
}

// Columns returns the horizontal viewport for date columns.
func (c Config) Columns() Viewport {
	n := c.Normalize()
	return Viewport{Axis: Horizontal, ItemSize: n.DayWidth, Buffer: n.BufferSize}
}

// Range windows itemCount items at the given scroll offset and viewport size.
func (v Viewport) Range(scrollOffset, viewportSize float64, itemCount int) Range {
	return ComputeRange(scrollOffset, viewportSize, v.ItemSize, itemCount, v.Buffer)
}

// Extent is the full scrollable size of itemCount items.
func (v Viewport) Extent(itemCount int) float64 {
	if itemCount <= 0 {
		return 0
	}
	return float64(itemCount) * v.ItemSize
}
