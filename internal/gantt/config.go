package gantt

import "time"

// Defaults holds the fallbacks applied to assignments that omit a value.
type Defaults struct {
	Units           int     // percent of capacity when an assignment has no units
	BaseHoursPerDay float64 // capacity used when a resource reports zero hours
}

// Config carries the geometry constants shared by every component.
type Config struct {
	DayWidth        float64 // pixels per calendar day
	RowHeight       float64 // pixels per task row; also the virtualizer's row size
	BufferSize      int     // extra rows/columns rendered beyond the viewport
	MinimumSpanDays int     // narrowest bar, in days
	ViewPaddingDays int     // days added on both sides of an automatic view window
	ArrowHeadSize   float64
	Defaults        Defaults
}

const (
	defaultDayWidth        = 24
	defaultRowHeight       = 40
	defaultBufferSize      = 5
	defaultMinimumSpanDays = 1
	defaultViewPaddingDays = 2
	defaultArrowHeadSize   = 6
	defaultUnits           = 100
	defaultBaseHoursPerDay = 8
)

// DefaultConfig returns the stock geometry.
func DefaultConfig() Config {
	return Config{
		DayWidth:        defaultDayWidth,
		RowHeight:       defaultRowHeight,
		BufferSize:      defaultBufferSize,
		MinimumSpanDays: defaultMinimumSpanDays,
		ViewPaddingDays: defaultViewPaddingDays,
		ArrowHeadSize:   defaultArrowHeadSize,
		Defaults: Defaults{
			Units:           defaultUnits,
			BaseHoursPerDay: defaultBaseHoursPerDay,
		},
	}
}

// Normalize replaces non-positive values with their defaults.
// BufferSize and ViewPaddingDays may legitimately be zero.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	if c.DayWidth <= 0 {
		c.DayWidth = d.DayWidth
	}
	if c.RowHeight <= 0 {
		c.RowHeight = d.RowHeight
	}
	if c.BufferSize < 0 {
		c.BufferSize = d.BufferSize
	}
	if c.MinimumSpanDays <= 0 {
		c.MinimumSpanDays = d.MinimumSpanDays
	}
	if c.ViewPaddingDays < 0 {
		c.ViewPaddingDays = d.ViewPaddingDays
	}
	if c.ArrowHeadSize <= 0 {
		c.ArrowHeadSize = d.ArrowHeadSize
	}
	c.Defaults = c.Defaults.normalize()
	return c
}

func (d Defaults) normalize() Defaults {
	if d.Units <= 0 {
		d.Units = defaultUnits
	}
	if !(d.BaseHoursPerDay > 0) {
		d.BaseHoursPerDay = defaultBaseHoursPerDay
	}
	return d
}

// Geometry binds the config to a concrete view origin.
func (c Config) Geometry(viewStart time.Time) Geometry {
	n := c.Normalize()
	return Geometry{
		ViewStart:       viewStart,
		DayWidth:        n.DayWidth,
		RowHeight:       n.RowHeight,
		MinimumSpanDays: n.MinimumSpanDays,
	}
}
