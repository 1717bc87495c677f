// Package render draws a Gantt layout as a standalone SVG document.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/natefinch/atomic"
)

// Theme holds the fill and stroke colors of a chart.
type Theme struct {
	Background string
	Grid       string
	Weekend    string
	Text       string
	Bar        map[domain.TaskStatus]string
	Progress   string
	Phase      string
	Arrow      string
}

type Options struct {
	LabelWidth    float64 // left gutter holding task names
	HeaderHeight  float64
	ArrowHeadSize float64
	FontFamily    string
	FontSize      int
	Theme         Theme
}

func DefaultOptions() Options {
	return Options{
		LabelWidth:    220,
		HeaderHeight:  40,
		ArrowHeadSize: 6,
		FontFamily:    "Helvetica, Arial, sans-serif",
		FontSize:      12,
		Theme: Theme{
			Background: "#ffffff",
			Grid:       "#e5e5e5",
			Weekend:    "#f6f6f6",
			Text:       "#333333",
			Bar: map[domain.TaskStatus]string{
				domain.TaskTodo:       "#83a598",
				domain.TaskInProgress: "#fabd2f",
				domain.TaskDone:       "#8ec07c",
				domain.TaskBlocked:    "#fb4934",
			},
			Progress: "#00000040",
			Phase:    "#7c6f64",
			Arrow:    "#504945",
		},
	}
}

func (t Theme) barColor(s domain.TaskStatus) string {
	if c, ok := t.Bar[s]; ok {
		return c
	}
	return t.Bar[domain.TaskTodo]
}

// SVG renders the materialized rows of resp.Layout, its arrows and a date
// header. Layout coordinates are shifted right by the label gutter and down
// by the header.
func SVG(resp *contract.GanttResponse, opts Options) string {
	l := resp.Layout
	ox, oy := opts.LabelWidth, opts.HeaderHeight
	width := ox + l.ContentWidth
	height := oy + l.ContentHeight
	if height < oy+l.RowHeight {
		height = oy + l.RowHeight
	}
	th := opts.Theme

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.label { font-family: %s; font-size: %dpx; fill: %s; }
.phase-label { font-family: %s; font-size: %dpx; font-weight: bold; fill: %s; }
.date { font-family: %s; font-size: %dpx; fill: %s; }
</style>
</defs>
`, num(width), num(height), num(width), num(height), th.Background,
		opts.FontFamily, opts.FontSize, th.Text,
		opts.FontFamily, opts.FontSize, th.Text,
		opts.FontFamily, opts.FontSize-2, th.Text))

	writeGrid(&svg, l, ox, oy, height, opts)
	if title := resp.Project.Name; title != "" {
		svg.WriteString(fmt.Sprintf(`<text x="8" y="%s" class="phase-label">%s</text>`+"\n",
			num(oy/2+float64(opts.FontSize)/2), escapeXML(title)))
	}

	barHeight := l.RowHeight * 0.6
	inset := (l.RowHeight - barHeight) / 2
	for _, b := range l.Bars {
		y := oy + b.Top
		x := ox + b.Position.Left
		indent := 8 + float64(b.Depth)*12
		class := "label"
		if b.IsPhase {
			class = "phase-label"
		}
		svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" class="%s">%s</text>`+"\n",
			num(indent), num(y+l.RowHeight/2+float64(opts.FontSize)/3), class, escapeXML(b.Name)))

		if b.IsPhase {
			h := barHeight / 2
			svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
				num(x), num(y+(l.RowHeight-h)/2), num(b.Position.Width), num(h), th.Phase))
			continue
		}
		svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" rx="3" fill="%s"><title>%s (%d%%)</title></rect>`+"\n",
			num(x), num(y+inset), num(b.Position.Width), num(barHeight), th.barColor(b.Status), escapeXML(b.Name), b.Progress))
		if b.ProgressWidth > 0 {
			svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" rx="3" fill="%s"/>`+"\n",
				num(x), num(y+inset), num(b.ProgressWidth), num(barHeight), th.Progress))
		}
	}

	for _, a := range l.Arrows {
		writeArrow(&svg, a, ox, oy, opts)
	}

	svg.WriteString("</svg>\n")
	return svg.String()
}

// writeGrid draws one column per day with shaded weekends and a date label
// on the first column and every Monday.
func writeGrid(svg *strings.Builder, l gantt.Layout, ox, oy, height float64, opts Options) {
	th := opts.Theme
	for i, d := range gantt.DateColumns(l.ViewStart, l.ViewEnd) {
		x := ox + float64(i)*l.DayWidth
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
				num(x), num(oy), num(l.DayWidth), num(height-oy), th.Weekend))
		}
		svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
			num(x), num(oy), num(x), num(height), th.Grid))
		if i == 0 || d.Weekday() == time.Monday {
			svg.WriteString(fmt.Sprintf(`<text x="%s" y="%s" class="date">%s</text>`+"\n",
				num(x+2), num(oy-6), d.Format("Jan 2")))
		}
	}
	svg.WriteString(fmt.Sprintf(`<line x1="0" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
		num(oy), num(ox+l.ContentWidth), num(oy), th.Grid))
}

func writeArrow(svg *strings.Builder, a gantt.Arrow, ox, oy float64, opts Options) {
	shifted := a
	shifted.StartX += ox
	shifted.EndX += ox
	shifted.StartY += oy
	shifted.EndY += oy
	svg.WriteString(fmt.Sprintf(`<line id="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		escapeXML(a.ID), num(shifted.StartX), num(shifted.StartY), num(shifted.EndX), num(shifted.EndY), opts.Theme.Arrow))

	head := gantt.ArrowHead(shifted, opts.ArrowHeadSize)
	svg.WriteString(fmt.Sprintf(`<polygon points="%s,%s %s,%s %s,%s" fill="%s"/>`+"\n",
		num(head[0].X), num(head[0].Y), num(head[1].X), num(head[1].Y), num(head[2].X), num(head[2].Y), opts.Theme.Arrow))
}

// WriteFile renders resp and replaces path atomically, so a viewer never
// sees a half-written chart.
func WriteFile(path string, resp *contract.GanttResponse, opts Options) error {
	if err := atomic.WriteFile(path, strings.NewReader(SVG(resp, opts))); err != nil {
		return fmt.Errorf("writing svg %s: %w", path, err)
	}
	return nil
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
