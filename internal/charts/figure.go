// Package charts turns series into render instructions for the browser's charting library
// and into server-side PNG images.
package charts

import (
	"fmt"

	"salesdash.senseiquotes.org/internal/csvdata"
	"salesdash.senseiquotes.org/internal/series"
)

// Chart mount points on the dashboard page.
const (
	SummaryTarget = "barChart"
	DetailTarget  = "lineChart"
)

// Kind is the chart family of a figure.
type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line+scatter"
)

// Figure is one complete render instruction. Rendering a figure replaces whatever
// the target displayed before.
type Figure struct {
	Target string  `json:"target"`
	Kind   Kind    `json:"kind"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	Config Config  `json:"config"`
}

type Trace struct {
	Type          string          `json:"type"`
	Mode          string          `json:"mode,omitempty"`
	Name          string          `json:"name"`
	X             []string        `json:"x"`
	Y             []csvdata.Value `json:"y"`
	Marker        *Marker         `json:"marker,omitempty"`
	Line          *Line           `json:"line,omitempty"`
	HoverTemplate string          `json:"hovertemplate,omitempty"`
}

type Marker struct {
	Color string `json:"color"`
}

type Line struct {
	Color string  `json:"color,omitempty"`
	Dash  string  `json:"dash,omitempty"`
	Width float64 `json:"width,omitempty"`
	Shape string  `json:"shape,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type Axis struct {
	Title     Title  `json:"title"`
	RangeMode string `json:"rangemode,omitempty"`
}

type Margin struct {
	T int `json:"t"`
	B int `json:"b"`
}

type Legend struct {
	Orientation string  `json:"orientation,omitempty"`
	Y           float64 `json:"y,omitempty"`
}

type Layout struct {
	Title        Title   `json:"title"`
	BarMode      string  `json:"barmode,omitempty"`
	XAxis        Axis    `json:"xaxis"`
	YAxis        Axis    `json:"yaxis"`
	Margin       Margin  `json:"margin"`
	PlotBgColor  string  `json:"plot_bgcolor"`
	PaperBgColor string  `json:"paper_bgcolor"`
	Legend       *Legend `json:"legend,omitempty"`
}

type Config struct {
	Responsive bool `json:"responsive"`
}

// SummaryFigure is the grouped April/May bar chart.
func SummaryFigure(s series.Summary) Figure {
	return Figure{
		Target: SummaryTarget,
		Kind:   KindBar,
		Data: []Trace{
			{Type: "bar", Name: "April Quotes", X: s.Labels, Y: numbers(s.SeriesA), Marker: &Marker{Color: "cornflowerblue"}},
			{Type: "bar", Name: "May Quotes", X: s.Labels, Y: numbers(s.SeriesB), Marker: &Marker{Color: "mediumseagreen"}},
		},
		Layout: Layout{
			Title:        Title{Text: "April vs May Quotes by Rep"},
			BarMode:      "group",
			XAxis:        Axis{Title: Title{Text: "Rep"}},
			YAxis:        Axis{Title: Title{Text: "Total Quotes"}, RangeMode: "tozero"},
			Margin:       Margin{T: 50, B: 100},
			PlotBgColor:  "#fff",
			PaperBgColor: "#fff",
			Legend:       &Legend{Orientation: "h", Y: -0.2},
		},
		Config: Config{Responsive: true},
	}
}

// DetailFigure is the daily metric line, plus a dashed goal line when the detail has a goal.
func DetailFigure(d series.Detail) Figure {
	hover := fmt.Sprintf("%%{x}<br>%s: %%{y}", d.Metric)
	if d.Goal != nil {
		hover += "<br>Goal: " + formatGoal(*d.Goal)
	}
	hover += "<extra></extra>"

	traces := []Trace{{
		Type:          "scatter",
		Mode:          "lines+markers",
		Name:          fmt.Sprintf("%s's %s", d.Representative, d.Metric),
		X:             d.Dates,
		Y:             d.Values,
		Marker:        &Marker{Color: "teal"},
		Line:          &Line{Shape: "spline"},
		HoverTemplate: hover,
	}}
	if d.Goal != nil {
		traces = append(traces, Trace{
			Type: "scatter",
			Mode: "lines",
			Name: fmt.Sprintf("Goal (%s)", formatGoal(*d.Goal)),
			X:    d.Dates,
			Y:    numbers(d.GoalLine()),
			Line: &Line{Dash: "dash", Color: "red", Width: 2},
		})
	}

	return Figure{
		Target: DetailTarget,
		Kind:   KindLine,
		Data:   traces,
		Layout: Layout{
			Title:        Title{Text: fmt.Sprintf("%s – Daily %s in May", d.Representative, d.Metric)},
			XAxis:        Axis{Title: Title{Text: "Date"}},
			YAxis:        Axis{Title: Title{Text: d.Metric}, RangeMode: "tozero"},
			Margin:       Margin{T: 50, B: 50},
			PlotBgColor:  "#fff",
			PaperBgColor: "#fff",
		},
		Config: Config{Responsive: true},
	}
}

func numbers(fs []float64) []csvdata.Value {
	out := make([]csvdata.Value, len(fs))
	for i, f := range fs {
		out[i] = csvdata.Number(f)
	}
	return out
}

func formatGoal(goal float64) string {
	return fmt.Sprintf("%g", goal)
}
