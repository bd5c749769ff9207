package charts

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"salesdash.senseiquotes.org/internal/series"
)

// Default image size for server-side rendering.
const (
	DefaultWidth  = 1024
	DefaultHeight = 480
)

var (
	aprilColor = drawing.ColorFromHex("6495ED") // cornflowerblue
	mayColor   = drawing.ColorFromHex("3CB371") // mediumseagreen
	lineColor  = drawing.ColorFromHex("008080") // teal
	goalColor  = chart.ColorRed
)

// RenderSummaryPNG draws the summary as interleaved April/May bars per representative.
// An empty summary renders a blank image.
func RenderSummaryPNG(w io.Writer, s series.Summary) error {
	if len(s.Labels) == 0 {
		return blank(w, DefaultWidth, DefaultHeight)
	}

	bars := make([]chart.Value, 0, 2*len(s.Labels))
	top := 0.0
	for i, label := range s.Labels {
		bars = append(bars,
			chart.Value{Label: label + " Apr", Value: s.SeriesA[i], Style: chart.Style{FillColor: aprilColor, StrokeColor: aprilColor}},
			chart.Value{Label: label + " May", Value: s.SeriesB[i], Style: chart.Style{FillColor: mayColor, StrokeColor: mayColor}},
		)
		top = math.Max(top, math.Max(s.SeriesA[i], s.SeriesB[i]))
	}

	const barWidth, barSpacing = 24, 8
	width := DefaultWidth
	if need := len(bars)*(barWidth+barSpacing) + 160; need > width {
		width = need
	}

	bc := chart.BarChart{
		Title:      "April vs May Quotes by Rep",
		Width:      width,
		Height:     DefaultHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  "Total Quotes",
			Range: &chart.ContinuousRange{Min: 0, Max: niceMax(top)},
		},
		Bars: bars,
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering summary chart: %w", err)
	}
	return nil
}

// RenderDetailPNG draws the representative's daily metric with the goal as a dashed line.
// Non-numeric points are skipped; a detail with no numeric points renders a blank image.
func RenderDetailPNG(w io.Writer, d series.Detail) error {
	var xs, ys []float64
	for i, v := range d.Values {
		if f, ok := v.Float(); ok {
			xs = append(xs, float64(i))
			ys = append(ys, f)
		}
	}
	if len(xs) == 0 {
		return blank(w, DefaultWidth, DefaultHeight)
	}

	ticks := dateTicks(d.Dates)
	last := ticks[len(ticks)-1].Value
	low, high := valueRange(ys, d.Goal)

	seriesList := []chart.Series{
		chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s's %s", d.Representative, d.Metric),
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: lineColor, StrokeWidth: 2, DotColor: lineColor, DotWidth: 3},
		},
	}
	if d.Goal != nil {
		seriesList = append(seriesList, chart.ContinuousSeries{
			Name:    fmt.Sprintf("Goal (%s)", formatGoal(*d.Goal)),
			XValues: []float64{0, last},
			YValues: []float64{*d.Goal, *d.Goal},
			Style:   chart.Style{StrokeColor: goalColor, StrokeWidth: 2, StrokeDashArray: []float64{6, 4}},
		})
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s – Daily %s in May", d.Representative, d.Metric),
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 48}},
		XAxis: chart.XAxis{
			Name:  "Date",
			Range: &chart.ContinuousRange{Min: 0, Max: last},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  d.Metric,
			Range: &chart.ContinuousRange{Min: low, Max: high},
		},
		Series: seriesList,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering detail chart: %w", err)
	}
	return nil
}

// dateTicks labels one tick per date. go-chart takes the x range from the ticks, so a
// single date gets an unlabeled second tick to keep the range non-empty.
func dateTicks(dates []string) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(dates)+1)
	for i, date := range dates {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: date})
	}
	for len(ticks) < 2 {
		ticks = append(ticks, chart.Tick{Value: float64(len(ticks))})
	}
	return ticks
}

// valueRange spans zero, every value and the goal.
func valueRange(values []float64, goal *float64) (low, high float64) {
	for _, v := range values {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	if goal != nil {
		high = math.Max(high, *goal)
	}
	if low < 0 {
		low *= 1.1
	}
	return low, niceMax(high)
}

// niceMax leaves headroom above the tallest value and never returns an empty range.
func niceMax(top float64) float64 {
	if top <= 0 {
		return 1
	}
	return top * 1.1
}

func blank(w io.Writer, width, height int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return png.Encode(w, img)
}
