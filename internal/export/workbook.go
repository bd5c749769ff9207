// Package export writes the dashboard data to an xlsx workbook.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"salesdash.senseiquotes.org/internal/charts"
	"salesdash.senseiquotes.org/internal/csvdata"
	"salesdash.senseiquotes.org/internal/dashboard"
	"salesdash.senseiquotes.org/internal/logging"
	"salesdash.senseiquotes.org/internal/series"
)

const (
	SummarySheet  = "Summary"
	DailySheet    = "Daily"
	ProgressSheet = "Progress"
)

// Report is everything that goes into one workbook.
type Report struct {
	Summary series.Summary
	Details []series.Detail
	Goals   series.GoalPolicy
}

// BuildReport loads both datasets and builds the primary-metric detail of every representative.
func BuildReport(ctx context.Context, source dashboard.Source, config dashboard.Config) (Report, error) {
	summary, err := source.Load(ctx, config.SummaryURL)
	if err != nil {
		return Report{}, fmt.Errorf("loading summary: %w", err)
	}
	daily, err := source.Load(ctx, config.DailyURL)
	if err != nil {
		return Report{}, fmt.Errorf("loading daily data: %w", err)
	}

	report := Report{Summary: series.BuildSummary(summary), Goals: config.Goals}
	for _, rep := range series.Representatives(daily) {
		report.Details = append(report.Details, series.BuildDetail(daily, rep, config.Goals.PrimaryMetric, config.Goals))
	}
	return report, nil
}

// Workbook lays the report out over the Summary, Daily and Progress sheets.
// The caller closes the returned file.
func (r Report) Workbook() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, name := range []string{DailySheet, ProgressSheet} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	steps := []func(*excelize.File) error{r.writeSummary, r.writeDaily, r.writeProgress}
	for _, step := range steps {
		if err := step(f); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

func (r Report) writeSummary(f *excelize.File) error {
	if err := f.SetSheetRow(SummarySheet, "A1", &[]any{"Rep", "April Quotes", "May Quotes"}); err != nil {
		return err
	}
	for i, label := range r.Summary.Labels {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &[]any{label, r.Summary.SeriesA[i], r.Summary.SeriesB[i]}); err != nil {
			return err
		}
	}
	if len(r.Summary.Labels) == 0 {
		return nil
	}

	last := len(r.Summary.Labels) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", SummarySheet, last)
	err := f.AddChart(SummarySheet, "E2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{Name: SummarySheet + "!$B$1", Categories: categories, Values: fmt.Sprintf("%s!$B$2:$B$%d", SummarySheet, last)},
			{Name: SummarySheet + "!$C$1", Categories: categories, Values: fmt.Sprintf("%s!$C$2:$C$%d", SummarySheet, last)},
		},
		Title:  []excelize.RichTextRun{{Text: "April vs May Quotes by Rep"}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	})
	if err != nil {
		return fmt.Errorf("adding summary chart: %w", err)
	}

	var png bytes.Buffer
	if err := charts.RenderSummaryPNG(&png, r.Summary); err != nil {
		return err
	}
	return f.AddPictureFromBytes(SummarySheet, "E22", &excelize.Picture{
		Extension: ".png",
		File:      png.Bytes(),
		Format:    &excelize.GraphicOptions{AltText: "April vs May Quotes by Rep", ScaleX: 0.6, ScaleY: 0.6},
	})
}

func (r Report) writeDaily(f *excelize.File) error {
	metric := series.PrimaryMetric
	if len(r.Details) > 0 {
		metric = r.Details[0].Metric
	}
	if err := f.SetSheetRow(DailySheet, "A1", &[]any{"Rep", "Date", metric, "Goal"}); err != nil {
		return err
	}

	row := 2
	for _, d := range r.Details {
		for i, date := range d.Dates {
			values := []any{d.Representative, date, cellValue(d.Values[i])}
			if d.Goal != nil {
				values = append(values, *d.Goal)
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(DailySheet, cell, &values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (r Report) writeProgress(f *excelize.File) error {
	if err := f.SetSheetRow(ProgressSheet, "A1", &[]any{"Rep", "Goal", "Total", "Progress %", "Goal Source"}); err != nil {
		return err
	}
	for i, d := range r.Details {
		values := []any{d.Representative, nil, d.Total(), nil, nil}
		if d.Goal != nil {
			values[1] = *d.Goal
			values[4] = r.goalSource(d.Representative)
		}
		if percent, ok := d.Progress(); ok {
			values[3] = percent
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ProgressSheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// goalSource tells a quota from the goal table apart from the fallback.
func (r Report) goalSource(representative string) string {
	if r.Goals.Table != nil && r.Goals.Table.Has(representative) {
		return "table"
	}
	return "fallback"
}

// Write streams the workbook as xlsx.
func (r Report) Write(w io.Writer, logger *slog.Logger) (err error) {
	f, err := r.Workbook()
	if err != nil {
		return err
	}
	defer logging.CloseOnReturn(&err, f.Close, logger, "workbook")

	return f.Write(w)
}

// SaveAs writes the workbook to path.
func (r Report) SaveAs(path string, logger *slog.Logger) (err error) {
	f, err := r.Workbook()
	if err != nil {
		return err
	}
	defer logging.CloseOnReturn(&err, f.Close, logger, path)

	return f.SaveAs(path)
}

func cellValue(v csvdata.Value) any {
	if f, ok := v.Float(); ok {
		return f
	}
	if !v.IsPresent() {
		return nil
	}
	return v.String()
}
