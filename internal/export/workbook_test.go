package export

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesdash.senseiquotes.org/internal/csvdata"
	"salesdash.senseiquotes.org/internal/dashboard"
	"salesdash.senseiquotes.org/internal/series"
)

type mapSource map[string]string

func (m mapSource) Load(_ context.Context, url string) (csvdata.Dataset, error) {
	text, ok := m[url]
	if !ok {
		return csvdata.Dataset{}, errors.New("no such source")
	}
	return csvdata.Parse(text), nil
}

func testReport(t *testing.T) Report {
	t.Helper()
	source := mapSource{
		"summary.csv": "Name,Sensei Quotes_April,Sensei Quotes_May\nAdrian Alviar,10,20\nBob,,5",
		"daily.csv":   "Name,Date,Quotes\nBob,2024-05-01,3\nAdrian Alviar,2024-05-01,5\nAdrian Alviar,2024-05-02,7",
	}
	config := dashboard.Config{SummaryURL: "summary.csv", DailyURL: "daily.csv", Goals: series.DefaultGoalPolicy()}

	report, err := BuildReport(context.Background(), source, config)
	require.NoError(t, err)
	return report
}

func TestBuildReport(t *testing.T) {
	report := testReport(t)

	assert.Equal(t, []string{"Adrian Alviar", "Bob"}, report.Summary.Labels)
	require.Len(t, report.Details, 2)
	assert.Equal(t, "Adrian Alviar", report.Details[0].Representative)
	assert.Equal(t, "Bob", report.Details[1].Representative)

	t.Run("load failure", func(t *testing.T) {
		_, err := BuildReport(context.Background(), mapSource{}, dashboard.Config{SummaryURL: "x"})
		assert.Error(t, err)
	})
}

func TestWorkbook(t *testing.T) {
	f, err := testReport(t).Workbook()
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SummarySheet, DailySheet, ProgressSheet}, f.GetSheetList())

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(summary), 3)
	assert.Equal(t, []string{"Rep", "April Quotes", "May Quotes"}, summary[0][:3])
	assert.Equal(t, []string{"Bob", "0", "5"}, summary[2][:3])

	daily, err := f.GetRows(DailySheet)
	require.NoError(t, err)
	require.Len(t, daily, 4)
	assert.Equal(t, []string{"Adrian Alviar", "2024-05-01", "5", "100"}, daily[1])

	progress, err := f.GetRows(ProgressSheet)
	require.NoError(t, err)
	require.Len(t, progress, 3)
	assert.Equal(t, []string{"Adrian Alviar", "100", "12", "12", "table"}, progress[1])
	assert.Equal(t, []string{"Bob", "150", "3", "2", "fallback"}, progress[2])
}

func TestWriteRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testReport(t).Write(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	pics, err := f.GetPictures(SummarySheet, "E22")
	require.NoError(t, err)
	assert.Len(t, pics, 1)
}

func TestSaveAs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.xlsx")
	require.NoError(t, testReport(t).SaveAs(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Contains(t, f.GetSheetList(), ProgressSheet)
}

func TestEmptyReport(t *testing.T) {
	f, err := Report{}.Workbook()
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
