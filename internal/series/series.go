// Package series derives chart-ready data from parsed sales datasets.
// Every function here is pure: identical inputs give deep-equal outputs.
package series

import (
	"math"
	"sort"

	"salesdash.senseiquotes.org/internal/csvdata"
	"salesdash.senseiquotes.org/internal/goals"
)

// Column names of the two source files.
const (
	NameColumn    = "Name"
	DateColumn    = "Date"
	AprilColumn   = "Sensei Quotes_April"
	MayColumn     = "Sensei Quotes_May"
	PrimaryMetric = "Quotes"
)

// Summary is the grouped bar data: one label per summary row and two index-aligned monthly totals.
type Summary struct {
	Labels  []string  `json:"labels"`
	SeriesA []float64 `json:"seriesA"`
	SeriesB []float64 `json:"seriesB"`
}

// Detail is one representative's daily values for a metric, with an optional goal.
type Detail struct {
	Representative string          `json:"representative"`
	Metric         string          `json:"metric"`
	Dates          []string        `json:"dates"`
	Values         []csvdata.Value `json:"values"`
	Goal           *float64        `json:"goal,omitempty"`
}

// GoalPolicy decides when a detail view carries a goal: only for the primary metric.
type GoalPolicy struct {
	PrimaryMetric string
	Table         *goals.Table
}

// DefaultGoalPolicy uses the "Quotes" metric and the built-in goal table.
func DefaultGoalPolicy() GoalPolicy {
	return GoalPolicy{PrimaryMetric: PrimaryMetric, Table: goals.DefaultTable()}
}

// GoalFor returns the goal for representative under metric, if any.
func (p GoalPolicy) GoalFor(representative, metric string) (float64, bool) {
	if metric != p.PrimaryMetric || p.Table == nil {
		return 0, false
	}
	return p.Table.Lookup(representative), true
}

// BuildSummary reads names and the April/May totals. Missing or falsy totals become 0 so they
// render as zero bars; non-numeric text also counts as 0.
func BuildSummary(ds csvdata.Dataset) Summary {
	s := Summary{
		Labels:  make([]string, len(ds.Records)),
		SeriesA: make([]float64, len(ds.Records)),
		SeriesB: make([]float64, len(ds.Records)),
	}
	for i, rec := range ds.Records {
		s.Labels[i] = rec.Value(NameColumn).String()
		s.SeriesA[i] = numberOrZero(rec.Value(AprilColumn))
		s.SeriesB[i] = numberOrZero(rec.Value(MayColumn))
	}
	return s
}

// BuildDetail filters ds to the representative's rows (exact match, row order kept)
// and reads the date and metric columns.
func BuildDetail(ds csvdata.Dataset, representative, metric string, policy GoalPolicy) Detail {
	rows := ds.Filter(func(rec csvdata.Record) bool {
		name, ok := rec.Get(NameColumn)
		return ok && name.String() == representative
	})

	d := Detail{
		Representative: representative,
		Metric:         metric,
		Dates:          make([]string, len(rows.Records)),
		Values:         make([]csvdata.Value, len(rows.Records)),
	}
	for i, rec := range rows.Records {
		d.Dates[i] = rec.Value(DateColumn).String()
		d.Values[i] = rec.Value(metric)
	}
	if goal, ok := policy.GoalFor(representative, metric); ok {
		d.Goal = &goal
	}
	return d
}

// GoalLine returns the constant goal series aligned with Dates, or nil without a goal.
func (d Detail) GoalLine() []float64 {
	if d.Goal == nil {
		return nil
	}
	line := make([]float64, len(d.Dates))
	for i := range line {
		line[i] = *d.Goal
	}
	return line
}

// Total sums the numeric values; text and absent cells count as 0.
func (d Detail) Total() float64 {
	return sum(d.Values)
}

// Progress is ComputeProgress applied to the detail's values and goal.
func (d Detail) Progress() (int, bool) {
	return ComputeProgress(d.Values, d.Goal)
}

// ComputeProgress returns round(clamp(sum/goal*100, 0, 100)). ok is false when the
// goal is absent or not a positive number.
func ComputeProgress(values []csvdata.Value, goal *float64) (percent int, ok bool) {
	if goal == nil || !(*goal > 0) || math.IsInf(*goal, 0) {
		return 0, false
	}
	p := sum(values) / *goal * 100
	p = math.Max(0, math.Min(100, p))
	return int(math.Round(p)), true
}

// Representatives returns the distinct names of ds, sorted.
func Representatives(ds csvdata.Dataset) []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range ds.Records {
		v, ok := rec.Get(NameColumn)
		if !ok {
			continue
		}
		name := v.String()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Metrics returns the plottable columns of a daily dataset: every column except name
// and date, with primary first when present.
func Metrics(ds csvdata.Dataset, primary string) []string {
	var metrics []string
	if ds.Header.Has(primary) {
		metrics = append(metrics, primary)
	}
	for _, col := range ds.Header.Columns() {
		if col == NameColumn || col == DateColumn || col == primary {
			continue
		}
		metrics = append(metrics, col)
	}
	return metrics
}

func numberOrZero(v csvdata.Value) float64 {
	if f, ok := v.Float(); ok && v.Truthy() {
		return f
	}
	return 0
}

func sum(values []csvdata.Value) float64 {
	var total float64
	for _, v := range values {
		if f, ok := v.Float(); ok {
			total += f
		}
	}
	return total
}
