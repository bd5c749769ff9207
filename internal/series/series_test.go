package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash.senseiquotes.org/internal/csvdata"
	"salesdash.senseiquotes.org/internal/goals"
)

const dailyCSV = "Name,Date,Quotes\nAlice,2024-05-01,5\nAlice,2024-05-02,7\nBob,2024-05-01,3"

func floats(t *testing.T, values []csvdata.Value) []float64 {
	t.Helper()
	out := make([]float64, len(values))
	for i, v := range values {
		f, ok := v.Float()
		require.True(t, ok, "value %d is not numeric", i)
		out[i] = f
	}
	return out
}

func testPolicy(t *testing.T) GoalPolicy {
	t.Helper()
	table, err := goals.NewTable(map[string]float64{"Alice": 100}, goals.DefaultFallback)
	require.NoError(t, err)
	return GoalPolicy{PrimaryMetric: PrimaryMetric, Table: table}
}

func TestBuildSummary(t *testing.T) {
	t.Run("blank totals become zero bars", func(t *testing.T) {
		ds := csvdata.Parse("Name,Sensei Quotes_April,Sensei Quotes_May\nAlice,10,20\nBob,,5")

		s := BuildSummary(ds)

		assert.Equal(t, []string{"Alice", "Bob"}, s.Labels)
		assert.Equal(t, []float64{10, 0}, s.SeriesA)
		assert.Equal(t, []float64{20, 5}, s.SeriesB)
	})

	t.Run("missing columns and short rows keep lengths aligned", func(t *testing.T) {
		ds := csvdata.Parse("Name,Sensei Quotes_April\nAlice,4\nBob\nCarol,n/a")

		s := BuildSummary(ds)

		assert.Len(t, s.Labels, 3)
		assert.Len(t, s.SeriesA, 3)
		assert.Len(t, s.SeriesB, 3)
		assert.Equal(t, []float64{4, 0, 0}, s.SeriesA)
		assert.Equal(t, []float64{0, 0, 0}, s.SeriesB)
	})

	t.Run("empty dataset", func(t *testing.T) {
		s := BuildSummary(csvdata.Parse("Name,Sensei Quotes_April,Sensei Quotes_May"))
		assert.Empty(t, s.Labels)
		assert.Empty(t, s.SeriesA)
		assert.Empty(t, s.SeriesB)
	})

	t.Run("idempotent", func(t *testing.T) {
		ds := csvdata.Parse("Name,Sensei Quotes_April,Sensei Quotes_May\nAlice,10,20")
		assert.Equal(t, BuildSummary(ds), BuildSummary(ds))
	})
}

func TestBuildDetail(t *testing.T) {
	ds := csvdata.Parse(dailyCSV)
	policy := testPolicy(t)

	t.Run("filters to the representative in row order", func(t *testing.T) {
		d := BuildDetail(ds, "Alice", "Quotes", policy)

		assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, d.Dates)
		assert.Equal(t, []float64{5, 7}, floats(t, d.Values))
		require.NotNil(t, d.Goal)
		assert.Equal(t, 100.0, *d.Goal)
		assert.Equal(t, []float64{100, 100}, d.GoalLine())

		percent, ok := d.Progress()
		assert.True(t, ok)
		assert.Equal(t, 12, percent)
	})

	t.Run("match is case sensitive", func(t *testing.T) {
		d := BuildDetail(ds, "alice", "Quotes", policy)
		assert.Empty(t, d.Dates)
	})

	t.Run("unknown representative falls back and clamps", func(t *testing.T) {
		heavy := csvdata.Parse("Name,Date,Quotes\nCarol,2024-05-01,120\nCarol,2024-05-02,80")

		d := BuildDetail(heavy, "Carol", "Quotes", policy)

		require.NotNil(t, d.Goal)
		assert.Equal(t, 150.0, *d.Goal)
		assert.Equal(t, 200.0, d.Total())
		percent, ok := d.Progress()
		assert.True(t, ok)
		assert.Equal(t, 100, percent)
	})

	t.Run("no matching rows keeps the goal and reports zero progress", func(t *testing.T) {
		d := BuildDetail(ds, "Zed", "Quotes", policy)

		assert.Empty(t, d.Dates)
		assert.Empty(t, d.Values)
		assert.Empty(t, d.GoalLine())
		require.NotNil(t, d.Goal)
		assert.Equal(t, 150.0, *d.Goal)

		percent, ok := d.Progress()
		assert.True(t, ok)
		assert.Equal(t, 0, percent)
	})

	t.Run("non-primary metric has no goal", func(t *testing.T) {
		withCalls := csvdata.Parse("Name,Date,Quotes,Calls\nAlice,2024-05-01,5,11\nAlice,2024-05-02,7,")

		d := BuildDetail(withCalls, "Alice", "Calls", policy)

		assert.Nil(t, d.Goal)
		assert.Nil(t, d.GoalLine())
		assert.Len(t, d.Values, 2)
		assert.True(t, d.Values[0].IsNumber())
		assert.False(t, d.Values[1].IsNumber())

		_, ok := d.Progress()
		assert.False(t, ok)
	})

	t.Run("missing metric column yields absent values", func(t *testing.T) {
		d := BuildDetail(ds, "Alice", "Meetings", policy)

		require.Len(t, d.Values, 2)
		assert.False(t, d.Values[0].IsPresent())
		assert.Equal(t, len(d.Dates), len(d.Values))
	})

	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, BuildDetail(ds, "Alice", "Quotes", policy), BuildDetail(ds, "Alice", "Quotes", policy))
	})
}

func TestComputeProgress(t *testing.T) {
	goal := func(f float64) *float64 { return &f }
	nums := func(fs ...float64) []csvdata.Value {
		out := make([]csvdata.Value, len(fs))
		for i, f := range fs {
			out[i] = csvdata.Number(f)
		}
		return out
	}

	tests := []struct {
		name    string
		values  []csvdata.Value
		goal    *float64
		want    int
		present bool
	}{
		{"absent goal", nums(5), nil, 0, false},
		{"zero goal", nums(5), goal(0), 0, false},
		{"negative goal", nums(5), goal(-10), 0, false},
		{"rounds to nearest", nums(1), goal(3), 33, true},
		{"rounds half up", nums(1), goal(8), 13, true},
		{"clamps above", nums(500), goal(100), 100, true},
		{"clamps below", nums(-50), goal(100), 0, true},
		{"empty values", nil, goal(100), 0, true},
		{"text counts as zero", []csvdata.Value{csvdata.Text("x"), csvdata.Number(10), {}}, goal(100), 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeProgress(tt.values, tt.goal)
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("monotonic in the total", func(t *testing.T) {
		last := -1
		for total := 0.0; total <= 300; total += 7 {
			got, ok := ComputeProgress(nums(total), goal(150))
			require.True(t, ok)
			assert.GreaterOrEqual(t, got, last)
			assert.LessOrEqual(t, got, 100)
			last = got
		}
	})
}

func TestRepresentatives(t *testing.T) {
	ds := csvdata.Parse("Name,Date,Quotes\nZoe,1,1\nAlice,1,1\nZoe,2,2\nMark,1,1")
	assert.Equal(t, []string{"Alice", "Mark", "Zoe"}, Representatives(ds))
	assert.Empty(t, Representatives(csvdata.Parse("Name,Date")))
}

func TestMetrics(t *testing.T) {
	ds := csvdata.Parse("Name,Calls,Date,Quotes,Meetings\nA,1,2,3,4")
	assert.Equal(t, []string{"Quotes", "Calls", "Meetings"}, Metrics(ds, "Quotes"))

	noPrimary := csvdata.Parse("Name,Date,Calls")
	assert.Equal(t, []string{"Calls"}, Metrics(noPrimary, "Quotes"))
}
