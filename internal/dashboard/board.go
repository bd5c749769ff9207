package dashboard

import (
	"context"
	"html/template"
	"sync"

	"salesdash.senseiquotes.org/internal/charts"
)

// Board is an in-memory Renderer and View. It keeps the latest figure per target
// and the latest control contents so they can be shipped to a browser in one piece.
type Board struct {
	mu       sync.RWMutex
	figures  map[string]charts.Figure
	reps     []Option
	metrics  []Option
	sel      Selection
	progress template.HTML
	renders  int
}

// Snapshot is a copy of a Board's contents.
type Snapshot struct {
	Summary         *charts.Figure `json:"summary"`
	Detail          *charts.Figure `json:"detail"`
	Representatives []Option       `json:"representatives"`
	Metrics         []Option       `json:"metrics"`
	Selection       Selection      `json:"selection"`
	Progress        template.HTML  `json:"progress"`
	Renders         int            `json:"renders"`
}

func NewBoard() *Board {
	return &Board{figures: make(map[string]charts.Figure)}
}

func (b *Board) Replace(_ context.Context, figure charts.Figure) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.figures[figure.Target] = figure
	b.renders++
	return nil
}

func (b *Board) SetRepresentativeOptions(options []Option) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reps = append([]Option(nil), options...)
}

func (b *Board) SetMetricOptions(options []Option) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.metrics = append([]Option(nil), options...)
}

func (b *Board) SetSelection(selection Selection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sel = selection
}

func (b *Board) SetProgress(markup template.HTML) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.progress = markup
}

func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Snapshot{
		Representatives: append([]Option{}, b.reps...),
		Metrics:         append([]Option{}, b.metrics...),
		Selection:       b.sel,
		Progress:        b.progress,
		Renders:         b.renders,
	}
	if fig, ok := b.figures[charts.SummaryTarget]; ok {
		s.Summary = &fig
	}
	if fig, ok := b.figures[charts.DetailTarget]; ok {
		s.Detail = &fig
	}
	return s
}
