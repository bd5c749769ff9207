// Package dashboard owns the selection state of one dashboard and keeps its two chart
// views consistent with it.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sync"

	"salesdash.senseiquotes.org/internal/charts"
	"salesdash.senseiquotes.org/internal/csvdata"
	"salesdash.senseiquotes.org/internal/logging"
	"salesdash.senseiquotes.org/internal/series"
)

var (
	ErrNotStarted            = errors.New("dashboard not started")
	ErrUnknownEvent          = errors.New("unknown event")
	ErrUnknownRepresentative = errors.New("unknown representative")
	ErrUnknownMetric         = errors.New("unknown metric")
)

type State int

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Event names a user interaction.
type Event string

const (
	RepresentativeChanged Event = "representative-changed"
	MetricChanged         Event = "metric-changed"
)

// Selection is the current representative and metric.
type Selection struct {
	Representative string `json:"representative"`
	Metric         string `json:"metric"`
}

// Option is one entry of a selection control.
type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Source loads a dataset by URL.
type Source interface {
	Load(ctx context.Context, url string) (csvdata.Dataset, error)
}

// Renderer replaces the chart at a figure's target.
type Renderer interface {
	Replace(ctx context.Context, figure charts.Figure) error
}

// View is the page holding the selection controls and the progress container.
type View interface {
	SetRepresentativeOptions(options []Option)
	SetMetricOptions(options []Option)
	SetSelection(selection Selection)
	SetProgress(markup template.HTML)
}

type Config struct {
	SummaryURL string
	DailyURL   string
	Goals      series.GoalPolicy
}

type handler func(current Selection, value string) Selection

// Controller moves from Uninitialized to Ready on Start and then re-renders the detail
// view on every selection event. Events are applied one at a time in arrival order.
type Controller struct {
	config   Config
	source   Source
	renderer Renderer
	view     View
	logger   *slog.Logger
	handlers map[Event]handler

	mu              sync.Mutex
	state           State
	selection       Selection
	representatives map[string]bool
	metrics         map[string]bool
	names           []string
}

func New(config Config, source Source, renderer Renderer, view View, logger *slog.Logger) *Controller {
	return &Controller{
		config:   config,
		source:   source,
		renderer: renderer,
		view:     view,
		logger:   logging.ForComponent(logger, logging.ComponentDashboard),
		handlers: map[Event]handler{
			RepresentativeChanged: func(current Selection, value string) Selection {
				return Selection{Representative: value, Metric: current.Metric}
			},
			MetricChanged: func(current Selection, value string) Selection {
				return Selection{Representative: current.Representative, Metric: value}
			},
		},
	}
}

// Start renders the summary once, fills the selection controls from the daily dataset
// and renders the detail for the alphabetically first representative. Starting a Ready
// controller does nothing.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Ready {
		return nil
	}

	summary, err := c.source.Load(ctx, c.config.SummaryURL)
	if err != nil {
		return fmt.Errorf("loading summary: %w", err)
	}
	if err := c.renderer.Replace(ctx, charts.SummaryFigure(series.BuildSummary(summary))); err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}

	daily, err := c.source.Load(ctx, c.config.DailyURL)
	if err != nil {
		return fmt.Errorf("loading daily data: %w", err)
	}

	c.names = series.Representatives(daily)
	c.representatives = make(map[string]bool, len(c.names))
	repOptions := make([]Option, len(c.names))
	for i, name := range c.names {
		c.representatives[name] = true
		repOptions[i] = Option{Value: name, Text: name}
	}

	metricNames := series.Metrics(daily, c.config.Goals.PrimaryMetric)
	c.metrics = map[string]bool{c.config.Goals.PrimaryMetric: true}
	metricOptions := make([]Option, len(metricNames))
	for i, name := range metricNames {
		c.metrics[name] = true
		metricOptions[i] = Option{Value: name, Text: name}
	}

	c.view.SetRepresentativeOptions(repOptions)
	c.view.SetMetricOptions(metricOptions)

	initial := Selection{Metric: c.config.Goals.PrimaryMetric}
	if len(c.names) > 0 {
		initial.Representative = c.names[0]
	}
	if err := c.renderDetail(ctx, daily, initial); err != nil {
		return err
	}

	c.selection = initial
	c.state = Ready
	c.view.SetSelection(initial)

	logging.LogOperation(c.logger, "dashboard_started",
		slog.Int("representatives", len(c.names)),
		slog.String("representative", initial.Representative),
		slog.String("metric", initial.Metric))
	return nil
}

// Dispatch applies a selection event and re-renders the detail view. On failure the
// previous selection and rendering stay in place.
func (c *Controller) Dispatch(ctx context.Context, event Event, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Ready {
		return ErrNotStarted
	}
	h, ok := c.handlers[event]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}

	next := h(c.selection, value)
	if !c.representatives[next.Representative] {
		return fmt.Errorf("%w: %q", ErrUnknownRepresentative, next.Representative)
	}
	if !c.metrics[next.Metric] {
		return fmt.Errorf("%w: %q", ErrUnknownMetric, next.Metric)
	}

	daily, err := c.source.Load(ctx, c.config.DailyURL)
	if err != nil {
		return fmt.Errorf("loading daily data: %w", err)
	}
	if err := c.renderDetail(ctx, daily, next); err != nil {
		return err
	}

	c.selection = next
	c.view.SetSelection(next)
	return nil
}

func (c *Controller) renderDetail(ctx context.Context, daily csvdata.Dataset, sel Selection) error {
	detail := series.BuildDetail(daily, sel.Representative, sel.Metric, c.config.Goals)
	if err := c.renderer.Replace(ctx, charts.DetailFigure(detail)); err != nil {
		return fmt.Errorf("rendering detail: %w", err)
	}

	markup, err := charts.ProgressMarkup(detail)
	if err != nil {
		return fmt.Errorf("rendering progress: %w", err)
	}
	c.view.SetProgress(markup)

	c.logger.Debug("detail_rendered",
		slog.String("representative", sel.Representative),
		slog.String("metric", sel.Metric),
		slog.Int("points", len(detail.Dates)))
	return nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

// Representatives returns the names captured at startup.
func (c *Controller) Representatives() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}
