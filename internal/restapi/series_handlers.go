package restapi

import (
	"fmt"
	"net/http"
	"time"

	"salesdash.senseiquotes.org/internal/charts"
	"salesdash.senseiquotes.org/internal/dashboard"
	"salesdash.senseiquotes.org/internal/models"
	"salesdash.senseiquotes.org/internal/series"
	"salesdash.senseiquotes.org/internal/utils"
)

type summaryEntry struct {
	Summary series.Summary `json:"summary"`
	Figure  charts.Figure  `json:"figure"`
}

type detailEntry struct {
	Detail   series.Detail    `json:"detail"`
	Figure   charts.Figure    `json:"figure"`
	Progress *charts.Progress `json:"progress"`
}

func (api *RestAPI) loadSummary(r *http.Request) (series.Summary, error) {
	ds, err := api.Sources.Load(r.Context(), api.Config.SummaryURL)
	if err != nil {
		return series.Summary{}, fmt.Errorf("loading summary: %w", err)
	}
	return series.BuildSummary(ds), nil
}

// loadDetail validates the request's representative and metric and builds the detail.
// ok is false when a response has already been written.
func (api *RestAPI) loadDetail(w http.ResponseWriter, r *http.Request) (detail series.Detail, ok bool) {
	rep := utils.ExtractParam(r, "representative")
	metric := r.URL.Query().Get("metric")
	if fieldErrors := utils.ValidateSelectionParams(rep, metric); len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return series.Detail{}, false
	}
	if metric == "" {
		metric = api.Goals.PrimaryMetric
	}

	daily, err := api.Sources.Load(r.Context(), api.Config.DailyURL)
	if err != nil {
		api.serverErrorResponse(w, r, fmt.Errorf("loading daily data: %w", err))
		return series.Detail{}, false
	}
	if !contains(series.Representatives(daily), rep) {
		api.dashboardErrorResponse(w, r, fmt.Errorf("%w: %q", dashboard.ErrUnknownRepresentative, rep))
		return series.Detail{}, false
	}
	if !contains(series.Metrics(daily, api.Goals.PrimaryMetric), metric) {
		api.dashboardErrorResponse(w, r, fmt.Errorf("%w: %q", dashboard.ErrUnknownMetric, metric))
		return series.Detail{}, false
	}
	return series.BuildDetail(daily, rep, metric, api.Goals), true
}

func (api *RestAPI) summaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := api.loadSummary(r)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(summaryEntry{
		Summary: summary,
		Figure:  charts.SummaryFigure(summary),
	}))
}

func (api *RestAPI) representativesHandler(w http.ResponseWriter, r *http.Request) {
	daily, err := api.Sources.Load(r.Context(), api.Config.DailyURL)
	if err != nil {
		api.serverErrorResponse(w, r, fmt.Errorf("loading daily data: %w", err))
		return
	}
	names := series.Representatives(daily)
	if names == nil {
		names = []string{}
	}
	api.sendResponse(w, r, models.NewListResponse(names))
}

func (api *RestAPI) detailHandler(w http.ResponseWriter, r *http.Request) {
	detail, ok := api.loadDetail(w, r)
	if !ok {
		return
	}

	entry := detailEntry{Detail: detail, Figure: charts.DetailFigure(detail)}
	if p, ok := charts.ProgressIndicator(detail); ok {
		entry.Progress = &p
	}
	api.sendResponse(w, r, models.NewEntryResponse(entry))
}

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewEntryResponse(models.NewCurrentTime(time.Now())))
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
