package webui

import (
	"bytes"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"salesdash.senseiquotes.org/internal/series"
)

const debugContentSecurityPolicy = "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none';"

var debugDataTypes = []string{"summary", "daily", "goals", "sources"}

type debugData struct {
	Title string
	Pre   string
	Links []string
	Key   string
}

func (webUI *WebUI) writeDebugData(w http.ResponseWriter, r *http.Request, title string, data interface{}) {
	var buf bytes.Buffer
	err := debugTemplate.Execute(&buf, debugData{
		Title: title,
		Pre:   spew.Sdump(data),
		Links: debugDataTypes,
		Key:   r.URL.Query().Get("key"),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", debugContentSecurityPolicy)
	_, _ = w.Write(buf.Bytes())
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.RequestHasInvalidAdminKey(r) {
		http.Error(w, "permission denied", http.StatusUnauthorized)
		return
	}

	var data interface{}
	var title string

	switch r.URL.Query().Get("dataType") {
	case "summary":
		ds, err := webUI.Sources.Load(r.Context(), webUI.Config.SummaryURL)
		if err != nil {
			data = err
		} else {
			data = series.BuildSummary(ds)
		}
		title = "Summary - " + webUI.Config.SummaryURL
	case "daily":
		ds, err := webUI.Sources.Load(r.Context(), webUI.Config.DailyURL)
		if err != nil {
			data = err
		} else {
			data = map[string]interface{}{
				"columns":         ds.Header.Columns(),
				"rows":            ds.Len(),
				"representatives": series.Representatives(ds),
				"metrics":         series.Metrics(ds, webUI.Goals.PrimaryMetric),
			}
		}
		title = "Daily - " + webUI.Config.DailyURL
	case "goals":
		goals := make(map[string]float64)
		for _, name := range webUI.Goals.Table.Names() {
			goals[name] = webUI.Goals.Table.Lookup(name)
		}
		table := map[string]interface{}{
			"primaryMetric": webUI.Goals.PrimaryMetric,
			"fallback":      webUI.Goals.Table.Fallback(),
			"goals":         goals,
		}
		// Representatives in the daily data that get the fallback quota.
		if ds, err := webUI.Sources.Load(r.Context(), webUI.Config.DailyURL); err == nil {
			onFallback := []string{}
			for _, name := range series.Representatives(ds) {
				if !webUI.Goals.Table.Has(name) {
					onFallback = append(onFallback, name)
				}
			}
			table["onFallback"] = onFallback
		}
		data = table
		title = "Goal Table"
	case "sources":
		data = webUI.Sources.Cached()
		title = "Cached Sources"
	default:
		data = map[string]string{
			"error": "Please use one of the following: summary, daily, goals, sources.",
		}
		title = "Choose a data type"
	}

	webUI.writeDebugData(w, r, title, data)
}
