package restapi

import (
	"bytes"
	"fmt"
	"net/http"

	"salesdash.senseiquotes.org/internal/charts"
	"salesdash.senseiquotes.org/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (api *RestAPI) summaryPNGHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := api.loadSummary(r)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderSummaryPNG(&buf, summary); err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendBytes(w, r, "image/png", buf.Bytes())
}

func (api *RestAPI) detailPNGHandler(w http.ResponseWriter, r *http.Request) {
	detail, ok := api.loadDetail(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderDetailPNG(&buf, detail); err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendBytes(w, r, "image/png", buf.Bytes())
}

func (api *RestAPI) exportHandler(w http.ResponseWriter, r *http.Request) {
	report, err := export.BuildReport(r.Context(), api.Sources, api.DashboardConfig())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, api.Logger); err != nil {
		api.serverErrorResponse(w, r, fmt.Errorf("writing workbook: %w", err))
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.xlsx"`)
	api.sendBytes(w, r, xlsxContentType, buf.Bytes())
}
