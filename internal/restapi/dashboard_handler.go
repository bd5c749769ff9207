package restapi

import (
	"encoding/json"
	"net/http"

	"salesdash.senseiquotes.org/internal/dashboard"
	"salesdash.senseiquotes.org/internal/models"
	"salesdash.senseiquotes.org/internal/utils"
)

const maxEventBodyBytes = 64 << 10

// dashboardEntry is a session board plus its controller state.
type dashboardEntry struct {
	State string `json:"state"`
	dashboard.Snapshot
}

type eventRequest struct {
	Event string `json:"event"`
	Value string `json:"value"`
}

func newDashboardEntry(sess *session) dashboardEntry {
	return dashboardEntry{
		State:    sess.controller.State().String(),
		Snapshot: sess.board.Snapshot(),
	}
}

// dashboardHandler starts the caller's dashboard on first use and returns its board.
func (api *RestAPI) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	sess := api.sessions.get(w, r)
	if err := sess.controller.Start(r.Context()); err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(newDashboardEntry(sess)))
}

// eventsHandler applies one selection event to the caller's dashboard.
func (api *RestAPI) eventsHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := api.sessions.lookup(r)
	if !ok {
		api.dashboardErrorResponse(w, r, dashboard.ErrNotStarted)
		return
	}

	var req eventRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxEventBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"body": {"invalid JSON body"}})
		return
	}

	fieldErrors := make(map[string][]string)
	switch dashboard.Event(req.Event) {
	case dashboard.RepresentativeChanged:
		if err := utils.ValidateRepresentative(req.Value); err != nil {
			fieldErrors["value"] = append(fieldErrors["value"], err.Error())
		}
	case dashboard.MetricChanged:
		if err := utils.ValidateMetric(req.Value); err != nil {
			fieldErrors["value"] = append(fieldErrors["value"], err.Error())
		}
	case "":
		fieldErrors["event"] = append(fieldErrors["event"], "event cannot be empty")
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	if err := sess.controller.Dispatch(r.Context(), dashboard.Event(req.Event), req.Value); err != nil {
		api.dashboardErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(newDashboardEntry(sess)))
}
