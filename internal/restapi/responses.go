package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"salesdash.senseiquotes.org/internal/logging"
	"salesdash.senseiquotes.org/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	setJSONResponseType(w)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(logging.FromContext(r.Context(), api.Logger), "failed to encode response", err)
	}
}

// sendBytes writes an already rendered body, such as a PNG or a workbook.
func (api *RestAPI) sendBytes(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(body); err != nil {
		logging.FromContext(r.Context(), api.Logger).Debug("client went away", slog.String("error", err.Error()))
	}
}

func setJSONResponseType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
}
