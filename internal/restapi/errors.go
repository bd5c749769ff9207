package restapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"salesdash.senseiquotes.org/internal/dashboard"
	"salesdash.senseiquotes.org/internal/logging"
	"salesdash.senseiquotes.org/internal/models"
)

// errorEnvelope is the response body of every failed request.
type errorEnvelope struct {
	Code        int                 `json:"code"`
	CurrentTime int64               `json:"currentTime"`
	Text        string              `json:"text"`
	Version     int                 `json:"version"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
}

func writeErrorEnvelope(w http.ResponseWriter, code int, text string, fieldErrors map[string][]string) error {
	setJSONResponseType(w)
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(errorEnvelope{
		Code:        code,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     models.ResponseVersion,
		FieldErrors: fieldErrors,
	})
}

// writeError sends the envelope and logs an encoding failure on the request's logger.
func writeError(w http.ResponseWriter, r *http.Request, fallback *slog.Logger, code int, text string, fieldErrors map[string][]string) {
	if err := writeErrorEnvelope(w, code, text, fieldErrors); err != nil {
		logging.LogError(logging.FromContext(r.Context(), fallback), "failed to encode error response", err,
			slog.Int("code", code))
	}
}

func (api *RestAPI) writeError(w http.ResponseWriter, r *http.Request, code int, text string, fieldErrors map[string][]string) {
	writeError(w, r, api.Logger, code, text, fieldErrors)
}

// invalidAdminKeyResponse sends a 401 Unauthorized response for admin endpoints
func (api *RestAPI) invalidAdminKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, r, http.StatusUnauthorized, "permission denied", nil)
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context(), api.Logger), "request failed", err)
	api.writeError(w, r, http.StatusInternalServerError, "internal server error", nil)
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	api.writeError(w, r, http.StatusBadRequest, "invalid input", fieldErrors)
}

func (api *RestAPI) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, r, http.StatusNotFound, "resource not found", nil)
}

func (api *RestAPI) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
}

// dashboardErrorResponse maps controller errors onto HTTP responses.
func (api *RestAPI) dashboardErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, dashboard.ErrUnknownRepresentative):
		api.notFoundResponse(w, r)
	case errors.Is(err, dashboard.ErrUnknownMetric):
		api.validationErrorResponse(w, r, map[string][]string{"metric": {err.Error()}})
	case errors.Is(err, dashboard.ErrUnknownEvent), errors.Is(err, dashboard.ErrNotStarted):
		api.validationErrorResponse(w, r, map[string][]string{"event": {err.Error()}})
	default:
		api.serverErrorResponse(w, r, err)
	}
}
