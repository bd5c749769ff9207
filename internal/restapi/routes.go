package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func requireAdminKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAdminKey(r) {
			api.invalidAdminKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/api/dashboard.json", api.dashboardHandler)
	router.HandlerFunc(http.MethodPost, "/api/dashboard/events.json", api.eventsHandler)
	router.HandlerFunc(http.MethodGet, "/api/summary.json", api.summaryHandler)
	router.HandlerFunc(http.MethodGet, "/api/representatives.json", api.representativesHandler)
	router.HandlerFunc(http.MethodGet, "/api/detail/*representative", api.detailHandler)
	router.HandlerFunc(http.MethodGet, "/api/current-time.json", api.currentTimeHandler)

	router.HandlerFunc(http.MethodGet, "/charts/summary.png", api.summaryPNGHandler)
	router.HandlerFunc(http.MethodGet, "/charts/detail/*representative", api.detailPNGHandler)

	router.Handler(http.MethodGet, "/export/dashboard.xlsx", requireAdminKey(api, api.exportHandler))

	router.NotFound = http.HandlerFunc(api.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(api.methodNotAllowedResponse)
}
