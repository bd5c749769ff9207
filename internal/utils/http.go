package utils

import (
	"net"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

var routeSuffixes = []string{".json", ".png", ".xlsx"}

// ExtractParam retrieves a route parameter from the request context and removes a file
// extension like ".json" or ".png". Catch-all parameters lose their leading slash, so names
// that contain "/" survive routing.
func ExtractParam(r *http.Request, paramName string) string {
	params := httprouter.ParamsFromContext(r.Context())
	raw := strings.TrimPrefix(params.ByName(paramName), "/")
	for _, suffix := range routeSuffixes {
		if strings.HasSuffix(raw, suffix) {
			return strings.TrimSuffix(raw, suffix)
		}
	}
	return raw
}

// ClientIP returns the host part of the request's remote address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
