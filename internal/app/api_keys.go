package app

import (
	"net/http"

	"salesdash.senseiquotes.org/internal/appconf"
)

// RequestHasInvalidAdminKey checks the "key" query parameter of an admin request.
func (app *Application) RequestHasInvalidAdminKey(r *http.Request) bool {
	key := r.URL.Query().Get("key")
	return app.IsInvalidAdminKey(key)
}

// IsInvalidAdminKey reports whether key may not use admin endpoints. Without configured
// keys admin endpoints are open in development and closed everywhere else.
func (app *Application) IsInvalidAdminKey(key string) bool {
	validKeys := app.Config.AdminKeys
	if len(validKeys) == 0 {
		return app.Config.Env != appconf.Development
	}

	if key == "" {
		return true
	}

	for _, validKey := range validKeys {
		if key == validKey {
			return false
		}
	}

	return true
}
