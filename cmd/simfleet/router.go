package main

import (
	"net/http"

	"github.com/phrazzld/simfleet/internal/api"
)

// setupRouter mounts the API handlers.
func (app *application) setupRouter() http.Handler {
	return api.NewRouter(api.Handlers{
		Runs:     api.NewRunHandler(app.fleetRunner, app.status, app.logger),
		Accounts: api.NewAccountHandler(app.provisioning, app.status, app.logger),
		Health:   api.NewHealthHandler(app.healthCheck),
	}, app.logger)
}
