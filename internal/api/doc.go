// Package api exposes the fleet over HTTP: triggering runs, provisioning
// accounts and reading back outcomes. Handlers decode and validate requests,
// call services and map service errors to status codes.
package api
