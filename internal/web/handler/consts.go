// Package handler holds constants and helpers shared by web handlers.
package handler

const (
	// RootPath is the root path of the route group.
	RootPath = "/"

	// APIPath is the base path for the JSON API.
	APIPath = "/api"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// LocalsActor is the fiber.Locals key holding the authenticated user.
	LocalsActor = "actor"
)
