package handler

const (
	// RootPath is the root path of the route group.
	RootPath = "/"

	// APIBasePath prefixes all JSON API routes.
	APIBasePath = "/api/v1"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
