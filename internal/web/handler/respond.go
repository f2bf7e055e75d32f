// Package handler holds shared pieces of the web handlers: the JSON response
// envelope, error-to-status translation and route constants.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Error names of the response envelope, one per taxonomy entry.
const (
	ErrNameValidation = "ValidationError"
	ErrNameAuth       = "AuthenticationError"
	ErrNameForbidden  = "GroupAuthorizationError"
	ErrNameNotFound   = "NotFoundError"
	ErrNameConflict   = "ConflictError"
	ErrNameDatastore  = "DatastoreUnavailable"
	ErrNameInternal   = "InternalServerError"
)

// Envelope is the uniform JSON response shape of the API.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSONSuccess writes a success envelope with the given status code.
func JSONSuccess(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// JSONError writes an error envelope with the given status code.
func JSONError(c *fiber.Ctx, status int, errName, message string) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Error:   errName,
		Message: message,
	})
}

// ValidationError responds 400 naming the invalid or missing field.
func ValidationError(c *fiber.Ctx, message string) error {
	return JSONError(c, fiber.StatusBadRequest, ErrNameValidation, message)
}

// AuthError responds 401 for missing or invalid sessions.
func AuthError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "User not authenticated"
	}

	return JSONError(c, fiber.StatusUnauthorized, ErrNameAuth, message)
}

// ForbiddenError responds 403. The message never reveals whether the target
// resource exists, only that the caller is not permitted.
func ForbiddenError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "You are not permitted to act on this group"
	}

	return JSONError(c, fiber.StatusForbidden, ErrNameForbidden, message)
}

// NotFoundError responds 404 for absent or soft-deleted entities.
func NotFoundError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}

	return JSONError(c, fiber.StatusNotFound, ErrNameNotFound, message)
}

// ConflictError responds 409 with an actionable message.
func ConflictError(c *fiber.Ctx, message string) error {
	return JSONError(c, fiber.StatusConflict, ErrNameConflict, message)
}

// DatastoreError responds 503 when the backing store binding is unavailable.
func DatastoreError(c *fiber.Ctx) error {
	return JSONError(c, fiber.StatusServiceUnavailable, ErrNameDatastore, "Datastore unavailable")
}

// InternalError logs the cause server-side and responds 500 with the
// internal detail suppressed.
func InternalError(c *fiber.Ctx, err error) error {
	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled handler error")

	return JSONError(c, fiber.StatusInternalServerError, ErrNameInternal, "Something went wrong")
}
